package mask

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// iconImage 白底中间一个红色方块
func iconImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := white
			if x >= w/4 && x < w*3/4 && y >= h/4 && y < h*3/4 {
				c = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestImagePreprocessor_PreprocessImage(t *testing.T) {
	t.Parallel()

	p := NewPreprocessor()
	got, res, err := p.ImagePreprocess(context.Background(), iconImage(64, 64))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), got.Bounds())
	assert.Equal(t, 64*64-32*32, res.Background)
	assert.Equal(t, image.Rect(16, 16, 48, 48), res.Foreground)

	f, err := os.Create(filepath.Join(t.TempDir(), ksuid.New().String()+"_preprocess.png"))
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	t.Logf("image name: %s", f.Name())
	require.NoError(t, png.Encode(f, got))
}

func TestImagePreprocessor_MaxSize(t *testing.T) {
	t.Parallel()

	p := NewPreprocessor(WithMaxSize(16))
	got, res, err := p.ImagePreprocess(context.Background(), iconImage(64, 64))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), got.Bounds())
	assert.Equal(t, 16, res.Width)
	assert.Equal(t, 16, res.Height)
	assert.Equal(t, uint8(0), got.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(255), got.NRGBAAt(8, 8).A)
}

func TestImagePreprocessor_MaxSizeKeepsTransparentColor(t *testing.T) {
	t.Parallel()

	// 白色但已经完全透明的底，中间一个不透明黑块
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 0}
			if x >= 24 && x < 40 && y >= 24 && y < 40 {
				c = black
			}
			img.SetNRGBA(x, y, c)
		}
	}

	_, full, err := NewPreprocessor().ImagePreprocess(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, 64*64-16*16, full.Background)

	got, res, err := NewPreprocessor(WithMaxSize(32)).ImagePreprocess(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), got.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 0}, got.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 0}, got.NRGBAAt(31, 31))
	assert.Equal(t, uint8(255), got.NRGBAAt(16, 16).A)
	assert.Less(t, got.NRGBAAt(16, 16).R, uint8(DefaultThreshold))
	// 黑块缩放后约 8x8，加上 Lanczos 影响的边缘，其余都应是背景
	assert.GreaterOrEqual(t, res.Background, 32*32-15*15)
	assert.Less(t, res.Background, 32*32)
}

func TestResizeWithinMax_KeepsStraightAlpha(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 250, 120, 30, 64
	}

	got := resizeWithinMax(img, 4)
	require.Equal(t, image.Rect(0, 0, 4, 4), got.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, color.NRGBA{R: 250, G: 120, B: 30, A: 64}, got.NRGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

type stubRemover struct {
	called bool
}

func (s *stubRemover) Remove(_ context.Context, img image.Image) (*image.NRGBA, *Result, error) {
	s.called = true
	return toNRGBA(img), &Result{}, nil
}

func TestImagePreprocessor_WithRemover(t *testing.T) {
	t.Parallel()

	stub := &stubRemover{}
	p := NewPreprocessor(WithRemover(stub))
	_, _, err := p.ImagePreprocess(context.Background(), iconImage(4, 4))
	require.NoError(t, err)
	assert.True(t, stub.called)
}

func TestAlphaBBox(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	_, err := alphaBBox(img, 0)
	assert.ErrorIs(t, err, ErrNoForeground)

	img.SetNRGBA(1, 2, color.NRGBA{A: 100})
	img.SetNRGBA(2, 1, color.NRGBA{A: 255})
	bbox, err := alphaBBox(img, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(1, 1, 3, 3), bbox)

	bbox, err = alphaBBox(img, 0.8)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(2, 1, 3, 2), bbox)
}

func TestResizeWithinMax(t *testing.T) {
	t.Parallel()

	img := iconImage(10, 4)
	assert.Same(t, img, resizeWithinMax(img, 0))
	assert.Same(t, img, resizeWithinMax(img, 10))
	assert.Equal(t, image.Rect(0, 0, 5, 2), resizeWithinMax(img, 5).Bounds())
}

func TestCloneNRGBA(t *testing.T) {
	t.Parallel()

	img := iconImage(4, 4)
	c := cloneNRGBA(img)
	assert.NotSame(t, img, c)
	assert.Equal(t, img.Pix, c.Pix)

	c.Pix[3] = 0
	assert.Equal(t, uint8(255), img.Pix[3])
}
