package mask

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"golang.org/x/image/draw"
)

var ErrNoForeground = errors.New("未检测到前景区域")

type Preprocessor struct {
	RemBG BackgroundRemover
	// MaxSize 最长边上限，0 表示不缩放
	MaxSize int
}

type Option func(*Preprocessor)

func WithRemover(r BackgroundRemover) Option {
	return func(p *Preprocessor) {
		p.RemBG = r
	}
}

func WithMaxSize(size int) Option {
	return func(p *Preprocessor) {
		p.MaxSize = size
	}
}

func NewPreprocessor(opts ...Option) *Preprocessor {
	p := &Preprocessor{
		RemBG: NewFloodFillRemover(DefaultThreshold),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ImagePreprocess 把输入图片变成
//
//	尺寸 ≤ MaxSize（MaxSize 为 0 时保持原尺寸）
//	NRGBA，白底被置为透明，RGB 不变
func (p *Preprocessor) ImagePreprocess(ctx context.Context, input image.Image) (*image.NRGBA, *Result, error) {
	src := input
	if p.MaxSize > 0 {
		resized := resizeWithinMax(toNRGBA(input), p.MaxSize)
		if resized.Bounds() != input.Bounds() {
			slog.Info("image resized", "from", input.Bounds().Size(), "to", resized.Bounds().Size())
		}
		src = resized
	}
	return p.RemBG.Remove(ctx, src)
}

// alphaBBox 从 alpha 通道计算主体 bounding box
// 把 alpha > threshold * 255 的像素当作“主体”，找所有主体像素的坐标
func alphaBBox(img *image.NRGBA, threshold float64) (image.Rectangle, error) {
	b := img.Bounds()
	th := uint8(threshold * 255)

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y
	found := false

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] <= th {
				continue
			}
			found = true
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
		}
	}

	if !found {
		return image.Rectangle{}, ErrNoForeground
	}

	return image.Rect(minX, minY, maxX+1, maxY+1), nil
}

// toNRGBA 转为 NRGBA，已经是 NRGBA 时直接返回
func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	return cloneNRGBA(img)
}

// cloneNRGBA 总是返回一份新的 NRGBA，RGB 不做预乘
func cloneNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	if src, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			copy(dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)], src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)])
		}
		return dst
	}
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}
