package mask

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// hasUsefulAlpha 检查 alpha 通道是否真的包含透明信息
// 只要存在非 255（非完全不透明），就认为已经有透明像素
func hasUsefulAlpha(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] != 255 {
				return true
			}
		}
	}
	return false
}

// resizeWithinMax 缩放（最长边 <= maxSize）
func resizeWithinMax(img *image.NRGBA, maxSize int) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	longest := max(w, h)

	if maxSize <= 0 || longest <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(longest)
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))

	// RGB 和 alpha 分开缩放，避免预乘把透明像素的颜色变成黑色
	rgb, alpha := splitAlpha(img)
	rgbResized := resize.Resize(uint(newW), uint(newH), rgb, resize.Lanczos3)
	alphaResized := resize.Resize(uint(newW), uint(newH), alpha, resize.Lanczos3)
	return joinAlpha(rgbResized, alphaResized)
}

// splitAlpha 拆成不透明的 RGB 图和 alpha 灰度图
func splitAlpha(img *image.NRGBA) (*image.RGBA, *image.Gray) {
	b := img.Bounds()
	rect := image.Rect(0, 0, b.Dx(), b.Dy())
	rgb := image.NewRGBA(rect)
	alpha := image.NewGray(rect)
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			src := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			dst := rgb.PixOffset(x, y)
			copy(rgb.Pix[dst:dst+3], img.Pix[src:src+3])
			rgb.Pix[dst+3] = 255
			alpha.Pix[alpha.PixOffset(x, y)] = img.Pix[src+3]
		}
	}
	return rgb, alpha
}

func joinAlpha(rgb, alpha image.Image) *image.NRGBA {
	b := rgb.Bounds()
	ab := alpha.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.RGBAModel.Convert(rgb.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			a := color.GrayModel.Convert(alpha.At(ab.Min.X+x, ab.Min.Y+y)).(color.Gray)
			off := out.PixOffset(x, y)
			out.Pix[off] = c.R
			out.Pix[off+1] = c.G
			out.Pix[off+2] = c.B
			out.Pix[off+3] = a.Y
		}
	}
	return out
}
