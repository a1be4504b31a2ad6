package mask

import (
	"context"
	"image"
	"log/slog"
	"time"
)

type BackgroundRemover interface {
	Remove(ctx context.Context, img image.Image) (*image.NRGBA, *Result, error)
}

// Result 一次去背景的统计信息
type Result struct {
	Width      int
	Height     int
	Background int
	// HadAlpha 输入图片本来就带透明像素
	HadAlpha bool
	// Foreground 处理后主体（alpha > 0）的外接矩形，没有主体时为空
	Foreground image.Rectangle
	Elapsed    time.Duration
}

// Total 像素总数
func (r *Result) Total() int {
	return r.Width * r.Height
}

// FloodFillRemover 从四个角 flood fill 找白底并置为透明
type FloodFillRemover struct {
	Threshold uint8
}

func NewFloodFillRemover(threshold uint8) *FloodFillRemover {
	return &FloodFillRemover{Threshold: threshold}
}

// Remove 不修改 img，结果写在一份 NRGBA 拷贝上
func (f *FloodFillRemover) Remove(ctx context.Context, img image.Image) (*image.NRGBA, *Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	grid := cloneNRGBA(img)
	b := grid.Bounds()
	res := &Result{
		Width:    b.Dx(),
		Height:   b.Dy(),
		HadAlpha: hasUsefulAlpha(grid),
	}
	if res.HadAlpha {
		slog.Debug("input already has transparent pixels, they are still classified by RGB only")
	}

	set := ClassifyBackground(grid, f.Threshold)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	ApplyTransparency(grid, set)

	res.Background = set.Len()
	if bbox, err := alphaBBox(grid, 0); err == nil {
		res.Foreground = bbox
	}
	res.Elapsed = time.Since(start)

	slog.Debug("background removed",
		"threshold", f.Threshold,
		"background", res.Background,
		"total", res.Total(),
		"foreground", res.Foreground)
	return grid, res, nil
}
