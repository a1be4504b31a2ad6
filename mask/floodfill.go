package mask

import (
	"image"
)

// qualifies 只看 RGB，不看 alpha：已经半透明但颜色够亮的像素同样算背景
func qualifies(pix []uint8, threshold uint8) bool {
	return pix[0] >= threshold && pix[1] >= threshold && pix[2] >= threshold
}

// corners 左上、右上、左下、右下
func corners(width, height int) [4]image.Point {
	return [4]image.Point{
		{X: 0, Y: 0},
		{X: width - 1, Y: 0},
		{X: 0, Y: height - 1},
		{X: width - 1, Y: height - 1},
	}
}

// ClassifyBackground 从四个角做 4 连通 flood fill，返回所有能连到角上的近白像素
//
// 用显式栈而不是递归；越界和 visited 在出栈时检查。
// 不满足阈值的像素不标记、不扩展，这是阻止填充进入主体的唯一条件。
// 四个角共用一个 visited 集合，前一个角已经访问过的像素不会被再次检查。
func ClassifyBackground(grid *image.NRGBA, threshold uint8) *BackgroundSet {
	b := grid.Bounds()
	w, h := b.Dx(), b.Dy()
	set := newBackgroundSet(w, h)
	if w <= 0 || h <= 0 {
		return set
	}

	var stack []image.Point
	for _, seed := range corners(w, h) {
		stack = append(stack[:0], seed)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
				continue
			}
			i := p.Y*w + p.X
			if set.visited[i] {
				continue
			}

			off := grid.PixOffset(b.Min.X+p.X, b.Min.Y+p.Y)
			if !qualifies(grid.Pix[off:off+3], threshold) {
				continue
			}

			set.mark(i)
			stack = append(stack,
				image.Point{X: p.X - 1, Y: p.Y},
				image.Point{X: p.X + 1, Y: p.Y},
				image.Point{X: p.X, Y: p.Y - 1},
				image.Point{X: p.X, Y: p.Y + 1},
			)
		}
	}
	return set
}

// ApplyTransparency 把集合里的像素 alpha 置 0，RGB 保持不变
// 只修改集合里的坐标，超出 grid 的坐标忽略
func ApplyTransparency(grid *image.NRGBA, set *BackgroundSet) {
	if set.Len() == 0 {
		return
	}
	b := grid.Bounds()
	w, h := min(set.width, b.Dx()), min(set.height, b.Dy())
	for y := 0; y < h; y++ {
		row := y * set.width
		for x := 0; x < w; x++ {
			if !set.visited[row+x] {
				continue
			}
			grid.Pix[grid.PixOffset(b.Min.X+x, b.Min.Y+y)+3] = 0
		}
	}
}
