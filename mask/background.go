package mask

import (
	"image"
)

// DefaultThreshold 默认白色阈值，故意放宽一点，把白底附近的抗锯齿边缘也算进背景
const DefaultThreshold uint8 = 252

// BackgroundSet 背景像素坐标集合
// 坐标相对于图片 Bounds().Min，取值范围 0 <= X < width, 0 <= Y < height
// 同一个集合也是 flood fill 的 visited 集合，四个角共用
type BackgroundSet struct {
	width, height int
	visited       []bool
	n             int
}

func newBackgroundSet(width, height int) *BackgroundSet {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &BackgroundSet{
		width:   width,
		height:  height,
		visited: make([]bool, width*height),
	}
}

func (s *BackgroundSet) mark(i int) {
	s.visited[i] = true
	s.n++
}

// Contains 判断坐标是否属于背景
func (s *BackgroundSet) Contains(p image.Point) bool {
	if s == nil || p.X < 0 || p.X >= s.width || p.Y < 0 || p.Y >= s.height {
		return false
	}
	return s.visited[p.Y*s.width+p.X]
}

// Len 背景像素个数
func (s *BackgroundSet) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}

// Size 集合对应的图片尺寸
func (s *BackgroundSet) Size() image.Point {
	if s == nil {
		return image.Point{}
	}
	return image.Pt(s.width, s.height)
}

// Points 按行优先顺序返回所有背景坐标
func (s *BackgroundSet) Points() []image.Point {
	if s == nil {
		return nil
	}
	points := make([]image.Point, 0, s.n)
	for i, ok := range s.visited {
		if ok {
			points = append(points, image.Pt(i%s.width, i/s.width))
		}
	}
	return points
}

// Bounds 背景像素的外接矩形，集合为空时返回空矩形
func (s *BackgroundSet) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, p := range s.Points() {
		r = r.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
	}
	return r
}
