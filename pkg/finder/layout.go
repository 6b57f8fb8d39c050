package finder

import "iter"

// OffsetFromMainPointFinder 在每个结果的点击点加偏移处输出 1x1 区域
type OffsetFromMainPointFinder struct {
	finder Finder
	dx, dy int
}

// NewOffsetFromMainPointFinder 创建点击点偏移查找器
func NewOffsetFromMainPointFinder(f Finder, dx, dy int) *OffsetFromMainPointFinder {
	return &OffsetFromMainPointFinder{finder: f, dx: dx, dy: dy}
}

// Find 实现 Finder，偏移后落在 in 之外的点被丢弃
func (f *OffsetFromMainPointFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		for loc := range f.finder.Find(in) {
			p := loc.MainPoint()
			point, err := NewLocation(p.X+f.dx-in.X(), p.Y+f.dy-in.Y(), 1, 1,
				WithParent(in), WithMainPointOffset(0, 0))
			if err != nil {
				continue
			}
			if !yield(point) {
				return
			}
		}
	}
}
