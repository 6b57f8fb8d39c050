package finder

import "iter"

// FinderInFinder 先用 outer 找出子区域，再在每个子区域内用 inner 查找
//
// 结果挂在输入区域下，坐标累加外层偏移。
type FinderInFinder struct {
	inner, outer Finder
}

// NewFinderInFinder 创建嵌套查找器
func NewFinderInFinder(inner, outer Finder) *FinderInFinder {
	return &FinderInFinder{inner: inner, outer: outer}
}

// Find 实现 Finder
func (f *FinderInFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		for outer := range f.outer.Find(in) {
			for inner := range f.inner.Find(outer) {
				loc, err := reparent(inner, outer, in)
				if err != nil {
					continue
				}
				if !yield(loc) {
					return
				}
			}
		}
	}
}

func reparent(inner, outer, in *Location) (*Location, error) {
	if outer.RelX() == 0 && outer.RelY() == 0 {
		return inner.Copy(WithParent(in))
	}
	return inner.Copy(WithParent(in), WithPosition(outer.RelX()+inner.RelX(), outer.RelY()+inner.RelY()))
}
