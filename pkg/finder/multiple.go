package finder

import "iter"

// MultipleFinder 按声明顺序拼接多个查找器的结果
type MultipleFinder struct {
	finders []Finder
}

// NewMultipleFinder 创建组合查找器
func NewMultipleFinder(finders ...Finder) *MultipleFinder {
	return &MultipleFinder{finders: finders}
}

// Find 实现 Finder
func (f *MultipleFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		for _, sub := range f.finders {
			for loc := range sub.Find(in) {
				if !yield(loc) {
					return
				}
			}
		}
	}
}
