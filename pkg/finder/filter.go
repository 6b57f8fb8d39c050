package finder

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// NoStop SliceFinderFilter 不限制结束位置
const NoStop = math.MaxInt

// LocationFinderFilter 只保留满足条件的结果
type LocationFinderFilter struct {
	pred   func(*Location) bool
	finder Finder
}

// NewLocationFinderFilter 创建条件过滤器
func NewLocationFinderFilter(pred func(*Location) bool, f Finder) *LocationFinderFilter {
	return &LocationFinderFilter{pred: pred, finder: f}
}

// Find 实现 Finder
func (f *LocationFinderFilter) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		for loc := range f.finder.Find(in) {
			if !f.pred(loc) {
				continue
			}
			if !yield(loc) {
				return
			}
		}
	}
}

// SortingFinder 收集全部结果后按 key 稳定排序
type SortingFinder struct {
	finder  Finder
	key     func(*Location) int
	reverse bool
}

// NewSortingFinder 创建排序查找器，reverse 为 true 时降序
func NewSortingFinder(f Finder, key func(*Location) int, reverse bool) *SortingFinder {
	return &SortingFinder{finder: f, key: key, reverse: reverse}
}

// Find 实现 Finder
func (f *SortingFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		locs := FindAll(f.finder, in)
		slices.SortStableFunc(locs, func(a, b *Location) int {
			ka, kb := f.key(a), f.key(b)
			if f.reverse {
				ka, kb = kb, ka
			}
			switch {
			case ka < kb:
				return -1
			case ka > kb:
				return 1
			}
			return 0
		})
		for _, loc := range locs {
			if !yield(loc) {
				return
			}
		}
	}
}

// SliceFinderFilter 按下标切片结果序列，语义同 [start:stop:step]
type SliceFinderFilter struct {
	finder            Finder
	start, stop, step int
}

// NewSliceFinderFilter 创建切片过滤器
//
// start、stop 不能为负，step 必须为正，否则返回 *ConfigurationError。
func NewSliceFinderFilter(f Finder, start, stop, step int) (*SliceFinderFilter, error) {
	if start < 0 {
		return nil, &ConfigurationError{Field: "start", Reason: fmt.Sprintf("不能为负: %d", start)}
	}
	if stop < 0 {
		return nil, &ConfigurationError{Field: "stop", Reason: fmt.Sprintf("不能为负: %d", stop)}
	}
	if step <= 0 {
		return nil, &ConfigurationError{Field: "step", Reason: fmt.Sprintf("必须为正: %d", step)}
	}
	return &SliceFinderFilter{finder: f, start: start, stop: stop, step: step}, nil
}

// Index 只取第 i 个结果
func Index(f Finder, i int) (*SliceFinderFilter, error) {
	stop := i + 1
	if i == NoStop {
		stop = NoStop
	}
	return NewSliceFinderFilter(f, i, stop, 1)
}

// Find 实现 Finder
func (f *SliceFinderFilter) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		if f.start >= f.stop {
			return
		}
		i := 0
		for loc := range f.finder.Find(in) {
			if i >= f.start && (i-f.start)%f.step == 0 {
				if !yield(loc) {
					return
				}
			}
			i++
			if i >= f.stop {
				return
			}
		}
	}
}

// first 排序后取第一个
func first(f Finder, key func(*Location) int, reverse bool) Finder {
	s, _ := Index(NewSortingFinder(f, key, reverse), 0)
	return s
}

// LeftMost 最靠左的结果
func LeftMost(f Finder) Finder {
	return first(f, (*Location).X, false)
}

// RightMost 右边缘最靠右的结果
func RightMost(f Finder) Finder {
	return first(f, func(l *Location) int { return l.X() + l.W() }, true)
}

// TopMost 最靠上的结果
func TopMost(f Finder) Finder {
	return first(f, (*Location).Y, false)
}

// BottomMost 下边缘最靠下的结果
func BottomMost(f Finder) Finder {
	return first(f, func(l *Location) int { return l.Y() + l.H() }, true)
}
