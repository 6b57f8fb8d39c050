package finder

import (
	"image"
	"iter"

	"github.com/samber/lo"
)

// MergeFinder 把满足关系的结果传递性地合并，每组输出一个外接矩形
type MergeFinder struct {
	op     Operator
	finder Finder
}

// NewMergeFinder 创建合并查找器，op 按对称关系处理
func NewMergeFinder(op Operator, f Finder) *MergeFinder {
	return &MergeFinder{op: op, finder: f}
}

// Find 实现 Finder，分组按组内最小下标排序
func (f *MergeFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		locs := FindAll(f.finder, in)
		labels := f.label(locs)

		for _, label := range lo.Uniq(labels) {
			members := lo.Filter(locs, func(_ *Location, i int) bool {
				return labels[i] == label
			})
			r := members[0].Rect()
			for _, m := range members[1:] {
				r = r.Union(m.Rect())
			}
			r = r.Sub(image.Point{X: in.X(), Y: in.Y()})

			loc, err := NewLocation(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), WithParent(in))
			if err != nil {
				continue
			}
			if !yield(loc) {
				return
			}
		}
	}
}

// label 每个结果的组号为其连通分量中最小的下标，反复传播直到不变
func (f *MergeFinder) label(locs LocationList) []int {
	labels := lo.Range(len(locs))
	for changed := true; changed; {
		changed = false
		for i := range locs {
			for j := i + 1; j < len(locs); j++ {
				if labels[i] == labels[j] {
					continue
				}
				if !f.op(locs[i], locs[j]) && !f.op(locs[j], locs[i]) {
					continue
				}
				m := min(labels[i], labels[j])
				labels[i], labels[j] = m, m
				changed = true
			}
		}
	}
	return labels
}
