package finder

import (
	"iter"
	"math"
)

// Operator 两个区域之间的空间关系
type Operator func(a, b *Location) bool

// And 两个关系同时成立
func (op Operator) And(other Operator) Operator {
	return func(a, b *Location) bool {
		return op(a, b) && other(a, b)
	}
}

// Or 任一关系成立
func (op Operator) Or(other Operator) Operator {
	return func(a, b *Location) bool {
		return op(a, b) || other(a, b)
	}
}

// Not 关系取反
func (op Operator) Not() Operator {
	return func(a, b *Location) bool {
		return !op(a, b)
	}
}

// Finder 构造 LocationOperatorFinder
func (op Operator) Finder(a, b Finder) *LocationOperatorFinder {
	return NewLocationOperatorFinder(op, a, b)
}

var (
	// Below b 完全在 a 下方
	Below Operator = func(a, b *Location) bool {
		return b.Y() >= a.Y()+a.H()
	}
	// Above b 完全在 a 上方
	Above Operator = func(a, b *Location) bool {
		return b.Y()+b.H() <= a.Y()
	}
	// LeftOf b 完全在 a 左侧
	LeftOf Operator = func(a, b *Location) bool {
		return b.X()+b.W() <= a.X()
	}
	// RightOf b 完全在 a 右侧
	RightOf Operator = func(a, b *Location) bool {
		return b.X() >= a.X()+a.W()
	}

	// RowAligned 纵向区间有重叠或相接
	RowAligned = MaxVerticalSeparation(0)
	// ColumnAligned 横向区间有重叠或相接
	ColumnAligned = MaxHorizontalSeparation(0)
	// Intersects 外接矩形重叠或相接
	Intersects = RowAligned.And(ColumnAligned)
)

// separation 两个区间之间的空隙，重叠时为 0
func separation(start1, len1, start2, len2 int) int {
	return max(0, max(start1, start2)-min(start1+len1, start2+len2))
}

// MaxHorizontalSeparation 横向空隙不超过 d
func MaxHorizontalSeparation(d int) Operator {
	return func(a, b *Location) bool {
		return separation(a.X(), a.W(), b.X(), b.W()) <= d
	}
}

// MaxVerticalSeparation 纵向空隙不超过 d
func MaxVerticalSeparation(d int) Operator {
	return func(a, b *Location) bool {
		return separation(a.Y(), a.H(), b.Y(), b.H()) <= d
	}
}

// MaxDistance 中心点距离不超过 d
func MaxDistance(d float64) Operator {
	return func(a, b *Location) bool {
		ca, cb := a.Center(), b.Center()
		return math.Hypot(float64(ca.X-cb.X), float64(ca.Y-cb.Y)) <= d
	}
}

// LocationOperatorFinder 输出 a 的结果中至少有一个 b 的结果满足 op(a, b) 的那些
type LocationOperatorFinder struct {
	op   Operator
	a, b Finder
}

// NewLocationOperatorFinder 创建关系查找器
func NewLocationOperatorFinder(op Operator, a, b Finder) *LocationOperatorFinder {
	return &LocationOperatorFinder{op: op, a: a, b: b}
}

// Find 实现 Finder，b 的结果每次查找只计算一次
func (f *LocationOperatorFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		bs := FindAll(f.b, in)
		if len(bs) == 0 {
			return
		}
		for a := range f.a.Find(in) {
			for _, b := range bs {
				if !f.op(a, b) {
					continue
				}
				if !yield(a) {
					return
				}
				break
			}
		}
	}
}
