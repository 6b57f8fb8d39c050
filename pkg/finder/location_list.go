package finder

import (
	"iter"
	"strings"
)

// LocationList 有序的 Location 列表，本身也是 Finder
type LocationList []*Location

// Find 逐个在 in 中重新定位，放不下的条目被丢弃
func (ll LocationList) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		for _, l := range ll {
			for loc := range l.Find(in) {
				if !yield(loc) {
					return
				}
			}
		}
	}
}

// Equal 逐个比较
func (ll LocationList) Equal(o LocationList) bool {
	if len(ll) != len(o) {
		return false
	}
	for i := range ll {
		if !ll[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (ll LocationList) String() string {
	parts := make([]string, len(ll))
	for i, l := range ll {
		parts[i] = l.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
