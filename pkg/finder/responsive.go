package finder

import (
	"image"
	"iter"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// LocationChangeFinder 区域像素与给定快照不同时输出该区域
type LocationChangeFinder struct {
	loc      *Location
	snapshot *Location
}

// NewLocationChangeFinder 以 loc 当前像素为快照创建变化检测查找器
func NewLocationChangeFinder(loc *Location) *LocationChangeFinder {
	return &LocationChangeFinder{loc: loc, snapshot: snapshot(loc)}
}

// Find 实现 Finder
func (f *LocationChangeFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		for current := range f.loc.Find(in) {
			if current.ImageEqual(f.snapshot) {
				continue
			}
			if !yield(current) {
				return
			}
		}
	}
}

// StopChangingFinder 区域像素保持不变达到 period 后输出该区域
//
// 每次 Find 都会更新内部状态，同一个实例应只用于一个轮询循环。
type StopChangingFinder struct {
	loc    *Location
	period time.Duration
	clock  func() time.Time

	mu          sync.Mutex
	last        *Location
	lastChanged time.Time
}

// NewStopChangingFinder 创建稳定检测查找器，clock 为 nil 时使用 time.Now
func NewStopChangingFinder(loc *Location, period time.Duration, clock func() time.Time) *StopChangingFinder {
	if clock == nil {
		clock = time.Now
	}
	return &StopChangingFinder{loc: loc, period: period, clock: clock}
}

// Find 实现 Finder
func (f *StopChangingFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		current, ok := First(f.loc, in)
		if !ok {
			return
		}

		f.mu.Lock()
		now := f.clock()
		if f.last == nil || !current.ImageEqual(f.last) {
			f.last = snapshot(current)
			f.lastChanged = now
		}
		stable := now.Sub(f.lastChanged) >= f.period
		f.mu.Unlock()

		if stable {
			yield(current)
		}
	}
}

// snapshot 复制区域像素为独立的根区域
func snapshot(loc *Location) *Location {
	img := imaging.Clone(loc.Image())
	s, err := NewRootLocation(img, image.Point{X: loc.X(), Y: loc.Y()})
	if err != nil {
		return loc
	}
	return s
}
