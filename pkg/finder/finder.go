// Package finder 提供可组合的区域查找器
//
// 每个查找器实现 Finder 接口：在给定 Location 内惰性地产生结果 Location，
// 结果挂在输入 Location 下，坐标相对于它。查找器通过包装组合:
//
//	button := finder.NewApproxTemplateFinder(tpl)
//	ok := finder.Below.And(finder.ColumnAligned).Finder(button, label)
//	for loc := range ok.Find(screen) {
//	    fmt.Println(loc)
//	}
//
// 结果序列是一次性的，需要重新查找时再次调用 Find。没有结果时返回空序列而不是错误。
package finder

import (
	"iter"

	"github.com/zoeyai/zoeyfinder/pkg/vision/cv"
)

// ConfigurationError 查找器参数非法
type ConfigurationError = cv.ConfigurationError

// Finder 在 in 内查找区域
type Finder interface {
	Find(in *Location) iter.Seq[*Location]
}

// FinderFunc 函数适配为 Finder
type FinderFunc func(in *Location) iter.Seq[*Location]

// Find 实现 Finder
func (f FinderFunc) Find(in *Location) iter.Seq[*Location] {
	return f(in)
}

// FindAll 收集全部结果
func FindAll(f Finder, in *Location) LocationList {
	var out LocationList
	for loc := range f.Find(in) {
		out = append(out, loc)
	}
	return out
}

// First 返回第一个结果
func First(f Finder, in *Location) (*Location, bool) {
	for loc := range f.Find(in) {
		return loc, true
	}
	return nil, false
}

// empty 空序列
func empty(yield func(*Location) bool) {}
