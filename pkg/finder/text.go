package finder

import (
	"image"
	"iter"
	"strings"
)

// TextClassifier 识别图像中的文字
type TextClassifier interface {
	Classify(img image.Image) (string, error)
}

// TextFinderFilter 识别每个结果区域的文字，只保留匹配的
type TextFinderFilter struct {
	finder     Finder
	classifier TextClassifier
	match      func(string) bool
}

// NewTextFinderFilter 创建文字过滤器
func NewTextFinderFilter(f Finder, classifier TextClassifier, match func(string) bool) *TextFinderFilter {
	return &TextFinderFilter{finder: f, classifier: classifier, match: match}
}

// Find 实现 Finder，识别失败的区域被丢弃
func (f *TextFinderFilter) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		for loc := range f.finder.Find(in) {
			text, err := f.classifier.Classify(loc.Image())
			if err != nil || !f.match(text) {
				continue
			}
			if !yield(loc) {
				return
			}
		}
	}
}

// TextEquals 去除首尾空白后完全相等
func TextEquals(want string) func(string) bool {
	return func(text string) bool {
		return strings.TrimSpace(text) == want
	}
}

// TextContains 包含子串
func TextContains(sub string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(text, sub)
	}
}
