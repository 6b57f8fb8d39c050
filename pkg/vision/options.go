package vision

import (
	"fmt"
	"strings"

	"github.com/zoeyai/zoeyfinder/pkg/vision/cv"
)

// Mode 模板匹配方式
type Mode string

const (
	// ModeApprox 边缘形状匹配
	ModeApprox Mode = "approx"
	// ModeExact 边缘匹配后逐像素校验
	ModeExact Mode = "exact"
	// ModeThreshold 灰度阈值化后匹配
	ModeThreshold Mode = "threshold"
	// ModeScore 相关系数评分匹配
	ModeScore Mode = "score"
)

// ParseMode 解析匹配方式，不区分大小写
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeApprox, ModeExact, ModeThreshold, ModeScore:
		return m, nil
	}
	return "", &cv.ConfigurationError{Field: "mode", Reason: fmt.Sprintf("未知的匹配方式 %q", s)}
}

// Options 匹配选项
type Options struct {
	Mode Mode
	// Level 阈值匹配的灰度等级
	Level uint8
	// ScoreThreshold 评分匹配的置信度下限 (0-1)
	ScoreThreshold float64
	// Tolerance 卷积匹配的像素计数容差
	Tolerance float64
	// EdgeThreshold 边缘二值化阈值
	EdgeThreshold int
}

// DefaultOptions 默认选项
func DefaultOptions() Options {
	return Options{
		Mode:           ModeApprox,
		Level:          128,
		ScoreThreshold: 0.8,
		Tolerance:      cv.DefaultTolerance,
		EdgeThreshold:  cv.DefaultEdgeThreshold,
	}
}

// Option 配置选项函数类型
type Option func(*Options)

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMode 设置匹配方式
func WithMode(mode Mode) Option {
	return func(o *Options) {
		o.Mode = mode
	}
}

// WithLevel 设置阈值匹配的灰度等级
func WithLevel(level uint8) Option {
	return func(o *Options) {
		o.Level = level
	}
}

// WithScoreThreshold 设置评分匹配的置信度下限
func WithScoreThreshold(threshold float64) Option {
	return func(o *Options) {
		o.ScoreThreshold = threshold
	}
}

// WithTolerance 设置卷积匹配容差
func WithTolerance(tolerance float64) Option {
	return func(o *Options) {
		o.Tolerance = tolerance
	}
}

// WithEdgeThreshold 设置边缘二值化阈值
func WithEdgeThreshold(threshold int) Option {
	return func(o *Options) {
		o.EdgeThreshold = threshold
	}
}
