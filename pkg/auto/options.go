package auto

import (
	"time"

	"github.com/zoeyai/zoeyfinder/pkg/config"
)

// Option 配置选项函数类型
type Option func(*Options)

// Options GUI 操作配置，可在 NewGUI 时设置默认值，也可在单次调用时覆盖
type Options struct {
	// Timeout 等待查找结果的超时时间
	Timeout time.Duration
	// PollInterval 两次截屏查找之间的间隔
	PollInterval time.Duration

	// MouseMoveIncrement 非瞬移时每步移动的最大像素数
	MouseMoveIncrement int
	// MouseMoveWait 每步移动后的等待
	MouseMoveWait time.Duration
	// MouseButtonDownWait 按下鼠标后的等待
	MouseButtonDownWait time.Duration
	// MouseButtonUpWait 释放鼠标后的等待
	MouseButtonUpWait time.Duration
	// MouseWarping 移动时直接跳到目标位置
	MouseWarping bool
	// MouseWarpDragging 拖拽时直接跳到目标位置
	MouseWarpDragging bool

	// KeyDownWait 按下键后的等待
	KeyDownWait time.Duration
	// KeyUpWait 释放键后的等待
	KeyUpWait time.Duration

	// WaitForImageChangePreAction 操作前等待目标区域停止变化
	WaitForImageChangePreAction bool
	// WaitForImageChangePostAction 操作后等待目标区域发生变化
	WaitForImageChangePostAction bool

	// KeyboardLayout 字符到按键的映射
	KeyboardLayout KeyboardLayout
}

// DefaultOptions 默认配置
func DefaultOptions() Options {
	return Options{
		Timeout:             30 * time.Second,
		PollInterval:        DefaultPollInterval,
		MouseMoveIncrement:  50,
		MouseMoveWait:       5 * time.Millisecond,
		MouseButtonDownWait: 10 * time.Millisecond,
		MouseButtonUpWait:   0,
		MouseWarping:        true,
		MouseWarpDragging:   false,
		KeyDownWait:         10 * time.Millisecond,
		KeyUpWait:           10 * time.Millisecond,
		KeyboardLayout:      DefaultKeyboardLayout(),
	}
}

// DefaultPollInterval 默认轮询间隔
const DefaultPollInterval = 200 * time.Millisecond

// ApplyOptions 在 base 上应用配置选项
func ApplyOptions(base Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// FromConfig 从配置文件生成选项
func FromConfig(cfg config.GUIConfig) []Option {
	return []Option{
		WithTimeout(cfg.Timeout()),
		WithPollInterval(cfg.PollInterval()),
		WithMouseWarping(cfg.MouseWarping),
	}
}

// WithTimeout 设置超时时间
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithPollInterval 设置轮询间隔
func WithPollInterval(d time.Duration) Option {
	return func(o *Options) {
		o.PollInterval = d
	}
}

// WithMouseMoveIncrement 设置每步移动像素数
func WithMouseMoveIncrement(px int) Option {
	return func(o *Options) {
		o.MouseMoveIncrement = px
	}
}

// WithMouseMoveWait 设置每步移动后的等待
func WithMouseMoveWait(d time.Duration) Option {
	return func(o *Options) {
		o.MouseMoveWait = d
	}
}

// WithMouseButtonDownWait 设置按下鼠标后的等待
func WithMouseButtonDownWait(d time.Duration) Option {
	return func(o *Options) {
		o.MouseButtonDownWait = d
	}
}

// WithMouseButtonUpWait 设置释放鼠标后的等待
func WithMouseButtonUpWait(d time.Duration) Option {
	return func(o *Options) {
		o.MouseButtonUpWait = d
	}
}

// WithMouseWarping 设置移动时是否瞬移
func WithMouseWarping(enabled bool) Option {
	return func(o *Options) {
		o.MouseWarping = enabled
	}
}

// WithMouseWarpDragging 设置拖拽时是否瞬移
func WithMouseWarpDragging(enabled bool) Option {
	return func(o *Options) {
		o.MouseWarpDragging = enabled
	}
}

// WithKeyDownWait 设置按下键后的等待
func WithKeyDownWait(d time.Duration) Option {
	return func(o *Options) {
		o.KeyDownWait = d
	}
}

// WithKeyUpWait 设置释放键后的等待
func WithKeyUpWait(d time.Duration) Option {
	return func(o *Options) {
		o.KeyUpWait = d
	}
}

// WithWaitForImageChangePreAction 操作前等待目标区域稳定
func WithWaitForImageChangePreAction(enabled bool) Option {
	return func(o *Options) {
		o.WaitForImageChangePreAction = enabled
	}
}

// WithWaitForImageChangePostAction 操作后等待目标区域变化
func WithWaitForImageChangePostAction(enabled bool) Option {
	return func(o *Options) {
		o.WaitForImageChangePostAction = enabled
	}
}

// WithKeyboardLayout 设置键盘布局
func WithKeyboardLayout(layout KeyboardLayout) Option {
	return func(o *Options) {
		o.KeyboardLayout = layout
	}
}
