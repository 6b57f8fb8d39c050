// Package fake 提供内存中的 GUI 后端，用于测试
package fake

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/zoeyai/zoeyfinder/pkg/auto"
	"github.com/zoeyai/zoeyfinder/pkg/finder"
)

// ErrClosed 后端已关闭
var ErrClosed = errors.New("后端已关闭")

// Screen 一块屏幕
type Screen struct {
	Image  image.Image
	Origin image.Point
}

// Backend 持有可替换的屏幕图像并记录全部输入
type Backend struct {
	mu      sync.Mutex
	screens []Screen
	cursor  image.Point
	actions []string
	pressed map[string]bool
	capture int
	closed  bool

	// AfterAction 每次输入动作记录后调用，可用于模拟界面响应
	AfterAction func(b *Backend, action string)
}

// New 以单块屏幕创建后端
func New(img image.Image) *Backend {
	return &Backend{
		screens: []Screen{{Image: img}},
		pressed: make(map[string]bool),
	}
}

// NewDefault 创建 800x600 黑色屏幕
func NewDefault() *Backend {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return New(img)
}

// SetImage 替换第一块屏幕的图像
func (b *Backend) SetImage(img image.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screens[0].Image = img
}

// SetScreens 替换全部屏幕
func (b *Backend) SetScreens(screens ...Screen) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screens = screens
}

// Fill 用纯色填充第一块屏幕的矩形区域，r 为屏幕内坐标
func (b *Backend) Fill(r image.Rectangle, c color.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()

	src := b.screens[0].Image
	dst := image.NewRGBA(src.Bounds())
	for y := dst.Rect.Min.Y; y < dst.Rect.Max.Y; y++ {
		for x := dst.Rect.Min.X; x < dst.Rect.Max.X; x++ {
			if (image.Point{X: x, Y: y}).In(r) {
				dst.Set(x, y, c)
			} else {
				dst.Set(x, y, src.At(x, y))
			}
		}
	}
	b.screens[0].Image = dst
}

// Actions 已记录的输入动作
func (b *Backend) Actions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.actions...)
}

// Captures 截屏次数
func (b *Backend) Captures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capture
}

// Pressed 当前是否按住某个键或鼠标按键
func (b *Backend) Pressed(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed[key]
}

func (b *Backend) record(action string, update func()) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	update()
	b.actions = append(b.actions, action)
	hook := b.AfterAction
	b.mu.Unlock()

	if hook != nil {
		hook(b, action)
	}
	return nil
}

// CaptureLocations 实现 auto.Backend
func (b *Backend) CaptureLocations() ([]*finder.Location, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	b.capture++
	roots := make([]*finder.Location, 0, len(b.screens))
	for _, s := range b.screens {
		root, err := finder.NewRootLocation(s.Image, s.Origin)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// CursorPosition 实现 auto.Backend
func (b *Backend) CursorPosition() (image.Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor, nil
}

// Move 实现 auto.Backend
func (b *Backend) Move(p image.Point) error {
	return b.record(fmt.Sprintf("move %d,%d", p.X, p.Y), func() { b.cursor = p })
}

// ButtonDown 实现 auto.Backend
func (b *Backend) ButtonDown(btn auto.Button) error {
	return b.record("down "+string(btn), func() { b.pressed[string(btn)] = true })
}

// ButtonUp 实现 auto.Backend
func (b *Backend) ButtonUp(btn auto.Button) error {
	return b.record("up "+string(btn), func() { delete(b.pressed, string(btn)) })
}

// KeyDown 实现 auto.Backend
func (b *Backend) KeyDown(key string) error {
	return b.record("keydown "+key, func() { b.pressed[key] = true })
}

// KeyUp 实现 auto.Backend
func (b *Backend) KeyUp(key string) error {
	return b.record("keyup "+key, func() { delete(b.pressed, key) })
}

// Close 实现 auto.Backend
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

var _ auto.Backend = (*Backend)(nil)
