// Package robot 基于 robotgo 的真实屏幕后端
package robot

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/zoeyfinder/internal/logger"
	"github.com/zoeyai/zoeyfinder/pkg/auto"
	"github.com/zoeyai/zoeyfinder/pkg/finder"
)

// keyNames 键盘布局中的键名到 robotgo 键名
var keyNames = map[string]string{
	"return":     "enter",
	"period":     ".",
	"comma":      ",",
	"minus":      "-",
	"apostrophe": "'",
	"exclam":     "1",
	"quotedbl":   "'",
	"at":         "2",
	"ampersand":  "7",
}

// Option 后端选项
type Option func(*Backend)

// WithRegion 只截取屏幕的一部分，坐标为逻辑坐标
func WithRegion(x, y, width, height int) Option {
	return func(b *Backend) {
		r := image.Rect(x, y, x+width, y+height)
		b.region = &r
	}
}

// WithoutPermissionCheck 跳过 macOS 权限检查
func WithoutPermissionCheck() Option {
	return func(b *Backend) {
		b.skipPermissions = true
	}
}

// Backend robotgo 截屏和输入
//
// 截图使用物理像素，鼠标使用逻辑坐标，两者的比例由最近一次截图宽度和屏幕宽度推算。
type Backend struct {
	mu              sync.Mutex
	region          *image.Rectangle
	scale           float64
	skipPermissions bool
}

// NewBackend 创建后端，缺少系统权限时返回错误
func NewBackend(opts ...Option) (*Backend, error) {
	b := &Backend{scale: 1}
	for _, opt := range opts {
		opt(b)
	}

	if !b.skipPermissions {
		if status := CheckPermissions(); !status.AllGranted {
			return nil, fmt.Errorf("缺少系统权限:\n%s", status.Instructions())
		}
	}
	return b, nil
}

// Scale 物理像素与逻辑坐标的比例
func (b *Backend) Scale() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scale
}

// CaptureLocations 实现 auto.Backend
func (b *Backend) CaptureLocations() ([]*finder.Location, error) {
	sw, _ := robotgo.GetScreenSize()

	var (
		img    image.Image
		err    error
		origin image.Point
		width  = sw
	)
	if b.region != nil {
		r := *b.region
		img, err = robotgo.CaptureImg(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
		width = r.Dx()
		origin = r.Min
	} else {
		img, err = robotgo.CaptureImg()
	}
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}

	scale := 1.0
	if width > 0 {
		scale = float64(img.Bounds().Dx()) / float64(width)
	}
	b.mu.Lock()
	if scale != b.scale {
		logger.Debug("屏幕缩放比例: %.2f", scale)
	}
	b.scale = scale
	b.mu.Unlock()

	root, err := finder.NewRootLocation(img, image.Pt(scaleInt(origin.X, scale), scaleInt(origin.Y, scale)))
	if err != nil {
		return nil, fmt.Errorf("创建根区域失败: %w", err)
	}
	return []*finder.Location{root}, nil
}

// CursorPosition 实现 auto.Backend，返回物理像素坐标
func (b *Backend) CursorPosition() (image.Point, error) {
	x, y := robotgo.Location()
	s := b.Scale()
	return image.Pt(scaleInt(x, s), scaleInt(y, s)), nil
}

// Move 实现 auto.Backend，p 为物理像素坐标
func (b *Backend) Move(p image.Point) error {
	s := b.Scale()
	robotgo.Move(scaleInt(p.X, 1/s), scaleInt(p.Y, 1/s))
	return nil
}

// ButtonDown 实现 auto.Backend
func (b *Backend) ButtonDown(btn auto.Button) error {
	if err := robotgo.Toggle(string(btn), "down"); err != nil {
		return fmt.Errorf("按下鼠标失败: %w", err)
	}
	return nil
}

// ButtonUp 实现 auto.Backend
func (b *Backend) ButtonUp(btn auto.Button) error {
	if err := robotgo.Toggle(string(btn), "up"); err != nil {
		return fmt.Errorf("释放鼠标失败: %w", err)
	}
	return nil
}

func keyName(key string) string {
	if name, ok := keyNames[key]; ok {
		return name
	}
	return key
}

// KeyDown 实现 auto.Backend
func (b *Backend) KeyDown(key string) error {
	if err := robotgo.KeyToggle(keyName(key), "down"); err != nil {
		return fmt.Errorf("按下键 %s 失败: %w", key, err)
	}
	return nil
}

// KeyUp 实现 auto.Backend
func (b *Backend) KeyUp(key string) error {
	if err := robotgo.KeyToggle(keyName(key), "up"); err != nil {
		return fmt.Errorf("释放键 %s 失败: %w", key, err)
	}
	return nil
}

// Close 实现 auto.Backend
func (b *Backend) Close() error {
	return nil
}

// scaleInt 按比例缩放坐标值
func scaleInt(value int, factor float64) int {
	if factor <= 0 {
		return value
	}
	return int(math.Round(float64(value) * factor))
}

var _ auto.Backend = (*Backend)(nil)
