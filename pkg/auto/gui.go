package auto

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/zoeyai/zoeyfinder/internal/logger"
	"github.com/zoeyai/zoeyfinder/pkg/finder"
)

// GUI 截屏查找并操作鼠标键盘
type GUI struct {
	backend Backend
	opts    Options
}

// NewGUI 创建 GUI，opts 作为之后每次调用的默认配置
func NewGUI(backend Backend, opts ...Option) *GUI {
	return &GUI{backend: backend, opts: ApplyOptions(DefaultOptions(), opts...)}
}

// Options 当前默认配置
func (g *GUI) Options() Options {
	return g.opts
}

// Actions 创建绑定到本 GUI 后端的动作队列
func (g *GUI) Actions() *ActionBuilder {
	return NewActionBuilder(g.backend)
}

// Close 关闭后端
func (g *GUI) Close() error {
	return g.backend.Close()
}

func (g *GUI) with(opts []Option) Options {
	return ApplyOptions(g.opts, opts...)
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// FindAll 截屏一次，在每个屏幕上运行查找器
func (g *GUI) FindAll(f finder.Finder) (finder.LocationList, error) {
	roots, err := g.backend.CaptureLocations()
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}
	var out finder.LocationList
	for _, root := range roots {
		out = append(out, finder.FindAll(f, root)...)
	}
	return out, nil
}

// WaitFindWithResultMatcher 反复截屏查找，直到结果满足 matcher
//
// 超时返回 *NotFoundError，ctx 取消时返回 ctx 的错误。超时为 0 时只查找一次。
func (g *GUI) WaitFindWithResultMatcher(ctx context.Context, f finder.Finder,
	matcher func(finder.LocationList) bool, opts ...Option) (finder.LocationList, error) {
	return g.waitFind(ctx, f, matcher, g.with(opts))
}

func (g *GUI) waitFind(ctx context.Context, f finder.Finder,
	matcher func(finder.LocationList) bool, o Options) (finder.LocationList, error) {
	start := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results, err := g.FindAll(f)
		if err != nil {
			return nil, err
		}
		if matcher(results) {
			logger.LogEvent("FIND", true, elapsedMs(start), fmt.Sprintf("%v 找到 %d 处", f, len(results)))
			return results, nil
		}
		if time.Since(start) >= o.Timeout {
			logger.LogEvent("FIND", false, elapsedMs(start), fmt.Sprintf("%v 找到 %d 处", f, len(results)))
			return nil, &NotFoundError{Finder: f, Timeout: o.Timeout, Found: len(results)}
		}
		if err := sleep(ctx, o.PollInterval); err != nil {
			return nil, err
		}
	}
}

func nonEmpty(ll finder.LocationList) bool { return len(ll) > 0 }

func isEmpty(ll finder.LocationList) bool { return len(ll) == 0 }

// WaitFindN 等待恰好找到 n 个结果
func (g *GUI) WaitFindN(ctx context.Context, f finder.Finder, n int, opts ...Option) (finder.LocationList, error) {
	return g.WaitFindWithResultMatcher(ctx, f, func(ll finder.LocationList) bool {
		return len(ll) == n
	}, opts...)
}

// WaitFindOne 等待恰好找到一个结果
func (g *GUI) WaitFindOne(ctx context.Context, f finder.Finder, opts ...Option) (*finder.Location, error) {
	results, err := g.WaitFindN(ctx, f, 1, opts...)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// Exists 立即截屏查找一次
func (g *GUI) Exists(f finder.Finder) (bool, error) {
	results, err := g.FindAll(f)
	if err != nil {
		return false, err
	}
	return len(results) > 0, nil
}

// ExistsWithinTimeout 超时前是否出现
func (g *GUI) ExistsWithinTimeout(ctx context.Context, f finder.Finder, opts ...Option) (bool, error) {
	return found(g.WaitFindWithResultMatcher(ctx, f, nonEmpty, opts...))
}

// DoesNotExistWithinTimeout 超时前是否消失
func (g *GUI) DoesNotExistWithinTimeout(ctx context.Context, f finder.Finder, opts ...Option) (bool, error) {
	return found(g.WaitFindWithResultMatcher(ctx, f, isEmpty, opts...))
}

func found(_ finder.LocationList, err error) (bool, error) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// moveActions 排队移动到 to 的动作，warp 为 false 时从当前光标位置分步移动
func (g *GUI) moveActions(ab *ActionBuilder, from *image.Point, to image.Point, o Options, warp bool) error {
	if warp {
		ab.Move(to)
		return nil
	}
	if from == nil {
		p, err := g.backend.CursorPosition()
		if err != nil {
			return fmt.Errorf("获取鼠标位置失败: %w", err)
		}
		from = &p
	}
	ab.MoveSteps(*from, to, o.MouseMoveIncrement, o.MouseMoveWait)
	return nil
}

// act 执行 run，按配置在操作前等待区域稳定、操作后等待区域变化
func (g *GUI) act(ctx context.Context, loc *finder.Location, o Options, run func() error) error {
	if o.WaitForImageChangePreAction {
		stable := finder.NewStopChangingFinder(loc, o.PollInterval, nil)
		if _, err := g.waitFind(ctx, stable, nonEmpty, o); err != nil {
			return fmt.Errorf("等待区域稳定失败: %w", err)
		}
	}

	var changed finder.Finder
	if o.WaitForImageChangePostAction {
		changed = finder.NewLocationChangeFinder(loc)
	}

	if err := run(); err != nil {
		return err
	}

	if changed != nil {
		if _, err := g.waitFind(ctx, changed, nonEmpty, o); err != nil {
			return fmt.Errorf("等待区域变化失败: %w", err)
		}
	}
	return nil
}

// Move 把鼠标移到查找结果的点击点
func (g *GUI) Move(ctx context.Context, f finder.Finder, opts ...Option) error {
	o := g.with(opts)
	loc, err := g.WaitFindOne(ctx, f, opts...)
	if err != nil {
		return err
	}
	return g.act(ctx, loc, o, func() error {
		ab := g.Actions()
		if err := g.moveActions(ab, nil, loc.MainPoint(), o, o.MouseWarping); err != nil {
			return err
		}
		return ab.Execute(ctx)
	})
}

func (g *GUI) click(ctx context.Context, f finder.Finder, b Button, count int, opts []Option) error {
	o := g.with(opts)
	loc, err := g.WaitFindOne(ctx, f, opts...)
	if err != nil {
		return err
	}
	return g.act(ctx, loc, o, func() error {
		ab := g.Actions()
		if err := g.moveActions(ab, nil, loc.MainPoint(), o, o.MouseWarping); err != nil {
			return err
		}
		for range count {
			ab.ButtonDown(b).Wait(o.MouseButtonDownWait).ButtonUp(b).Wait(o.MouseButtonUpWait)
		}
		return ab.Execute(ctx)
	})
}

// Click 左键单击查找结果
func (g *GUI) Click(ctx context.Context, f finder.Finder, opts ...Option) error {
	return g.click(ctx, f, ButtonLeft, 1, opts)
}

// DoubleClick 左键双击查找结果
func (g *GUI) DoubleClick(ctx context.Context, f finder.Finder, opts ...Option) error {
	return g.click(ctx, f, ButtonLeft, 2, opts)
}

// ContextClick 右键单击查找结果
func (g *GUI) ContextClick(ctx context.Context, f finder.Finder, opts ...Option) error {
	return g.click(ctx, f, ButtonRight, 1, opts)
}

func (g *GUI) drag(ctx context.Context, loc *finder.Location, end image.Point, o Options) error {
	return g.act(ctx, loc, o, func() error {
		start := loc.MainPoint()
		ab := g.Actions()
		if err := g.moveActions(ab, nil, start, o, o.MouseWarping); err != nil {
			return err
		}
		ab.ButtonDown(ButtonLeft).Wait(o.MouseButtonDownWait)
		if err := g.moveActions(ab, &start, end, o, o.MouseWarpDragging); err != nil {
			return err
		}
		ab.ButtonUp(ButtonLeft).Wait(o.MouseButtonUpWait)
		return ab.Execute(ctx)
	})
}

// Drag 从 from 的点击点拖拽到 to 的点击点
func (g *GUI) Drag(ctx context.Context, from, to finder.Finder, opts ...Option) error {
	o := g.with(opts)
	src, err := g.WaitFindOne(ctx, from, opts...)
	if err != nil {
		return err
	}
	dst, err := g.WaitFindOne(ctx, to, opts...)
	if err != nil {
		return err
	}
	return g.drag(ctx, src, dst.MainPoint(), o)
}

// DragRelative 从查找结果的点击点拖拽 (dx, dy)
func (g *GUI) DragRelative(ctx context.Context, f finder.Finder, dx, dy int, opts ...Option) error {
	o := g.with(opts)
	src, err := g.WaitFindOne(ctx, f, opts...)
	if err != nil {
		return err
	}
	return g.drag(ctx, src, src.MainPoint().Add(image.Pt(dx, dy)), o)
}

// KeyPresses 依次输入按键
//
// 参数可以是字符串 (按键盘布局逐字输入)、KeyDown、KeyUp 或 KeyDownUp。
// 参数不合法时不会发送任何按键。
func (g *GUI) KeyPresses(ctx context.Context, keys ...any) error {
	o := g.opts
	ab := g.Actions()
	down := func(key string) { ab.KeyDown(key).Wait(o.KeyDownWait) }
	up := func(key string) { ab.KeyUp(key).Wait(o.KeyUpWait) }

	for _, k := range keys {
		switch v := k.(type) {
		case string:
			for _, r := range v {
				ks, err := o.KeyboardLayout.Lookup(r)
				if err != nil {
					return err
				}
				if ks.Shift {
					down(ShiftKey)
				}
				down(ks.Key)
				up(ks.Key)
				if ks.Shift {
					up(ShiftKey)
				}
			}
		case KeyDown:
			down(string(v))
		case KeyUp:
			up(string(v))
		case KeyDownUp:
			down(string(v))
			up(string(v))
		default:
			return fmt.Errorf("不支持的按键参数类型: %T", k)
		}
	}
	return ab.Execute(ctx)
}

// CursorLocation 光标所在的 1x1 区域，挂在所在屏幕的根区域下
func (g *GUI) CursorLocation() (*finder.Location, error) {
	p, err := g.backend.CursorPosition()
	if err != nil {
		return nil, fmt.Errorf("获取鼠标位置失败: %w", err)
	}
	roots, err := g.backend.CaptureLocations()
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}
	for _, root := range roots {
		if p.In(root.Rect()) {
			return finder.NewLocation(p.X-root.X(), p.Y-root.Y(), 1, 1, finder.WithParent(root))
		}
	}
	return finder.NewLocation(p.X, p.Y, 1, 1)
}
