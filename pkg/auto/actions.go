package auto

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/zoeyai/zoeyfinder/internal/logger"
)

type action struct {
	desc string
	run  func(ctx context.Context) error
}

// ActionBuilder 按顺序排队输入动作，Execute 时统一执行
type ActionBuilder struct {
	backend Backend
	actions []action
}

// NewActionBuilder 创建动作队列
func NewActionBuilder(backend Backend) *ActionBuilder {
	return &ActionBuilder{backend: backend}
}

func (a *ActionBuilder) add(desc string, run func(ctx context.Context) error) *ActionBuilder {
	a.actions = append(a.actions, action{desc: desc, run: run})
	return a
}

// Move 移动鼠标到 p
func (a *ActionBuilder) Move(p image.Point) *ActionBuilder {
	return a.add(fmt.Sprintf("移动鼠标到 (%d, %d)", p.X, p.Y), func(context.Context) error {
		return a.backend.Move(p)
	})
}

// MoveSteps 从 from 分步移动到 to，每步不超过 increment 像素，步间等待 wait
func (a *ActionBuilder) MoveSteps(from, to image.Point, increment int, wait time.Duration) *ActionBuilder {
	for _, p := range path(from, to, increment) {
		a.Move(p)
		a.Wait(wait)
	}
	return a
}

// ButtonDown 按下鼠标键
func (a *ActionBuilder) ButtonDown(b Button) *ActionBuilder {
	return a.add(fmt.Sprintf("按下鼠标 %s", b), func(context.Context) error {
		return a.backend.ButtonDown(b)
	})
}

// ButtonUp 释放鼠标键
func (a *ActionBuilder) ButtonUp(b Button) *ActionBuilder {
	return a.add(fmt.Sprintf("释放鼠标 %s", b), func(context.Context) error {
		return a.backend.ButtonUp(b)
	})
}

// KeyDown 按下键
func (a *ActionBuilder) KeyDown(key string) *ActionBuilder {
	return a.add(fmt.Sprintf("按下键 %s", key), func(context.Context) error {
		return a.backend.KeyDown(key)
	})
}

// KeyUp 释放键
func (a *ActionBuilder) KeyUp(key string) *ActionBuilder {
	return a.add(fmt.Sprintf("释放键 %s", key), func(context.Context) error {
		return a.backend.KeyUp(key)
	})
}

// Wait 等待 d，d 为 0 时不排队
func (a *ActionBuilder) Wait(d time.Duration) *ActionBuilder {
	if d <= 0 {
		return a
	}
	return a.add(fmt.Sprintf("等待 %v", d), func(ctx context.Context) error {
		return sleep(ctx, d)
	})
}

// Len 已排队的动作数
func (a *ActionBuilder) Len() int {
	return len(a.actions)
}

// Descriptions 已排队动作的描述
func (a *ActionBuilder) Descriptions() []string {
	out := make([]string, len(a.actions))
	for i, act := range a.actions {
		out[i] = act.desc
	}
	return out
}

// Execute 依次执行全部动作，遇到错误或 ctx 取消时停止
func (a *ActionBuilder) Execute(ctx context.Context) error {
	for _, act := range a.actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("执行动作: %s", act.desc)
		if err := act.run(ctx); err != nil {
			return fmt.Errorf("%s 失败: %w", act.desc, err)
		}
	}
	return nil
}

// path 从 from 到 to 的中间点，不含起点，含终点
func path(from, to image.Point, increment int) []image.Point {
	dx, dy := float64(to.X-from.X), float64(to.Y-from.Y)
	dist := math.Hypot(dx, dy)
	if increment <= 0 || dist <= float64(increment) {
		return []image.Point{to}
	}

	steps := int(math.Ceil(dist / float64(increment)))
	points := make([]image.Point, 0, steps)
	for i := 1; i < steps; i++ {
		f := float64(i) / float64(steps)
		points = append(points, image.Pt(from.X+int(math.Round(dx*f)), from.Y+int(math.Round(dy*f))))
	}
	return append(points, to)
}
