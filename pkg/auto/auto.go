// Package auto 在查找器之上提供 GUI 自动化
//
// GUI 反复截屏并运行查找器，直到结果满足条件或超时，再把鼠标、键盘操作
// 发送给 Backend。robot 子包提供真实屏幕的实现，fake 子包用于测试。
//
//	gui := auto.NewGUI(backend)
//	ok := finder.NewApproxTemplateFinder(okButton)
//	if err := gui.Click(ctx, ok); err != nil {
//	    log.Fatal(err)
//	}
package auto

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/zoeyai/zoeyfinder/pkg/finder"
)

// Button 鼠标按键
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "center"
)

// Backend 屏幕截图和输入注入
type Backend interface {
	// CaptureLocations 截取每个屏幕，返回根区域，其偏移为屏幕的绝对坐标
	CaptureLocations() ([]*finder.Location, error)
	CursorPosition() (image.Point, error)
	Move(p image.Point) error
	ButtonDown(b Button) error
	ButtonUp(b Button) error
	KeyDown(key string) error
	KeyUp(key string) error
	Close() error
}

// NotFoundError 超时仍未得到期望的查找结果
type NotFoundError struct {
	Finder  finder.Finder
	Timeout time.Duration
	// Found 最后一次查找的结果数
	Found int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v 内未找到 %v (最后一次找到 %d 处)", e.Timeout, e.Finder, e.Found)
}

// sleep 可被 ctx 打断的等待
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
