package auto_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"iter"
	"slices"
	"testing"
	"time"

	"github.com/zoeyai/zoeyfinder/pkg/auto"
	"github.com/zoeyai/zoeyfinder/pkg/auto/fake"
	"github.com/zoeyai/zoeyfinder/pkg/finder"
)

// fast 测试用的无等待配置
var fast = []auto.Option{
	auto.WithTimeout(100 * time.Millisecond),
	auto.WithPollInterval(5 * time.Millisecond),
	auto.WithMouseMoveWait(0),
	auto.WithMouseButtonDownWait(0),
	auto.WithMouseButtonUpWait(0),
	auto.WithKeyDownWait(0),
	auto.WithKeyUpWait(0),
}

// button 屏幕 (100,50) 处 40x20 的区域
var button = finder.LocationList{finder.MustLocation(100, 50, 40, 20)}

func newGUI(t *testing.T, opts ...auto.Option) (*auto.GUI, *fake.Backend) {
	t.Helper()
	backend := fake.NewDefault()
	gui := auto.NewGUI(backend, append(slices.Clone(fast), opts...)...)
	t.Cleanup(func() { gui.Close() })
	return gui, backend
}

func nothing() finder.Finder {
	return finder.FinderFunc(func(*finder.Location) iter.Seq[*finder.Location] {
		return func(func(*finder.Location) bool) {}
	})
}

func sameActions(t *testing.T, got, want []string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("动作序列错误:\n  期望 %v\n  实际 %v", want, got)
	}
}

func TestFindAllMultipleScreens(t *testing.T) {
	gui, backend := newGUI(t)
	backend.SetScreens(
		fake.Screen{Image: image.NewRGBA(image.Rect(0, 0, 200, 100))},
		fake.Screen{Image: image.NewRGBA(image.Rect(0, 0, 200, 100)), Origin: image.Pt(200, 0)},
	)

	got, err := gui.FindAll(finder.LocationList{finder.MustLocation(10, 10, 5, 5)})
	if err != nil {
		t.Fatalf("查找失败: %v", err)
	}
	if len(got) != 2 || got[0].X() != 10 || got[1].X() != 210 {
		t.Errorf("两块屏幕上各应找到一个结果, 实际 %v", got)
	}
}

func TestWaitFindOneTimeout(t *testing.T) {
	gui, backend := newGUI(t)

	start := time.Now()
	_, err := gui.WaitFindOne(context.Background(), nothing(), auto.WithTimeout(50*time.Millisecond))
	var nf *auto.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("应返回 NotFoundError, 实际 %v", err)
	}
	if nf.Timeout != 50*time.Millisecond || nf.Found != 0 {
		t.Errorf("错误内容不正确: %+v", nf)
	}
	if time.Since(start) < 50*time.Millisecond {
		t.Error("应等到超时才返回")
	}
	if backend.Captures() < 2 {
		t.Errorf("超时前应多次截屏, 实际 %d 次", backend.Captures())
	}
}

func TestWaitFindAppearsLater(t *testing.T) {
	gui, _ := newGUI(t)

	calls := 0
	appearing := finder.FinderFunc(func(in *finder.Location) iter.Seq[*finder.Location] {
		calls++
		if calls < 3 {
			return nothing().Find(in)
		}
		return button.Find(in)
	})

	loc, err := gui.WaitFindOne(context.Background(), appearing)
	if err != nil {
		t.Fatalf("等待失败: %v", err)
	}
	if loc.X() != 100 || loc.Y() != 50 || calls != 3 {
		t.Errorf("第三次查找时应找到 (100,50), 实际 %s, 查找 %d 次", loc, calls)
	}
}

func TestWaitFindNRequiresExactCount(t *testing.T) {
	gui, _ := newGUI(t)
	two := finder.LocationList{finder.MustLocation(0, 0, 5, 5), finder.MustLocation(10, 0, 5, 5)}

	if _, err := gui.WaitFindN(context.Background(), two, 2); err != nil {
		t.Errorf("应找到两个结果: %v", err)
	}
	if _, err := gui.WaitFindOne(context.Background(), two, auto.WithTimeout(0)); err == nil {
		t.Error("结果数不为一时应超时")
	}
}

func TestWaitFindContextCancelled(t *testing.T) {
	gui, _ := newGUI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gui.WaitFindOne(ctx, button, auto.WithTimeout(time.Hour))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ctx 取消时应返回 context.Canceled, 实际 %v", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = gui.WaitFindOne(ctx, nothing(), auto.WithTimeout(time.Hour))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ctx 超时应优先于查找超时, 实际 %v", err)
	}
}

func TestExistence(t *testing.T) {
	gui, _ := newGUI(t)
	ctx := context.Background()

	if ok, err := gui.Exists(button); err != nil || !ok {
		t.Errorf("Exists 应为 true, 实际 %v, %v", ok, err)
	}
	if ok, err := gui.ExistsWithinTimeout(ctx, nothing()); err != nil || ok {
		t.Errorf("ExistsWithinTimeout 应为 false, 实际 %v, %v", ok, err)
	}
	if ok, err := gui.DoesNotExistWithinTimeout(ctx, nothing()); err != nil || !ok {
		t.Errorf("DoesNotExistWithinTimeout 应为 true, 实际 %v, %v", ok, err)
	}
	if ok, err := gui.DoesNotExistWithinTimeout(ctx, button); err != nil || ok {
		t.Errorf("一直存在时 DoesNotExistWithinTimeout 应为 false, 实际 %v, %v", ok, err)
	}
}

func TestClicks(t *testing.T) {
	tests := []struct {
		name  string
		click func(*auto.GUI, context.Context, finder.Finder, ...auto.Option) error
		want  []string
	}{
		{"Click", (*auto.GUI).Click, []string{"move 120,60", "down left", "up left"}},
		{"DoubleClick", (*auto.GUI).DoubleClick, []string{"move 120,60", "down left", "up left", "down left", "up left"}},
		{"ContextClick", (*auto.GUI).ContextClick, []string{"move 120,60", "down right", "up right"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gui, backend := newGUI(t)
			if err := tt.click(gui, context.Background(), button); err != nil {
				t.Fatalf("点击失败: %v", err)
			}
			sameActions(t, backend.Actions(), tt.want)
		})
	}
}

func TestClickNotFound(t *testing.T) {
	gui, backend := newGUI(t)

	err := gui.Click(context.Background(), nothing())
	var nf *auto.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("应返回 NotFoundError, 实际 %v", err)
	}
	if len(backend.Actions()) != 0 {
		t.Error("未找到时不应发送输入")
	}
}

func TestMoveIncremental(t *testing.T) {
	gui, backend := newGUI(t, auto.WithMouseWarping(false), auto.WithMouseMoveIncrement(50))

	if err := gui.Move(context.Background(), button); err != nil {
		t.Fatalf("移动失败: %v", err)
	}
	sameActions(t, backend.Actions(), []string{"move 40,20", "move 80,40", "move 120,60"})

	pos, _ := backend.CursorPosition()
	if pos != image.Pt(120, 60) {
		t.Errorf("光标应在 (120,60), 实际 %v", pos)
	}
}

func TestDrag(t *testing.T) {
	gui, backend := newGUI(t, auto.WithMouseMoveIncrement(100))
	target := finder.LocationList{finder.MustLocation(300, 50, 40, 20)}

	if err := gui.Drag(context.Background(), button, target); err != nil {
		t.Fatalf("拖拽失败: %v", err)
	}
	sameActions(t, backend.Actions(), []string{
		"move 120,60", "down left", "move 220,60", "move 320,60", "up left",
	})
	if backend.Pressed("left") {
		t.Error("拖拽结束后应释放鼠标")
	}
}

func TestDragRelativeWarp(t *testing.T) {
	gui, backend := newGUI(t, auto.WithMouseWarpDragging(true))

	if err := gui.DragRelative(context.Background(), button, -20, 30); err != nil {
		t.Fatalf("拖拽失败: %v", err)
	}
	sameActions(t, backend.Actions(), []string{"move 120,60", "down left", "move 100,90", "up left"})
}

func TestKeyPresses(t *testing.T) {
	gui, backend := newGUI(t)

	err := gui.KeyPresses(context.Background(), "aB!", auto.KeyDown("ctrl"), auto.KeyDownUp("c"), auto.KeyUp("ctrl"))
	if err != nil {
		t.Fatalf("按键失败: %v", err)
	}
	sameActions(t, backend.Actions(), []string{
		"keydown a", "keyup a",
		"keydown shift", "keydown b", "keyup b", "keyup shift",
		"keydown shift", "keydown exclam", "keyup exclam", "keyup shift",
		"keydown ctrl", "keydown c", "keyup c", "keyup ctrl",
	})
}

func TestKeyPressesInvalid(t *testing.T) {
	gui, backend := newGUI(t)

	if err := gui.KeyPresses(context.Background(), "ok€"); err == nil {
		t.Error("不支持的字符应返回错误")
	}
	if err := gui.KeyPresses(context.Background(), "a", 42); err == nil {
		t.Error("不支持的参数类型应返回错误")
	}
	if len(backend.Actions()) != 0 {
		t.Errorf("参数不合法时不应发送任何按键, 实际 %v", backend.Actions())
	}
}

func TestCursorLocation(t *testing.T) {
	gui, backend := newGUI(t)
	backend.Move(image.Pt(30, 40))

	loc, err := gui.CursorLocation()
	if err != nil {
		t.Fatalf("获取光标区域失败: %v", err)
	}
	if loc.X() != 30 || loc.Y() != 40 || loc.W() != 1 || loc.H() != 1 || loc.Parent() == nil {
		t.Errorf("光标区域错误: %s", loc)
	}
}

func TestWaitForImageChangePostAction(t *testing.T) {
	gui, backend := newGUI(t, auto.WithWaitForImageChangePostAction(true))

	// 按钮被点击后变白
	backend.AfterAction = func(b *fake.Backend, action string) {
		if action == "up left" {
			b.Fill(image.Rect(100, 50, 140, 70), color.White)
		}
	}
	if err := gui.Click(context.Background(), button); err != nil {
		t.Errorf("区域变化后应成功: %v", err)
	}

	// 区域没有变化时超时
	gui, backend = newGUI(t, auto.WithWaitForImageChangePostAction(true))
	err := gui.Click(context.Background(), button)
	var nf *auto.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("区域未变化时应超时, 实际 %v", err)
	}
	if len(backend.Actions()) == 0 {
		t.Error("等待变化前应已完成点击")
	}
}

func TestWaitForImageChangePreAction(t *testing.T) {
	gui, backend := newGUI(t, auto.WithWaitForImageChangePreAction(true))

	if err := gui.Click(context.Background(), button); err != nil {
		t.Fatalf("静止区域应很快稳定: %v", err)
	}
	if backend.Captures() < 3 {
		t.Errorf("稳定检测至少需要两次截屏, 总截屏 %d 次", backend.Captures())
	}
	sameActions(t, backend.Actions(), []string{"move 120,60", "down left", "up left"})
}

func TestClickTemplate(t *testing.T) {
	gui, backend := newGUI(t)
	backend.Fill(image.Rect(400, 300, 410, 306), color.White)

	screen, _ := backend.CaptureLocations()
	tpl := screen[0].Image().(*image.RGBA).SubImage(image.Rect(395, 295, 415, 311))

	if err := gui.Click(context.Background(), finder.NewExactTemplateFinder(tpl)); err != nil {
		t.Fatalf("点击模板失败: %v", err)
	}
	sameActions(t, backend.Actions(), []string{"move 405,303", "down left", "up left"})
}

func TestActionBuilder(t *testing.T) {
	backend := fake.NewDefault()
	ab := auto.NewActionBuilder(backend).
		Move(image.Pt(1, 2)).
		Wait(time.Millisecond).
		ButtonDown(auto.ButtonLeft).
		Wait(0).
		ButtonUp(auto.ButtonLeft)

	if ab.Len() != 4 {
		t.Errorf("零等待不应排队, 期望 4 个动作, 实际 %d: %v", ab.Len(), ab.Descriptions())
	}
	if err := ab.Execute(context.Background()); err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	sameActions(t, backend.Actions(), []string{"move 1,2", "down left", "up left"})

	backend.Close()
	if err := auto.NewActionBuilder(backend).KeyDown("a").Execute(context.Background()); !errors.Is(err, fake.ErrClosed) {
		t.Errorf("后端错误应被包装返回, 实际 %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := auto.NewActionBuilder(fake.NewDefault()).Wait(time.Hour).Execute(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ctx 取消时应停止, 实际 %v", err)
	}
}
