package auto

import (
	"image"
	"testing"
	"time"

	"github.com/zoeyai/zoeyfinder/pkg/config"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	durations := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"Timeout", o.Timeout, 30 * time.Second},
		{"PollInterval", o.PollInterval, 200 * time.Millisecond},
		{"MouseMoveWait", o.MouseMoveWait, 5 * time.Millisecond},
		{"MouseButtonDownWait", o.MouseButtonDownWait, 10 * time.Millisecond},
		{"MouseButtonUpWait", o.MouseButtonUpWait, 0},
		{"KeyDownWait", o.KeyDownWait, 10 * time.Millisecond},
		{"KeyUpWait", o.KeyUpWait, 10 * time.Millisecond},
	}
	for _, d := range durations {
		if d.got != d.want {
			t.Errorf("%s 默认值应为 %v, 实际 %v", d.name, d.want, d.got)
		}
	}

	if o.MouseMoveIncrement != 50 {
		t.Errorf("MouseMoveIncrement 默认值应为 50, 实际 %d", o.MouseMoveIncrement)
	}
	if !o.MouseWarping || o.MouseWarpDragging {
		t.Error("默认应瞬移移动、非瞬移拖拽")
	}
	if o.WaitForImageChangePreAction || o.WaitForImageChangePostAction {
		t.Error("默认不应等待图像变化")
	}
}

func TestApplyOptionsDoesNotMutateBase(t *testing.T) {
	base := DefaultOptions()
	o := ApplyOptions(base, WithTimeout(time.Second), WithMouseWarping(false))

	if o.Timeout != time.Second || o.MouseWarping {
		t.Errorf("选项未生效: %+v", o)
	}
	if base.Timeout != 30*time.Second || !base.MouseWarping {
		t.Error("不应修改原配置")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.GUIConfig{TimeoutMs: 1500, PollIntervalMs: 50, MouseWarping: false}
	o := ApplyOptions(DefaultOptions(), FromConfig(cfg)...)

	if o.Timeout != 1500*time.Millisecond || o.PollInterval != 50*time.Millisecond || o.MouseWarping {
		t.Errorf("配置文件选项未生效: %+v", o)
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		name      string
		from, to  image.Point
		increment int
		want      []image.Point
	}{
		{"距离不足一步", image.Pt(0, 0), image.Pt(30, 40), 50, []image.Point{{30, 40}}},
		{"分三步", image.Pt(0, 0), image.Pt(120, 60), 50, []image.Point{{40, 20}, {80, 40}, {120, 60}}},
		{"反方向", image.Pt(100, 0), image.Pt(0, 0), 40, []image.Point{{67, 0}, {33, 0}, {0, 0}}},
		{"步长为 0 直接到达", image.Pt(0, 0), image.Pt(500, 500), 0, []image.Point{{500, 500}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := path(tt.from, tt.to, tt.increment)
			if len(got) != len(tt.want) {
				t.Fatalf("期望 %v, 实际 %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("期望 %v, 实际 %v", tt.want, got)
				}
			}
		})
	}
}

func TestKeyboardLayout(t *testing.T) {
	layout := DefaultKeyboardLayout()

	tests := []struct {
		r    rune
		want KeyStroke
	}{
		{'a', KeyStroke{Key: "a"}},
		{'Z', KeyStroke{Key: "z", Shift: true}},
		{'7', KeyStroke{Key: "7"}},
		{'\n', KeyStroke{Key: "return"}},
		{' ', KeyStroke{Key: "space"}},
		{'\t', KeyStroke{Key: "tab"}},
		{'.', KeyStroke{Key: "period"}},
		{'!', KeyStroke{Key: "exclam", Shift: true}},
		{'"', KeyStroke{Key: "quotedbl", Shift: true}},
		{'\'', KeyStroke{Key: "apostrophe"}},
		{'@', KeyStroke{Key: "at", Shift: true}},
		{'&', KeyStroke{Key: "ampersand", Shift: true}},
		{'-', KeyStroke{Key: "minus"}},
	}
	for _, tt := range tests {
		got, err := layout.Lookup(tt.r)
		if err != nil || got != tt.want {
			t.Errorf("Lookup(%q) = %+v, %v; 期望 %+v", tt.r, got, err, tt.want)
		}
	}

	if _, err := layout.Lookup('€'); err == nil {
		t.Error("不支持的字符应返回错误")
	}
}
