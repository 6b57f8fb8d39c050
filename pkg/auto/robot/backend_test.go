package robot

import (
	"strings"
	"testing"
)

func TestScaleInt(t *testing.T) {
	tests := []struct {
		value  int
		factor float64
		want   int
	}{
		{100, 2, 200},
		{101, 0.5, 51},
		{100, 0, 100},
		{100, -1, 100},
		{3, 1.5, 5},
	}
	for _, tt := range tests {
		if got := scaleInt(tt.value, tt.factor); got != tt.want {
			t.Errorf("scaleInt(%d, %.1f) = %d, 期望 %d", tt.value, tt.factor, got, tt.want)
		}
	}
}

func TestKeyName(t *testing.T) {
	tests := map[string]string{
		"return": "enter",
		"period": ".",
		"exclam": "1",
		"a":      "a",
		"space":  "space",
		"shift":  "shift",
	}
	for in, want := range tests {
		if got := keyName(in); got != want {
			t.Errorf("keyName(%q) = %q, 期望 %q", in, got, want)
		}
	}
}

func TestPermissionInstructions(t *testing.T) {
	granted := &PermissionStatus{Accessibility: true, ScreenRecording: true, AllGranted: true}
	if granted.Instructions() != "" {
		t.Error("权限齐全时不应有说明")
	}

	missing := &PermissionStatus{Accessibility: false, ScreenRecording: true}
	msg := missing.Instructions()
	if !strings.Contains(msg, "辅助功能") || strings.Contains(msg, "屏幕录制权限") {
		t.Errorf("说明应只包含缺少的权限: %s", msg)
	}
}

func TestWithRegion(t *testing.T) {
	b, err := NewBackend(WithRegion(10, 20, 300, 200), WithoutPermissionCheck())
	if err != nil {
		t.Fatalf("创建后端失败: %v", err)
	}
	if b.region == nil || b.region.Dx() != 300 || b.region.Min.Y != 20 {
		t.Errorf("截图区域错误: %v", b.region)
	}
	if b.Scale() != 1 {
		t.Errorf("初始缩放比例应为 1, 实际 %.2f", b.Scale())
	}
}
