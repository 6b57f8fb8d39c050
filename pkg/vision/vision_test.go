package vision

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/zoeyai/zoeyfinder/pkg/vision/cv"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"approx", ModeApprox},
		{"EXACT", ModeExact},
		{" threshold ", ModeThreshold},
		{"score", ModeScore},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; 期望 %v", tt.in, got, err, tt.want)
		}
	}

	var cerr *cv.ConfigurationError
	if _, err := ParseMode("fuzzy"); !errors.As(err, &cerr) {
		t.Errorf("未知方式应返回 ConfigurationError, 实际 %v", err)
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Mode != ModeApprox {
		t.Errorf("默认方式应为 approx, 实际 %s", o.Mode)
	}
	if o.Tolerance != cv.DefaultTolerance || o.EdgeThreshold != cv.DefaultEdgeThreshold {
		t.Errorf("默认容差或边缘阈值错误: %+v", o)
	}

	o = applyOptions([]Option{WithMode(ModeScore), WithScoreThreshold(0.9), WithLevel(50)})
	if o.Mode != ModeScore || o.ScoreThreshold != 0.9 || o.Level != 50 {
		t.Errorf("选项未生效: %+v", o)
	}
}

func scene() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.Black)
		}
	}
	for y := 10; y < 15; y++ {
		for x := 20; x < 26; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestFindAllFromFiles(t *testing.T) {
	dir := t.TempDir()
	screenPath := filepath.Join(dir, "screen.png")
	tplPath := filepath.Join(dir, "button.png")

	img := scene()
	if err := imaging.Save(img, screenPath); err != nil {
		t.Fatalf("保存屏幕图像失败: %v", err)
	}
	if err := imaging.Save(img.SubImage(image.Rect(18, 8, 28, 17)), tplPath); err != nil {
		t.Fatalf("保存模板失败: %v", err)
	}

	for _, mode := range []Mode{ModeApprox, ModeExact, ModeThreshold} {
		t.Run(string(mode), func(t *testing.T) {
			loc, err := FindLocation(screenPath, tplPath, WithMode(mode))
			if err != nil {
				t.Fatalf("查找失败: %v", err)
			}
			if loc == nil || loc.X() != 18 || loc.Y() != 8 {
				t.Errorf("应在 (18,8) 找到模板, 实际 %v", loc)
			}
		})
	}

	if _, err := FindAll(filepath.Join(dir, "missing.png"), tplPath); err == nil {
		t.Error("屏幕文件不存在时应返回错误")
	}
	if _, err := FindAll(42, tplPath); err == nil {
		t.Error("不支持的输入类型应返回错误")
	}
}

func TestFindLocationNotFound(t *testing.T) {
	img := scene()
	blank := image.NewRGBA(image.Rect(0, 0, 40, 30))

	loc, err := FindLocation(blank, img.SubImage(image.Rect(18, 8, 28, 17)))
	if err != nil {
		t.Fatalf("查找失败: %v", err)
	}
	if loc != nil {
		t.Errorf("未找到时应返回 nil, 实际 %s", loc)
	}
}

func TestFindColour(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	for y := 3; y < 9; y++ {
		for x := 4; x < 12; x++ {
			img.Set(x, y, color.RGBA{G: 220, A: 255})
		}
	}

	locs, err := FindColour(img, "green")
	if err != nil {
		t.Fatalf("查找颜色失败: %v", err)
	}
	if len(locs) != 1 || locs[0].X() != 4 || locs[0].Y() != 3 || locs[0].W() != 8 || locs[0].H() != 6 {
		t.Errorf("绿色区域应为 (4,3,8,6), 实际 %v", locs)
	}

	if _, err := FindColour(img, "magenta"); err == nil {
		t.Error("未知颜色应返回错误")
	}
}
