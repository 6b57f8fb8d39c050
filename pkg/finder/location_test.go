package finder

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), c)
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func mustRoot(t *testing.T, img image.Image) *Location {
	t.Helper()
	root, err := NewRootLocation(img, image.Point{})
	if err != nil {
		t.Fatalf("创建根区域失败: %v", err)
	}
	return root
}

func TestNewLocationValidation(t *testing.T) {
	parent := MustLocation(0, 0, 100, 50)

	tests := []struct {
		name  string
		x, y  int
		w, h  int
		opts  []LocationOption
		field string
	}{
		{"负偏移", -1, 0, 10, 10, nil, "offset"},
		{"零宽度", 0, 0, 0, 10, nil, "size"},
		{"负高度", 0, 0, 10, -3, nil, "size"},
		{"超出父区域宽度", 95, 0, 10, 10, []LocationOption{WithParent(parent)}, "bounds"},
		{"超出父区域高度", 0, 45, 10, 10, []LocationOption{WithParent(parent)}, "bounds"},
		{"图像尺寸不符", 0, 0, 10, 10, []LocationOption{WithImage(solidImage(5, 5, color.Black))}, "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocation(tt.x, tt.y, tt.w, tt.h, tt.opts...)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("应返回 ValidationError, 实际 %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("错误字段应为 %s, 实际 %s", tt.field, verr.Field)
			}
		})
	}

	if _, err := NewLocation(90, 40, 10, 10, WithParent(parent)); err != nil {
		t.Errorf("贴边区域应合法: %v", err)
	}
}

func TestLocationCoordinates(t *testing.T) {
	root := MustLocation(100, 200, 300, 300)
	child := MustLocation(10, 20, 100, 100, WithParent(root))
	leaf := MustLocation(5, 6, 10, 8, WithParent(child))

	if leaf.X() != 115 || leaf.Y() != 226 {
		t.Errorf("绝对坐标应为 (115,226), 实际 (%d,%d)", leaf.X(), leaf.Y())
	}
	if mp := leaf.MainPoint(); mp != image.Pt(120, 230) {
		t.Errorf("默认点击点应为中心 (120,230), 实际 %v", mp)
	}

	custom := MustLocation(5, 6, 10, 8, WithParent(child), WithMainPointOffset(0, 0))
	if mp := custom.MainPoint(); mp != image.Pt(115, 226) {
		t.Errorf("点击点应为左上角, 实际 %v", mp)
	}
	if leaf.String() != "Location(x=115, y=226, w=10, h=8)" {
		t.Errorf("字符串表示错误: %s", leaf)
	}
}

func TestLocationImageSharesParentPixels(t *testing.T) {
	img := solidImage(20, 20, color.Black)
	fill(img, image.Rect(5, 5, 10, 10), color.White)
	root := mustRoot(t, img)

	child := MustLocation(5, 5, 5, 5, WithParent(root))
	grandchild := MustLocation(1, 1, 2, 2, WithParent(child))

	sub := grandchild.Image()
	if sub.Bounds().Dx() != 2 || sub.Bounds().Dy() != 2 {
		t.Fatalf("子图尺寸错误: %v", sub.Bounds())
	}
	r, _, _, _ := sub.At(sub.Bounds().Min.X, sub.Bounds().Min.Y).RGBA()
	if r != 0xffff {
		t.Errorf("子图像素应为白色")
	}

	// 子视图不复制像素
	rgba, ok := sub.(*image.RGBA)
	if !ok {
		t.Fatalf("子图应为 *image.RGBA, 实际 %T", sub)
	}
	if &rgba.Pix[0] != &img.Pix[img.PixOffset(6, 6)] {
		t.Error("子图应与根图像共享像素")
	}
}

func TestLocationEqual(t *testing.T) {
	root := MustLocation(0, 0, 100, 100)
	other := MustLocation(0, 0, 100, 100)

	a := MustLocation(10, 10, 5, 5, WithParent(root))
	b := MustLocation(10, 10, 5, 5, WithParent(other))
	c := MustLocation(10, 10, 5, 5, WithParent(root), WithMainPointOffset(1, 1))

	if !a.Equal(b) {
		t.Error("父区域相等时应相等")
	}
	if a.Equal(c) {
		t.Error("点击点不同时不应相等")
	}
	if a.Equal(nil) {
		t.Error("与 nil 不应相等")
	}
}

func TestLocationCopy(t *testing.T) {
	root := MustLocation(0, 0, 50, 50)
	loc := MustLocation(10, 10, 5, 5, WithParent(root))

	moved, err := loc.Copy(WithPosition(20, 30))
	if err != nil {
		t.Fatalf("复制失败: %v", err)
	}
	if moved.RelX() != 20 || moved.RelY() != 30 || moved.Parent() != root {
		t.Errorf("复制结果错误: %s", moved)
	}

	if _, err := loc.Copy(WithSize(60, 5)); err == nil {
		t.Error("复制后超出父区域应失败")
	}
}

func TestLocationFind(t *testing.T) {
	small := MustLocation(0, 0, 20, 20)
	big := MustLocation(0, 0, 100, 100)
	loc := MustLocation(30, 30, 10, 10, WithParent(big))

	if got := FindAll(loc, big); len(got) != 1 || got[0].Parent() != big {
		t.Errorf("应在大区域中找到自身, 实际 %v", got)
	}
	if got := FindAll(loc, small); len(got) != 0 {
		t.Errorf("放不下时应无结果, 实际 %v", got)
	}
}

func TestLocationImageEqual(t *testing.T) {
	a := mustRoot(t, solidImage(4, 4, color.White))
	b := mustRoot(t, solidImage(4, 4, color.White))
	c := mustRoot(t, solidImage(4, 4, color.Black))

	if !a.ImageEqual(b) {
		t.Error("相同像素应相等")
	}
	if a.ImageEqual(c) {
		t.Error("不同像素不应相等")
	}
}
