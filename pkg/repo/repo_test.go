package repo

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/zoeyai/zoeyfinder/pkg/finder"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 100, A: 255})
		}
	}
	return img
}

// noiseImage 随机黑白像素
func noiseImage(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Intn(2) == 1 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestDirectoryRepoPutGet(t *testing.T) {
	r, err := NewDirectoryRepo(filepath.Join(t.TempDir(), "templates"))
	if err != nil {
		t.Fatalf("创建仓库失败: %v", err)
	}

	want := testImage(12, 7)
	if err := r.Put("ok_button", want); err != nil {
		t.Fatalf("保存模板失败: %v", err)
	}

	tpl, err := r.Get("ok_button")
	if err != nil {
		t.Fatalf("读取模板失败: %v", err)
	}
	if w, h := tpl.Size(); w != 12 || h != 7 {
		t.Errorf("模板尺寸应为 12x7, 实际 %dx%d", w, h)
	}
	if tpl.Name != "ok_button" || tpl.Repo != r {
		t.Errorf("模板元数据错误: %+v", tpl)
	}

	r1, g1, b1, _ := tpl.Image.At(3, 4).RGBA()
	r2, g2, b2, _ := want.At(3, 4).RGBA()
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Error("png 往返后像素应一致")
	}
}

func TestDirectoryRepoNotFound(t *testing.T) {
	r, err := NewDirectoryRepo(t.TempDir())
	if err != nil {
		t.Fatalf("创建仓库失败: %v", err)
	}

	if _, err := r.Get("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("应返回 ErrTemplateNotFound, 实际 %v", err)
	}
	if err := r.Delete("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("删除不存在的模板应返回 ErrTemplateNotFound, 实际 %v", err)
	}
	if _, err := r.Get("../escape"); err == nil {
		t.Error("包含路径分隔符的名称应被拒绝")
	}
}

func TestDirectoryRepoNamesAndDelete(t *testing.T) {
	dir := t.TempDir()
	r, err := NewDirectoryRepo(dir)
	if err != nil {
		t.Fatalf("创建仓库失败: %v", err)
	}

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Put(name, testImage(2, 2)); err != nil {
			t.Fatalf("保存 %s 失败: %v", name, err)
		}
	}
	// 非图像文件和子目录被忽略
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.Mkdir(filepath.Join(dir, "sub.png"), 0755)

	names, err := r.Names()
	if err != nil {
		t.Fatalf("列出模板失败: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("期望 %v, 实际 %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("期望 %v, 实际 %v", want, names)
		}
	}

	if err := r.Delete("mid"); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := r.Get("mid"); !errors.Is(err, ErrTemplateNotFound) {
		t.Error("删除后不应能读取")
	}
}

func TestNewTemplateFinder(t *testing.T) {
	r, err := NewDirectoryRepo(t.TempDir())
	if err != nil {
		t.Fatalf("创建仓库失败: %v", err)
	}

	scene := noiseImage(20, 20, 3)
	if err := r.Put("patch", scene.SubImage(image.Rect(5, 5, 10, 10))); err != nil {
		t.Fatalf("保存模板失败: %v", err)
	}

	f, err := NewTemplateFinder(r, "patch", func(img image.Image) finder.Finder {
		return finder.NewExactTemplateFinder(img)
	})
	if err != nil {
		t.Fatalf("构造查找器失败: %v", err)
	}

	root, err := finder.NewRootLocation(scene, image.Point{})
	if err != nil {
		t.Fatalf("创建根区域失败: %v", err)
	}
	loc, ok := finder.First(f, root)
	if !ok || loc.X() != 5 || loc.Y() != 5 {
		t.Errorf("应在 (5,5) 找到模板, 实际 %v", loc)
	}

	if _, err := NewTemplateFinder(r, "missing", nil); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("模板不存在时应返回 ErrTemplateNotFound, 实际 %v", err)
	}
}
