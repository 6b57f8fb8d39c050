// Package repo 提供按名称存取模板图像的仓库
package repo

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/samber/lo"
	_ "golang.org/x/image/webp"

	"github.com/zoeyai/zoeyfinder/internal/logger"
	"github.com/zoeyai/zoeyfinder/pkg/finder"
)

// ErrTemplateNotFound 模板不存在
var ErrTemplateNotFound = errors.New("模板不存在")

// 可读取的模板扩展名，保存总是使用 png
var extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp"}

// Repo 模板仓库
type Repo interface {
	Get(name string) (*Template, error)
	Put(name string, img image.Image) error
	Names() ([]string, error)
	Delete(name string) error
}

// Template 命名模板
type Template struct {
	Name  string
	Image image.Image
	Repo  Repo
}

// Size 模板宽高
func (t *Template) Size() (int, int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// DirectoryRepo 以目录存放模板，文件名即模板名
type DirectoryRepo struct {
	dir string
}

// NewDirectoryRepo 创建目录仓库，目录不存在时自动创建
func NewDirectoryRepo(dir string) (*DirectoryRepo, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建模板目录失败: %w", err)
	}
	return &DirectoryRepo{dir: dir}, nil
}

// Dir 仓库目录
func (r *DirectoryRepo) Dir() string {
	return r.dir
}

func (r *DirectoryRepo) find(name string) (string, bool) {
	for _, ext := range extensions {
		path := filepath.Join(r.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("模板名称无效: %q", name)
	}
	return nil
}

// Get 读取模板
func (r *DirectoryRepo) Get(name string) (*Template, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	path, ok := r.find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取模板失败: %w", err)
	}
	logger.Debug("加载模板 %s (%dx%d)", name, img.Bounds().Dx(), img.Bounds().Dy())
	return &Template{Name: name, Image: img, Repo: r}, nil
}

// Put 保存模板为 png，已存在时覆盖
func (r *DirectoryRepo) Put(name string, img image.Image) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := r.Delete(name); err != nil && !errors.Is(err, ErrTemplateNotFound) {
		return err
	}
	if err := imaging.Save(img, filepath.Join(r.dir, name+".png")); err != nil {
		return fmt.Errorf("保存模板失败: %w", err)
	}
	return nil
}

// Names 列出全部模板名称，按字母排序
func (r *DirectoryRepo) Names() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("读取模板目录失败: %w", err)
	}

	files := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return !e.IsDir() && slices.Contains(extensions, strings.ToLower(filepath.Ext(e.Name())))
	})
	names := lo.Uniq(lo.Map(files, func(e os.DirEntry, _ int) string {
		return strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
	}))
	slices.Sort(names)
	return names, nil
}

// Delete 删除模板
func (r *DirectoryRepo) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	path, ok := r.find(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("删除模板失败: %w", err)
	}
	return nil
}

// NewTemplateFinder 从仓库取出模板并构造查找器
//
//	f, err := repo.NewTemplateFinder(r, "ok_button", func(img image.Image) finder.Finder {
//	    return finder.NewApproxTemplateFinder(img)
//	})
func NewTemplateFinder(r Repo, name string, ctor func(image.Image) finder.Finder) (finder.Finder, error) {
	tpl, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return ctor(tpl.Image), nil
}
