// Package vision 提供一次性的图像匹配便捷函数
//
// 基本用法:
//
//	locs, err := vision.FindAll("screen.png", "template.png", vision.WithMode(vision.ModeExact))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, loc := range locs {
//	    fmt.Printf("找到位置: (%d, %d)\n", loc.X(), loc.Y())
//	}
//
// 需要组合多个条件时直接使用 finder 包。
package vision

import (
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/zoeyai/zoeyfinder/internal/logger"
	"github.com/zoeyai/zoeyfinder/pkg/finder"
	"github.com/zoeyai/zoeyfinder/pkg/vision/cv"
)

// LoadImage 加载图像，支持文件路径或 image.Image
func LoadImage(input interface{}) (image.Image, error) {
	switch v := input.(type) {
	case string:
		img, err := imaging.Open(v)
		if err != nil {
			return nil, fmt.Errorf("打开图像文件失败: %w", err)
		}
		return img, nil
	case image.Image:
		return v, nil
	default:
		return nil, fmt.Errorf("不支持的图像输入类型: %T", input)
	}
}

// NewTemplateFinder 按选项构造模板查找器
func NewTemplateFinder(template image.Image, opts ...Option) (finder.Finder, error) {
	o := applyOptions(opts)
	tplOpts := []finder.TemplateOption{
		finder.WithMatchTolerance(o.Tolerance),
		finder.WithEdgeThreshold(o.EdgeThreshold),
	}

	switch o.Mode {
	case ModeApprox:
		return finder.NewApproxTemplateFinder(template, tplOpts...), nil
	case ModeExact:
		return finder.NewExactTemplateFinder(template, tplOpts...), nil
	case ModeThreshold:
		return finder.NewThresholdTemplateFinder(template, o.Level, tplOpts...), nil
	case ModeScore:
		return finder.NewScoreTemplateFinder(template, o.ScoreThreshold), nil
	}
	return nil, &cv.ConfigurationError{Field: "mode", Reason: fmt.Sprintf("未知的匹配方式 %q", o.Mode)}
}

// FindAll 在屏幕图像中查找模板的全部位置
// screen, template: 文件路径或 image.Image
func FindAll(screen, template interface{}, opts ...Option) (finder.LocationList, error) {
	root, err := rootLocation(screen)
	if err != nil {
		return nil, err
	}
	tpl, err := LoadImage(template)
	if err != nil {
		return nil, err
	}
	f, err := NewTemplateFinder(tpl, opts...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	locs := finder.FindAll(f, root)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	logger.LogEvent("FIND", len(locs) > 0, elapsed, fmt.Sprintf("%v 找到 %d 处", f, len(locs)))
	return locs, nil
}

// FindLocation 返回第一个匹配位置，未找到时返回 nil
func FindLocation(screen, template interface{}, opts ...Option) (*finder.Location, error) {
	locs, err := FindAll(screen, template, opts...)
	if err != nil || len(locs) == 0 {
		return nil, err
	}
	return locs[0], nil
}

// FindColour 按预置颜色名称查找连通区域
func FindColour(screen interface{}, name string) (finder.LocationList, error) {
	filter, ok := cv.NamedColours[name]
	if !ok {
		return nil, &cv.ConfigurationError{Field: "colour", Reason: fmt.Sprintf("未知的颜色 %q", name)}
	}
	root, err := rootLocation(screen)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	locs := finder.FindAll(finder.NewColourRegionFinder(filter), root)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	logger.LogEvent("COLOUR", len(locs) > 0, elapsed, fmt.Sprintf("%s 找到 %d 处", name, len(locs)))
	return locs, nil
}

func rootLocation(screen interface{}) (*finder.Location, error) {
	img, err := LoadImage(screen)
	if err != nil {
		return nil, err
	}
	root, err := finder.NewRootLocation(img, image.Point{})
	if err != nil {
		return nil, fmt.Errorf("创建根区域失败: %w", err)
	}
	return root, nil
}
