package finder

import (
	"fmt"
	"image"
	"iter"

	"github.com/zoeyai/zoeyfinder/pkg/vision/cv"
)

// TemplateOption 模板查找器选项
type TemplateOption func(*templateOptions)

type templateOptions struct {
	tolerance     float64
	edgeThreshold int
	table         []cv.OverlapEntry
	rgb           bool
}

func applyTemplateOptions(opts []TemplateOption) templateOptions {
	o := templateOptions{
		tolerance:     cv.DefaultTolerance,
		edgeThreshold: cv.DefaultEdgeThreshold,
		table:         cv.DefaultOverlapTable(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMatchTolerance 设置像素计数容差
func WithMatchTolerance(tolerance float64) TemplateOption {
	return func(o *templateOptions) {
		o.tolerance = tolerance
	}
}

// WithEdgeThreshold 设置边缘二值化阈值
func WithEdgeThreshold(threshold int) TemplateOption {
	return func(o *templateOptions) {
		o.edgeThreshold = threshold
	}
}

// WithOverlapTable 设置切块候选表
func WithOverlapTable(table []cv.OverlapEntry) TemplateOption {
	return func(o *templateOptions) {
		o.table = table
	}
}

// WithRGBCheck 评分匹配时额外校验三通道
func WithRGBCheck() TemplateOption {
	return func(o *templateOptions) {
		o.rgb = true
	}
}

// binaryTemplateFinder 二值化后做卷积匹配的公共实现
type binaryTemplateFinder struct {
	template image.Image
	binary   *cv.Bitmap
	binarize func(image.Image) *cv.Bitmap
	opts     templateOptions
}

func (f *binaryTemplateFinder) find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		points, err := cv.BestConvolution(f.binary, f.binarize(in.Image()),
			cv.WithTolerance(f.opts.tolerance), cv.WithOverlapTable(f.opts.table))
		if err != nil {
			return
		}

		b := f.template.Bounds()
		for _, p := range points {
			loc, err := NewLocation(p.X, p.Y, b.Dx(), b.Dy(), WithParent(in))
			if err != nil {
				continue
			}
			if !yield(loc) {
				return
			}
		}
	}
}

// ApproxTemplateFinder 按边缘形状匹配模板
type ApproxTemplateFinder struct {
	binaryTemplateFinder
}

// NewApproxTemplateFinder 创建边缘形状模板查找器
func NewApproxTemplateFinder(template image.Image, opts ...TemplateOption) *ApproxTemplateFinder {
	o := applyTemplateOptions(opts)
	binarize := func(img image.Image) *cv.Bitmap {
		return cv.EdgeMask(img, o.edgeThreshold)
	}
	return &ApproxTemplateFinder{binaryTemplateFinder{
		template: template,
		binary:   binarize(template),
		binarize: binarize,
		opts:     o,
	}}
}

// Find 实现 Finder
func (f *ApproxTemplateFinder) Find(in *Location) iter.Seq[*Location] {
	return f.find(in)
}

func (f *ApproxTemplateFinder) String() string {
	b := f.template.Bounds()
	return fmt.Sprintf("ApproxTemplateFinder(%dx%d)", b.Dx(), b.Dy())
}

// ExactTemplateFinder 边缘匹配后再逐像素校验
type ExactTemplateFinder struct {
	approx *ApproxTemplateFinder
}

// NewExactTemplateFinder 创建精确模板查找器
func NewExactTemplateFinder(template image.Image, opts ...TemplateOption) *ExactTemplateFinder {
	return &ExactTemplateFinder{approx: NewApproxTemplateFinder(template, opts...)}
}

// Find 实现 Finder
func (f *ExactTemplateFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		for loc := range f.approx.Find(in) {
			if !imagesEqual(loc.Image(), f.approx.template) {
				continue
			}
			if !yield(loc) {
				return
			}
		}
	}
}

func (f *ExactTemplateFinder) String() string {
	b := f.approx.template.Bounds()
	return fmt.Sprintf("ExactTemplateFinder(%dx%d)", b.Dx(), b.Dy())
}

// ThresholdTemplateFinder 灰度阈值化后按边缘匹配
type ThresholdTemplateFinder struct {
	binaryTemplateFinder
	level uint8
}

// NewThresholdTemplateFinder 创建阈值模板查找器，灰度大于 level 视为前景
func NewThresholdTemplateFinder(template image.Image, level uint8, opts ...TemplateOption) *ThresholdTemplateFinder {
	o := applyTemplateOptions(opts)
	binarize := func(img image.Image) *cv.Bitmap {
		return cv.BitmapEdgeMask(cv.ThresholdMask(img, level))
	}
	return &ThresholdTemplateFinder{
		binaryTemplateFinder: binaryTemplateFinder{
			template: template,
			binary:   binarize(template),
			binarize: binarize,
			opts:     o,
		},
		level: level,
	}
}

// Find 实现 Finder
func (f *ThresholdTemplateFinder) Find(in *Location) iter.Seq[*Location] {
	return f.find(in)
}

func (f *ThresholdTemplateFinder) String() string {
	b := f.template.Bounds()
	return fmt.Sprintf("ThresholdTemplateFinder(%dx%d, level=%d)", b.Dx(), b.Dy(), f.level)
}

// ScoreTemplateFinder 归一化相关系数评分匹配，容忍亮度和噪声差异
type ScoreTemplateFinder struct {
	template  image.Image
	threshold float64
	opts      templateOptions
}

// NewScoreTemplateFinder 创建评分模板查找器，threshold 为 0-1 置信度下限
func NewScoreTemplateFinder(template image.Image, threshold float64, opts ...TemplateOption) *ScoreTemplateFinder {
	return &ScoreTemplateFinder{
		template:  template,
		threshold: threshold,
		opts:      applyTemplateOptions(opts),
	}
}

// Find 实现 Finder
func (f *ScoreTemplateFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		matches, err := cv.NewScoreMatching(f.threshold, f.opts.rgb).FindAll(in.Image(), f.template)
		if err != nil {
			return
		}
		b := f.template.Bounds()
		for _, m := range matches {
			loc, err := NewLocation(m.X, m.Y, b.Dx(), b.Dy(), WithParent(in))
			if err != nil {
				continue
			}
			if !yield(loc) {
				return
			}
		}
	}
}

func (f *ScoreTemplateFinder) String() string {
	b := f.template.Bounds()
	return fmt.Sprintf("ScoreTemplateFinder(%dx%d, threshold=%.2f)", b.Dx(), b.Dy(), f.threshold)
}

// imagesEqual 逐像素比较两张同尺寸图像
func imagesEqual(a, b image.Image) bool {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			if !sameColor(a.At(ab.Min.X+x, ab.Min.Y+y), b.At(bb.Min.X+x, bb.Min.Y+y)) {
				return false
			}
		}
	}
	return true
}
