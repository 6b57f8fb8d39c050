package cv

import (
	"image"
	"math"
	"slices"
)

// DefaultTolerance 默认像素计数容差
const DefaultTolerance = 0.5

// ConvolutionOption 卷积匹配选项
type ConvolutionOption func(*convolutionOptions)

type convolutionOptions struct {
	tolerance float64
	table     []OverlapEntry
}

func applyConvolutionOptions(opts []ConvolutionOption) *convolutionOptions {
	o := &convolutionOptions{
		tolerance: DefaultTolerance,
		table:     DefaultOverlapTable(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTolerance 设置像素计数容差
func WithTolerance(tolerance float64) ConvolutionOption {
	return func(o *convolutionOptions) {
		o.tolerance = tolerance
	}
}

// WithOverlapTable 替换切块候选表
func WithOverlapTable(table []OverlapEntry) ConvolutionOption {
	return func(o *convolutionOptions) {
		o.table = table
	}
}

// degenerate 模板为空、无前景像素或大于图像时无需计算
func degenerate(tpl, img *Bitmap) bool {
	return tpl.Empty() || img.Empty() ||
		tpl.Width > img.Width || tpl.Height > img.Height ||
		tpl.Count() == 0
}

// bitmapToFloats 将二值图像转换为 0/1 浮点数据
func bitmapToFloats(b *Bitmap) []float64 {
	out := make([]float64, len(b.Pix))
	for i, v := range b.Pix {
		if v {
			out[i] = 1
		}
	}
	return out
}

// matches 判断重合计数是否等于模板前景像素数
func matches(value float64, count int, tolerance float64) bool {
	return math.Abs(value-float64(count)) < tolerance
}

// sortPoints 按 (Y, X) 排序
func sortPoints(points []image.Point) {
	slices.SortFunc(points, func(a, b image.Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
}

// Convolution 返回模板前景与图像前景完全重合的所有左上角位置
func Convolution(tpl, img *Bitmap, opts ...ConvolutionOption) ([]image.Point, error) {
	o := applyConvolutionOptions(opts)
	if degenerate(tpl, img) {
		return nil, nil
	}

	count := tpl.Count()
	rows, cols := evenDFTSize(img.Height), evenDFTSize(img.Width)

	values, err := correlate(bitmapToFloats(img), img.Width, img.Height, tpl, rows, cols)
	if err != nil {
		return nil, err
	}

	var points []image.Point
	for y := 0; y+tpl.Height <= img.Height; y++ {
		for x := 0; x+tpl.Width <= img.Width; x++ {
			v := values[(y+tpl.Height-1)*cols+x+tpl.Width-1]
			if matches(v, count, o.tolerance) {
				points = append(points, image.Point{X: x, Y: y})
			}
		}
	}
	return points, nil
}
