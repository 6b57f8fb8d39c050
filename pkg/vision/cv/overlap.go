package cv

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// precisionLimit 叠加值必须小于 2^(64-23) 才能在双精度下精确还原
const precisionLimit int64 = 1 << (64 - 23)

// OverlapEntry 切块总数及其可选的行切分数
type OverlapEntry struct {
	Count    int
	Divisors []int
}

// DefaultOverlapTable 返回默认切块候选表
func DefaultOverlapTable() []OverlapEntry {
	return []OverlapEntry{
		{Count: 16, Divisors: []int{16, 8, 4, 2, 1}},
		{Count: 15, Divisors: []int{15, 5, 3, 1}},
		{Count: 12, Divisors: []int{12, 6, 4, 3, 2, 1}},
		{Count: 10, Divisors: []int{10, 5, 2, 1}},
		{Count: 9, Divisors: []int{9, 3, 1}},
		{Count: 8, Divisors: []int{8, 4, 2, 1}},
		{Count: 6, Divisors: []int{6, 3, 2, 1}},
		{Count: 5, Divisors: []int{5, 1}},
		{Count: 4, Divisors: []int{4, 2, 1}},
		{Count: 3, Divisors: []int{3, 1}},
		{Count: 2, Divisors: []int{2, 1}},
	}
}

// Splits 图像切块方式
type Splits struct {
	// Rows 纵向切块数
	Rows int
	// Cols 横向切块数
	Cols int
}

// tileWeights 计算每块的权重 base^k，超出精度上限时返回 ErrPrecision
func tileWeights(base int64, n int) ([]int64, error) {
	weights := make([]int64, n)
	w := int64(1)
	for k := 0; k < n; k++ {
		weights[k] = w
		if w > precisionLimit/base {
			return nil, ErrPrecision
		}
		w *= base
	}
	if w >= precisionLimit {
		return nil, ErrPrecision
	}
	return weights, nil
}

// withinPrecision base^n 是否小于精度上限
func withinPrecision(base int64, n int) bool {
	_, err := tileWeights(base, n)
	return err == nil
}

type tile struct {
	x0, y0 int
	w, h   int
}

// tiles 计算切块范围，每块向右下扩展模板尺寸减一，最后一行/列延伸到图像边缘
func tiles(img *Bitmap, tpl *Bitmap, s Splits) []tile {
	h := img.Height / s.Rows
	w := img.Width / s.Cols

	out := make([]tile, 0, s.Rows*s.Cols)
	for i := 0; i < s.Rows; i++ {
		y0 := i * h
		y1 := min((i+1)*h+tpl.Height-1, img.Height)
		if i == s.Rows-1 {
			y1 = img.Height
		}
		for j := 0; j < s.Cols; j++ {
			x0 := j * w
			x1 := min((j+1)*w+tpl.Width-1, img.Width)
			if j == s.Cols-1 {
				x1 = img.Width
			}
			out = append(out, tile{x0: x0, y0: y0, w: x1 - x0, h: y1 - y0})
		}
	}
	return out
}

// OverlappedConvolution 将图像切块后按权重 (count+1)^k 叠加，一次 FFT 计算全部块
//
// 结果与 Convolution 相同。切块过多导致超出精度上限时返回 ErrPrecision。
func OverlappedConvolution(tpl, img *Bitmap, splits Splits, opts ...ConvolutionOption) ([]image.Point, error) {
	o := applyConvolutionOptions(opts)

	if splits.Rows < 1 || splits.Cols < 1 {
		return nil, &ConfigurationError{
			Field:  "splits",
			Reason: fmt.Sprintf("切块数必须为正数: %dx%d", splits.Rows, splits.Cols),
		}
	}
	if degenerate(tpl, img) {
		return nil, nil
	}
	if splits.Rows > img.Height || splits.Cols > img.Width {
		return nil, &ConfigurationError{
			Field:  "splits",
			Reason: fmt.Sprintf("切块数 %dx%d 超过图像尺寸 %dx%d", splits.Rows, splits.Cols, img.Width, img.Height),
		}
	}

	if img.Height/splits.Rows < tpl.Height || img.Width/splits.Cols < tpl.Width {
		reason := fmt.Sprintf("切块 %dx%d 小于模板 %dx%d",
			img.Width/splits.Cols, img.Height/splits.Rows, tpl.Width, tpl.Height)
		return nil, &ConfigurationError{Field: "splits", Reason: reason}
	}

	count := tpl.Count()
	base := int64(count + 1)
	weights, err := tileWeights(base, splits.Rows*splits.Cols)
	if err != nil {
		return nil, err
	}

	ts := tiles(img, tpl, splits)
	maxW, maxH := 0, 0
	for _, t := range ts {
		maxW, maxH = max(maxW, t.w), max(maxH, t.h)
	}

	sum := make([]float64, maxW*maxH)
	for k, t := range ts {
		weight := float64(weights[k])
		for y := 0; y < t.h; y++ {
			row := (t.y0 + y) * img.Width
			for x := 0; x < t.w; x++ {
				if img.Pix[row+t.x0+x] {
					sum[y*maxW+x] += weight
				}
			}
		}
	}

	rows, cols := evenDFTSize(maxH), evenDFTSize(maxW)
	values, err := correlate(sum, maxW, maxH, tpl, rows, cols)
	if err != nil {
		return nil, err
	}

	found := make(map[image.Point]struct{})
	for k, t := range ts {
		for ly := 0; ly+tpl.Height <= t.h; ly++ {
			for lx := 0; lx+tpl.Width <= t.w; lx++ {
				v := int64(math.Round(values[(ly+tpl.Height-1)*cols+lx+tpl.Width-1]))
				if v < 0 {
					continue
				}
				digit := (v / weights[k]) % base
				if matches(float64(digit), count, o.tolerance) {
					found[image.Point{X: t.x0 + lx, Y: t.y0 + ly}] = struct{}{}
				}
			}
		}
	}

	points := make([]image.Point, 0, len(found))
	for p := range found {
		points = append(points, p)
	}
	sortPoints(points)
	return points, nil
}

// ChooseSplits 按代价 (ih/rows+th)*(iw/cols+tw) 选择最优切块方式
//
// 无可行方案时 ok 为 false。
func ChooseSplits(tpl, img *Bitmap, table []OverlapEntry) (best Splits, ok bool) {
	if degenerate(tpl, img) {
		return Splits{}, false
	}

	base := int64(tpl.Count() + 1)
	maxRows := img.Height / tpl.Height
	maxCols := img.Width / tpl.Width

	bestCost := -1
	for _, entry := range table {
		if entry.Count < 1 || !withinPrecision(base, entry.Count) {
			continue
		}
		for _, d := range entry.Divisors {
			if d < 1 || entry.Count%d != 0 {
				continue
			}
			rows, cols := d, entry.Count/d
			if rows > maxRows || cols > maxCols {
				continue
			}
			cost := (img.Height/rows + tpl.Height) * (img.Width/cols + tpl.Width)
			if bestCost < 0 || cost < bestCost {
				bestCost = cost
				best = Splits{Rows: rows, Cols: cols}
			}
		}
	}
	return best, bestCost >= 0
}

// BestConvolution 选择最优切块方式计算匹配位置，无可行切块时回退到 Convolution
func BestConvolution(tpl, img *Bitmap, opts ...ConvolutionOption) ([]image.Point, error) {
	o := applyConvolutionOptions(opts)
	if degenerate(tpl, img) {
		return nil, nil
	}

	splits, ok := ChooseSplits(tpl, img, o.table)
	if !ok {
		return Convolution(tpl, img, opts...)
	}

	points, err := OverlappedConvolution(tpl, img, splits, opts...)
	if errors.Is(err, ErrPrecision) {
		return Convolution(tpl, img, opts...)
	}
	return points, err
}
