package finder

import (
	"image"
	"iter"

	"github.com/zoeyai/zoeyfinder/pkg/vision/cv"
)

// DefaultConnectivity 默认 4 邻域连通
const DefaultConnectivity = 4

// RegionOption 区域查找器选项
type RegionOption func(*BinaryRegionFinder)

// WithConnectivity 设置连通方式，4 或 8
func WithConnectivity(connectivity int) RegionOption {
	return func(f *BinaryRegionFinder) {
		f.connectivity = connectivity
	}
}

// BinaryRegionFinder 把图像二值化后按连通域输出外接矩形
type BinaryRegionFinder struct {
	mask         func(image.Image) *cv.Bitmap
	connectivity int
}

// NewBinaryRegionFinder 创建连通域查找器
func NewBinaryRegionFinder(mask func(image.Image) *cv.Bitmap, opts ...RegionOption) *BinaryRegionFinder {
	f := &BinaryRegionFinder{mask: mask, connectivity: DefaultConnectivity}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewColourRegionFinder 按 HSV 颜色条件查找区域
func NewColourRegionFinder(filter cv.HSVFilter, opts ...RegionOption) *BinaryRegionFinder {
	return NewBinaryRegionFinder(func(img image.Image) *cv.Bitmap {
		return cv.ColourMask(img, filter)
	}, opts...)
}

// NewGreyscaleRegionFinder 按灰度条件查找区域
func NewGreyscaleRegionFinder(pred func(v uint8) bool, opts ...RegionOption) *BinaryRegionFinder {
	return NewBinaryRegionFinder(func(img image.Image) *cv.Bitmap {
		return cv.GreyMask(img, pred)
	}, opts...)
}

// Find 实现 Finder
func (f *BinaryRegionFinder) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		rects, err := cv.LabelRegions(f.mask(in.Image()), f.connectivity)
		if err != nil {
			return
		}
		for _, r := range rects {
			loc, err := NewLocation(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), WithParent(in))
			if err != nil {
				continue
			}
			if !yield(loc) {
				return
			}
		}
	}
}
