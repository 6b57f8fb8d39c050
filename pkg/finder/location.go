package finder

import (
	"fmt"
	"image"
	"image/color"
	"iter"

	"github.com/disintegration/imaging"
)

// ValidationError Location 构造参数非法
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("无效的 Location %s: %s", e.Field, e.Reason)
}

// Location 矩形区域，可挂在父区域下并借用父区域的像素
//
// Location 构造后不可修改，需要变化时用 Copy 生成新的 Location。
type Location struct {
	relX, relY      int
	w, h            int
	mainPointOffset image.Point
	parent          *Location
	img             image.Image
}

// LocationOption Location 构造选项
type LocationOption func(*locationSpec)

type locationSpec struct {
	relX, relY      int
	w, h            int
	mainPointOffset *image.Point
	parent          *Location
	img             image.Image
}

// WithParent 设置父区域，nil 表示根区域
func WithParent(parent *Location) LocationOption {
	return func(s *locationSpec) {
		s.parent = parent
	}
}

// WithImage 设置自有像素，尺寸必须与区域一致
func WithImage(img image.Image) LocationOption {
	return func(s *locationSpec) {
		s.img = img
	}
}

// WithMainPointOffset 设置点击点相对左上角的偏移，默认为中心
func WithMainPointOffset(x, y int) LocationOption {
	return func(s *locationSpec) {
		p := image.Point{X: x, Y: y}
		s.mainPointOffset = &p
	}
}

// WithPosition 设置相对父区域的偏移
func WithPosition(relX, relY int) LocationOption {
	return func(s *locationSpec) {
		s.relX, s.relY = relX, relY
	}
}

// WithSize 设置宽高
func WithSize(w, h int) LocationOption {
	return func(s *locationSpec) {
		s.w, s.h = w, h
	}
}

// NewLocation 创建 Location
//
// 偏移为负、宽高小于 1、超出父区域或自有像素尺寸不符时返回 *ValidationError。
func NewLocation(relX, relY, w, h int, opts ...LocationOption) (*Location, error) {
	spec := locationSpec{relX: relX, relY: relY, w: w, h: h}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec.build()
}

// MustLocation 同 NewLocation，参数非法时 panic
func MustLocation(relX, relY, w, h int, opts ...LocationOption) *Location {
	loc, err := NewLocation(relX, relY, w, h, opts...)
	if err != nil {
		panic(err)
	}
	return loc
}

// NewRootLocation 以图像创建根区域，origin 为其在屏幕上的绝对坐标
func NewRootLocation(img image.Image, origin image.Point) (*Location, error) {
	b := img.Bounds()
	return NewLocation(origin.X, origin.Y, b.Dx(), b.Dy(), WithImage(img))
}

func (s *locationSpec) build() (*Location, error) {
	if s.relX < 0 || s.relY < 0 {
		return nil, &ValidationError{Field: "offset", Reason: fmt.Sprintf("偏移 (%d,%d) 不能为负", s.relX, s.relY)}
	}
	if s.w < 1 || s.h < 1 {
		return nil, &ValidationError{Field: "size", Reason: fmt.Sprintf("宽高 %dx%d 必须至少为 1", s.w, s.h)}
	}
	if s.parent != nil {
		if s.relX+s.w > s.parent.w || s.relY+s.h > s.parent.h {
			return nil, &ValidationError{
				Field: "bounds",
				Reason: fmt.Sprintf("区域 (%d,%d,%d,%d) 超出父区域 %dx%d",
					s.relX, s.relY, s.w, s.h, s.parent.w, s.parent.h),
			}
		}
	}
	if s.img != nil {
		b := s.img.Bounds()
		if b.Dx() != s.w || b.Dy() != s.h {
			return nil, &ValidationError{
				Field:  "image",
				Reason: fmt.Sprintf("图像尺寸 %dx%d 与区域 %dx%d 不一致", b.Dx(), b.Dy(), s.w, s.h),
			}
		}
	}

	mp := image.Point{X: s.w / 2, Y: s.h / 2}
	if s.mainPointOffset != nil {
		mp = *s.mainPointOffset
	}

	return &Location{
		relX:            s.relX,
		relY:            s.relY,
		w:               s.w,
		h:               s.h,
		mainPointOffset: mp,
		parent:          s.parent,
		img:             s.img,
	}, nil
}

// RelX 相对父区域的横向偏移
func (l *Location) RelX() int { return l.relX }

// RelY 相对父区域的纵向偏移
func (l *Location) RelY() int { return l.relY }

// W 宽度
func (l *Location) W() int { return l.w }

// H 高度
func (l *Location) H() int { return l.h }

// Parent 父区域
func (l *Location) Parent() *Location { return l.parent }

// MainPointOffset 点击点相对左上角的偏移
func (l *Location) MainPointOffset() image.Point { return l.mainPointOffset }

// X 绝对横坐标
func (l *Location) X() int {
	if l.parent == nil {
		return l.relX
	}
	return l.relX + l.parent.X()
}

// Y 绝对纵坐标
func (l *Location) Y() int {
	if l.parent == nil {
		return l.relY
	}
	return l.relY + l.parent.Y()
}

// MainPoint 绝对点击点
func (l *Location) MainPoint() image.Point {
	return image.Point{X: l.X() + l.mainPointOffset.X, Y: l.Y() + l.mainPointOffset.Y}
}

// Center 绝对中心点
func (l *Location) Center() image.Point {
	return image.Point{X: l.X() + l.w/2, Y: l.Y() + l.h/2}
}

// Rect 绝对坐标矩形
func (l *Location) Rect() image.Rectangle {
	x, y := l.X(), l.Y()
	return image.Rect(x, y, x+l.w, y+l.h)
}

// Area 面积
func (l *Location) Area() int {
	return l.w * l.h
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Image 返回区域像素
//
// 有父区域时返回父图像的子视图，不复制像素；根区域返回自有像素，
// 没有自有像素时返回全零图像。
func (l *Location) Image() image.Image {
	if l.parent == nil {
		if l.img != nil {
			return l.img
		}
		return image.NewRGBA(image.Rect(0, 0, l.w, l.h))
	}

	src := l.parent.Image()
	o := src.Bounds().Min
	r := image.Rect(o.X+l.relX, o.Y+l.relY, o.X+l.relX+l.w, o.Y+l.relY+l.h)
	if si, ok := src.(subImager); ok {
		return si.SubImage(r)
	}
	return imaging.Crop(src, r)
}

// Copy 复制并覆盖部分属性
func (l *Location) Copy(opts ...LocationOption) (*Location, error) {
	mp := l.mainPointOffset
	spec := locationSpec{
		relX:            l.relX,
		relY:            l.relY,
		w:               l.w,
		h:               l.h,
		mainPointOffset: &mp,
		parent:          l.parent,
		img:             l.img,
	}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec.build()
}

// Equal 比较父区域、偏移、尺寸和点击点，不比较像素
func (l *Location) Equal(o *Location) bool {
	if l == o {
		return true
	}
	if l == nil || o == nil {
		return false
	}
	if l.relX != o.relX || l.relY != o.relY || l.w != o.w || l.h != o.h ||
		l.mainPointOffset != o.mainPointOffset {
		return false
	}
	return l.parent.Equal(o.parent)
}

// ImageEqual 仅比较像素内容
func (l *Location) ImageEqual(o *Location) bool {
	if l.w != o.w || l.h != o.h {
		return false
	}
	a, b := l.Image(), o.Image()
	ab, bb := a.Bounds(), b.Bounds()
	for y := 0; y < l.h; y++ {
		for x := 0; x < l.w; x++ {
			if !sameColor(a.At(ab.Min.X+x, ab.Min.Y+y), b.At(bb.Min.X+x, bb.Min.Y+y)) {
				return false
			}
		}
	}
	return true
}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

// Find 在 in 中查找自身：能放进 in 时返回挂在 in 下的副本
func (l *Location) Find(in *Location) iter.Seq[*Location] {
	return func(yield func(*Location) bool) {
		loc, err := l.Copy(WithParent(in), WithImage(nil))
		if err != nil {
			return
		}
		yield(loc)
	}
}

func (l *Location) String() string {
	return fmt.Sprintf("Location(x=%d, y=%d, w=%d, h=%d)", l.X(), l.Y(), l.w, l.h)
}
