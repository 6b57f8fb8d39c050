package cv

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// DefaultEdgeThreshold 边缘二值化默认阈值
const DefaultEdgeThreshold = 10

// Grey 灰度图像，行优先
type Grey struct {
	Width  int
	Height int
	Pix    []uint8
}

// At 返回 (x, y) 处灰度值
func (g *Grey) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// GreyScale 将图像转换为灰度
func GreyScale(img image.Image) *Grey {
	rgba := effect.Grayscale(img)
	b := rgba.Bounds()
	g := &Grey{Width: b.Dx(), Height: b.Dy(), Pix: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.Pix[y*g.Width+x] = rgba.Pix[y*rgba.Stride+x*4]
		}
	}
	return g
}

// GreyMask 灰度值满足 pred 的像素为 true
func GreyMask(img image.Image, pred func(v uint8) bool) *Bitmap {
	g := GreyScale(img)
	mask := NewBitmap(g.Width, g.Height)
	for i, v := range g.Pix {
		mask.Pix[i] = pred(v)
	}
	return mask
}

// ThresholdMask 灰度值大于 level 的像素为 true，完全透明的像素按黑色处理
func ThresholdMask(img image.Image, level uint8) *Bitmap {
	return GreyMask(img, func(v uint8) bool { return v > level })
}

// EdgeStrength 前向差分边缘强度，输出尺寸为 (w-1)×(h-1)
//
// e[y][x] = |(g[y+1][x] - g[y+1][x+1]) | (g[y][x+1] - g[y+1][x+1])|
func EdgeStrength(g *Grey) ([]int16, int, int) {
	w, h := g.Width-1, g.Height-1
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	out := make([]int16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			br := int16(g.At(x+1, y+1))
			a := int16(g.At(x, y+1)) - br
			b := int16(g.At(x+1, y)) - br
			v := a | b
			if v < 0 {
				v = -v
			}
			out[y*w+x] = v
		}
	}
	return out, w, h
}

// EdgeMask 边缘强度大于 threshold 的像素为 true
func EdgeMask(img image.Image, threshold int) *Bitmap {
	return edgeMaskFromGrey(GreyScale(img), threshold)
}

// BitmapEdgeMask 对二值图像求边缘，任何非零边缘为 true
func BitmapEdgeMask(b *Bitmap) *Bitmap {
	g := &Grey{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	for i, v := range b.Pix {
		if v {
			g.Pix[i] = 255
		}
	}
	return edgeMaskFromGrey(g, 0)
}

func edgeMaskFromGrey(g *Grey, threshold int) *Bitmap {
	edges, w, h := EdgeStrength(g)
	mask := NewBitmap(w, h)
	for i, v := range edges {
		mask.Pix[i] = int(v) > threshold
	}
	return mask
}
