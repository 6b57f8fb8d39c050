package cv

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSVFilter 按色相(度, 0-360)、饱和度和明度(0-1)判断像素
type HSVFilter func(h, s, v float64) bool

// wheel 将 0-255 色轮刻度转换为角度
func wheel(n float64) float64 {
	return n * 360 / 256
}

// HueRange 色相位于 [lo, hi] 且饱和度、明度超过下限，lo > hi 时跨越 0 度
func HueRange(lo, hi, minSat, minVal float64) HSVFilter {
	return func(h, s, v float64) bool {
		if s <= minSat || v <= minVal {
			return false
		}
		if lo <= hi {
			return h >= lo && h <= hi
		}
		return h >= lo || h <= hi
	}
}

// 预置颜色，色相边界为 0-255 色轮刻度
var (
	Red    = HueRange(wheel(216), wheel(32), 128.0/255, 15.0/255)
	Yellow = HueRange(wheel(32), wheel(48), 128.0/255, 15.0/255)
	Green  = HueRange(wheel(48), wheel(112), 128.0/255, 15.0/255)
	Aqua   = HueRange(wheel(120), wheel(132), 128.0/255, 15.0/255)
	Blue   = HueRange(wheel(132), wheel(200), 128.0/255, 15.0/255)
	Purple = HueRange(wheel(200), wheel(216), 128.0/255, 15.0/255)
)

// White 几乎无饱和度且接近最大明度
func White(h, s, v float64) bool {
	return s < 5.0/255 && v > 250.0/255
}

// NamedColours 预置颜色名称映射
var NamedColours = map[string]HSVFilter{
	"red":    Red,
	"yellow": Yellow,
	"green":  Green,
	"aqua":   Aqua,
	"blue":   Blue,
	"purple": Purple,
	"white":  White,
}

// ColourMask 满足 HSV 条件的像素为 true
func ColourMask(img image.Image, filter HSVFilter) *Bitmap {
	b := img.Bounds()
	mask := NewBitmap(b.Dx(), b.Dy())
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			c, ok := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
			if !ok {
				continue
			}
			mask.Pix[y*mask.Width+x] = filter(c.Hsv())
		}
	}
	return mask
}
