package cv

import "strings"

// Bitmap 行优先存储的二值图像
type Bitmap struct {
	Width  int
	Height int
	Pix    []bool
}

// NewBitmap 创建全 false 的二值图像
func NewBitmap(width, height int) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// NewBitmapFromRows 由 0/1 行数据创建二值图像，非零即 true
func NewBitmapFromRows(rows [][]int) *Bitmap {
	if len(rows) == 0 {
		return NewBitmap(0, 0)
	}
	b := NewBitmap(len(rows[0]), len(rows))
	for y, row := range rows {
		for x := 0; x < b.Width && x < len(row); x++ {
			b.Pix[y*b.Width+x] = row[x] != 0
		}
	}
	return b
}

// At 返回 (x, y) 处的值，越界返回 false
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x]
}

// Set 设置 (x, y) 处的值，越界忽略
func (b *Bitmap) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Pix[y*b.Width+x] = v
}

// Count 返回 true 像素数量
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Pix {
		if v {
			n++
		}
	}
	return n
}

// Empty 宽或高为 0
func (b *Bitmap) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

// Crop 复制矩形区域 [x0,x1)×[y0,y1)，越界部分被裁掉
func (b *Bitmap) Crop(x0, y0, x1, y1 int) *Bitmap {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, b.Width), min(y1, b.Height)
	if x1 <= x0 || y1 <= y0 {
		return NewBitmap(0, 0)
	}
	dst := NewBitmap(x1-x0, y1-y0)
	for y := y0; y < y1; y++ {
		copy(dst.Pix[(y-y0)*dst.Width:(y-y0+1)*dst.Width], b.Pix[y*b.Width+x0:y*b.Width+x1])
	}
	return dst
}

// String 以 '#' 和 '.' 输出，便于调试
func (b *Bitmap) String() string {
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Pix[y*b.Width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
