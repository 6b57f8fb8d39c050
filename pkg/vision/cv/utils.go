package cv

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"
)

// ToGray 转换为灰度图
func ToGray(src gocv.Mat) gocv.Mat {
	if src.Channels() == 1 {
		return src.Clone()
	}
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return dst
}

// zeroOrigin 复制为原点在 (0,0) 的 RGBA 图像
func zeroOrigin(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ImageToMat 将 image.Image 转换为 BGR gocv.Mat
func ImageToMat(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(zeroOrigin(img))
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("图像转换失败: %w", err)
	}
	// 转换为 BGR（OpenCV 默认格式）
	dst := gocv.NewMat()
	gocv.CvtColor(mat, &dst, gocv.ColorRGBToBGR)
	mat.Close()
	return dst, nil
}

// BitmapToMat 将二值图像转换为 0/255 单通道 Mat
func BitmapToMat(b *Bitmap) (gocv.Mat, error) {
	data := make([]byte, len(b.Pix))
	for i, v := range b.Pix {
		if v {
			data[i] = 255
		}
	}
	mat, err := gocv.NewMatFromBytes(b.Height, b.Width, gocv.MatTypeCV8U, data)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("创建矩阵失败: %w", err)
	}
	return mat, nil
}
