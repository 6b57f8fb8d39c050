package cv

import (
	"encoding/binary"
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// evenDFTSize 返回不小于 n 的偶数且适合 DFT 的尺寸
func evenDFTSize(n int) int {
	size := gocv.GetOptimalDFTSize(n)
	if size < n {
		size = n
	}
	if size%2 != 0 {
		size = gocv.GetOptimalDFTSize(size + 1)
		if size%2 != 0 {
			size++
		}
	}
	return size
}

// floatsToMat 将行优先 float64 数据转换为 CV_64F Mat
func floatsToMat(data []float64, rows, cols int) (gocv.Mat, error) {
	buf := make([]byte, len(data)*8)
	for i, v := range data {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV64F, buf)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("创建矩阵失败: %w", err)
	}
	return mat, nil
}

// matToFloats 读取 CV_64F Mat 的全部数据
func matToFloats(mat gocv.Mat) ([]float64, error) {
	buf := mat.ToBytes()
	n := mat.Rows() * mat.Cols()
	if len(buf) < n*8 {
		return nil, fmt.Errorf("矩阵数据长度不足: %d < %d", len(buf), n*8)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return out, nil
}

// correlate 计算加权图像与模板的相关
//
// img 为 iw×ih 行优先数据，结果为 rows×cols 的循环卷积，
// (fx, fy) 处的值对应模板左上角位于 (fx-(tw-1), fy-(th-1)) 时的重合像素计数。
func correlate(img []float64, iw, ih int, tpl *Bitmap, rows, cols int) ([]float64, error) {
	imgBuf := make([]float64, rows*cols)
	for y := 0; y < ih; y++ {
		copy(imgBuf[y*cols:y*cols+iw], img[y*iw:(y+1)*iw])
	}

	// 模板翻转后做卷积即为相关
	tplBuf := make([]float64, rows*cols)
	for y := 0; y < tpl.Height; y++ {
		for x := 0; x < tpl.Width; x++ {
			if tpl.Pix[y*tpl.Width+x] {
				tplBuf[(tpl.Height-1-y)*cols+(tpl.Width-1-x)] = 1
			}
		}
	}

	imgMat, err := floatsToMat(imgBuf, rows, cols)
	if err != nil {
		return nil, err
	}
	defer imgMat.Close()

	tplMat, err := floatsToMat(tplBuf, rows, cols)
	if err != nil {
		return nil, err
	}
	defer tplMat.Close()

	imgSpec := gocv.NewMat()
	defer imgSpec.Close()
	tplSpec := gocv.NewMat()
	defer tplSpec.Close()
	product := gocv.NewMat()
	defer product.Close()
	result := gocv.NewMat()
	defer result.Close()

	gocv.DFT(imgMat, &imgSpec, gocv.DftComplexOutput)
	gocv.DFT(tplMat, &tplSpec, gocv.DftComplexOutput)
	gocv.MulSpectrums(imgSpec, tplSpec, &product, 0)
	gocv.DFT(product, &result, gocv.DftInverse|gocv.DftScale|gocv.DftRealOutput)

	if result.Empty() || result.Rows() != rows || result.Cols() != cols {
		return nil, fmt.Errorf("逆变换结果尺寸错误: %dx%d", result.Cols(), result.Rows())
	}
	return matToFloats(result)
}
