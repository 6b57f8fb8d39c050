// Package cv 提供二值图像卷积匹配与连通区域分割
//
// 核心算法:
//   - Convolution: 基于 FFT 的二值模板相关，返回与模板像素完全重合的位置
//   - OverlappedConvolution: 将图像切块后按权重叠加，一次 FFT 同时计算所有块
//   - BestConvolution: 按代价表选择最优切块方式，不可行时回退到 Convolution
//   - LabelRegions: 连通区域标记，返回每个区域的外接矩形
//
// 基本用法:
//
//	tpl := cv.NewBitmapFromRows([][]int{{0, 1}, {1, 0}})
//	img := cv.EdgeMask(screen, 10)
//	for _, p := range cv.BestConvolution(tpl, img) {
//	    fmt.Printf("匹配位置: (%d, %d)\n", p.X, p.Y)
//	}
package cv
