package cv

import (
	"gocv.io/x/gocv"
)

// CalRGBConfidence 计算两张同尺寸 BGR 图像的逐通道相似度，返回最低通道的置信度
func CalRGBConfidence(imgSrc, imgSearch gocv.Mat) float64 {
	if imgSrc.Rows() != imgSearch.Rows() || imgSrc.Cols() != imgSearch.Cols() {
		return 0
	}

	srcCropped := clampPixels(imgSrc)
	searchCropped := clampPixels(imgSearch)
	defer srcCropped.Close()
	defer searchCropped.Close()

	srcChannels := gocv.Split(srcCropped)
	searchChannels := gocv.Split(searchCropped)
	defer func() {
		for _, ch := range srcChannels {
			ch.Close()
		}
		for _, ch := range searchChannels {
			ch.Close()
		}
	}()

	minConfidence := 1.0
	for i := 0; i < len(srcChannels) && i < len(searchChannels); i++ {
		minConfidence = min(minConfidence, channelConfidence(srcChannels[i], searchChannels[i]))
	}
	return minConfidence
}

// clampPixels 截断高光并清零暗部，像素值落在 [10, 245]
func clampPixels(img gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Threshold(img, &dst, 245, 245, gocv.ThresholdTrunc)
	gocv.Threshold(dst, &dst, 10, 0, gocv.ThresholdToZero)
	return dst
}

// channelConfidence 单通道 TM_CCOEFF_NORMED 最大值
func channelConfidence(src, search gocv.Mat) float64 {
	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, search, &result, gocv.TmCcoeffNormed, mask)

	_, maxVal, _, _ := gocv.MinMaxLoc(result)
	return float64(maxVal)
}
