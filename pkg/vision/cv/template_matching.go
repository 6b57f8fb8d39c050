package cv

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// MaxResultCount 最大匹配结果数量
const MaxResultCount = 10

// ScoreMatching 基于归一化相关系数的模板匹配
//
// 与 Convolution 的精确形状匹配不同，这里按分数容忍亮度和噪声差异。
type ScoreMatching struct {
	threshold  float64
	rgb        bool
	maxResults int
}

// NewScoreMatching 创建评分匹配器
func NewScoreMatching(threshold float64, rgb bool) *ScoreMatching {
	return &ScoreMatching{
		threshold:  threshold,
		rgb:        rgb,
		maxResults: MaxResultCount,
	}
}

// FindAll 查找所有置信度不低于阈值的匹配，按置信度从高到低
func (s *ScoreMatching) FindAll(source, search image.Image) ([]ScoredMatch, error) {
	imSource, err := ImageToMat(source)
	if err != nil {
		return nil, err
	}
	defer imSource.Close()

	imSearch, err := ImageToMat(search)
	if err != nil {
		return nil, err
	}
	defer imSearch.Close()

	// 检查图像尺寸
	if err := checkSourceLargerThanSearch(imSource, imSearch); err != nil {
		return nil, err
	}

	result := templateResultMatrix(imSource, imSearch)
	defer result.Close()

	h, w := imSearch.Rows(), imSearch.Cols()
	var results []ScoredMatch

	for len(results) < s.maxResults {
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)

		confidence := float64(maxVal)
		if s.rgb {
			// RGB 三通道校验
			crop := imSource.Region(image.Rect(maxLoc.X, maxLoc.Y, maxLoc.X+w, maxLoc.Y+h))
			confidence = CalRGBConfidence(crop, imSearch)
			crop.Close()
		}
		if float64(maxVal) < s.threshold {
			break
		}

		if confidence >= s.threshold {
			results = append(results, ScoredMatch{X: maxLoc.X, Y: maxLoc.Y, Confidence: confidence})
		}

		// 屏蔽已匹配区域
		gocv.Rectangle(&result,
			image.Rect(maxLoc.X-w/2, maxLoc.Y-h/2, maxLoc.X+w/2+1, maxLoc.Y+h/2+1),
			color.RGBA{0, 0, 0, 255}, -1)
	}

	return results, nil
}

// templateResultMatrix 计算灰度模板匹配结果矩阵
func templateResultMatrix(source, search gocv.Mat) gocv.Mat {
	srcGray := ToGray(source)
	searchGray := ToGray(search)
	defer srcGray.Close()
	defer searchGray.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	result := gocv.NewMat()
	gocv.MatchTemplate(srcGray, searchGray, &result, gocv.TmCcoeffNormed, mask)
	return result
}

// checkSourceLargerThanSearch 检查源图像是否大于搜索图像
func checkSourceLargerThanSearch(source, search gocv.Mat) error {
	if source.Rows() < search.Rows() || source.Cols() < search.Cols() {
		return &ImageSizeError{
			SourceSize: [2]int{source.Cols(), source.Rows()},
			SearchSize: [2]int{search.Cols(), search.Rows()},
		}
	}
	return nil
}
