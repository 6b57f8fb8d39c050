package cv

import (
	"errors"
	"fmt"
)

// ErrPrecision 叠加权重超出双精度可精确表示范围
var ErrPrecision = errors.New("切块数量超出精度上限")

// ConfigurationError 参数配置错误
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("参数 %s 无效: %s", e.Field, e.Reason)
}

// ImageSizeError 图像尺寸错误
type ImageSizeError struct {
	SourceSize [2]int
	SearchSize [2]int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("搜索图像尺寸 %dx%d 大于源图像 %dx%d",
		e.SearchSize[0], e.SearchSize[1], e.SourceSize[0], e.SourceSize[1])
}

// ScoredMatch 评分匹配结果
type ScoredMatch struct {
	// X, Y 匹配区域左上角
	X int `json:"x"`
	Y int `json:"y"`
	// Confidence 匹配置信度 (0-1)
	Confidence float64 `json:"confidence"`
}
