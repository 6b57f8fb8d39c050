// Package ocr 提供文字识别，用作查找结果的文字过滤器
//
// 两种识别器都实现 finder.TextClassifier:
//
//	paddle, err := ocr.NewPaddleClassifier(ocr.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer paddle.Close()
//	ok := finder.NewTextFinderFilter(buttons, paddle, finder.TextEquals("确定"))
//
// PaddleClassifier 依赖 ONNX Runtime 和模型文件，TesseractClassifier 依赖系统安装的 Tesseract。
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/samber/lo"
)

// Word 识别出的一段文字
type Word struct {
	// Text 文字内容
	Text string `json:"text"`
	// Confidence 置信度 (0-1)
	Confidence float64 `json:"confidence"`
	// Rect 文字边界框，相对于输入图像
	Rect image.Rectangle `json:"rect"`
}

// Center 边界框中心
func (w Word) Center() image.Point {
	return image.Pt((w.Rect.Min.X+w.Rect.Max.X)/2, (w.Rect.Min.Y+w.Rect.Max.Y)/2)
}

// joinWords 拼接置信度不低于 minScore 的非空文字
func joinWords(words []Word, minScore float64) string {
	kept := lo.Filter(words, func(w Word, _ int) bool {
		return w.Confidence >= minScore && strings.TrimSpace(w.Text) != ""
	})
	return strings.Join(lo.Map(kept, func(w Word, _ int) string {
		return strings.TrimSpace(w.Text)
	}), " ")
}

// encodePNG 编码为 png 字节
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("编码图像失败: %w", err)
	}
	return buf.Bytes(), nil
}
