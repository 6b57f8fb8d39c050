package ocr

import (
	"fmt"
	"image"
	"sync"
	"time"

	goocr "github.com/getcharzp/go-ocr"

	"github.com/zoeyai/zoeyfinder/internal/logger"
)

// PaddleClassifier 基于 PaddleOCR 的文字识别器
type PaddleClassifier struct {
	engine goocr.Engine
	config Config
	mu     sync.Mutex
}

// NewPaddleClassifier 创建 PaddleOCR 识别器
func NewPaddleClassifier(config Config) (*PaddleClassifier, error) {
	engine, err := goocr.NewPaddleOcrEngine(goocr.Config{
		OnnxRuntimeLibPath: config.OnnxRuntimeLibPath,
		DetModelPath:       config.DetModelPath,
		RecModelPath:       config.RecModelPath,
		DictPath:           config.DictPath,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 OCR 引擎失败: %w", err)
	}

	logger.Info("OCR 引擎初始化成功")
	return &PaddleClassifier{engine: engine, config: config}, nil
}

// Recognize 识别图像中的所有文字
func (r *PaddleClassifier) Recognize(img image.Image) ([]Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine == nil {
		return nil, fmt.Errorf("OCR 引擎已关闭")
	}

	startTime := time.Now()
	results, err := r.engine.RunOCR(img)
	elapsed := float64(time.Since(startTime).Microseconds()) / 1000
	if err != nil {
		logger.LogEvent("OCR", false, elapsed, "识别失败")
		return nil, fmt.Errorf("OCR 识别失败: %w", err)
	}

	words := make([]Word, 0, len(results))
	for _, result := range results {
		words = append(words, convertResult(result))
	}
	logger.LogEvent("OCR", true, elapsed, fmt.Sprintf("识别到 %d 个文本", len(words)))
	return words, nil
}

// Classify 实现 finder.TextClassifier
func (r *PaddleClassifier) Classify(img image.Image) (string, error) {
	words, err := r.Recognize(img)
	if err != nil {
		return "", err
	}
	return joinWords(words, r.config.MinScore), nil
}

// Close 释放资源
func (r *PaddleClassifier) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine != nil {
		r.engine.Destroy()
		r.engine = nil
	}
	return nil
}

// convertResult 转换 go-ocr 结果
func convertResult(result goocr.RecResult) Word {
	// Box 为 {x1, y1, x2, y2}
	box := result.Box
	return Word{
		Text:       result.Text,
		Confidence: float64(result.Score),
		Rect:       image.Rect(box[0], box[1], box[2], box[3]),
	}
}
