package ocr

import (
	"fmt"
	"image"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/zoeyai/zoeyfinder/internal/logger"
)

// TesseractOption Tesseract 识别器选项
type TesseractOption func(*tesseractOptions)

type tesseractOptions struct {
	languages []string
	whitelist string
	tessdata  string
	singleRow bool
	minScore  float64
}

// WithLanguages 设置识别语言，如 "eng"、"chi_sim"
func WithLanguages(languages ...string) TesseractOption {
	return func(o *tesseractOptions) {
		o.languages = languages
	}
}

// WithWhitelist 只识别给定字符
func WithWhitelist(chars string) TesseractOption {
	return func(o *tesseractOptions) {
		o.whitelist = chars
	}
}

// WithTessdataPrefix 设置训练数据目录
func WithTessdataPrefix(dir string) TesseractOption {
	return func(o *tesseractOptions) {
		o.tessdata = dir
	}
}

// WithSingleLine 按单行文字识别，适合按钮和标签
func WithSingleLine() TesseractOption {
	return func(o *tesseractOptions) {
		o.singleRow = true
	}
}

// WithMinScore 设置 Recognize 结果的最低置信度
func WithMinScore(score float64) TesseractOption {
	return func(o *tesseractOptions) {
		o.minScore = score
	}
}

// TesseractClassifier 基于 Tesseract 的文字识别器
type TesseractClassifier struct {
	client *gosseract.Client
	opts   tesseractOptions
	mu     sync.Mutex
}

// NewTesseractClassifier 创建 Tesseract 识别器，默认识别英文
func NewTesseractClassifier(opts ...TesseractOption) (*TesseractClassifier, error) {
	o := tesseractOptions{languages: []string{"eng"}, minScore: DefaultMinScore}
	for _, opt := range opts {
		opt(&o)
	}

	client := gosseract.NewClient()
	if o.tessdata != "" {
		if err := client.SetTessdataPrefix(o.tessdata); err != nil {
			client.Close()
			return nil, fmt.Errorf("设置训练数据目录失败: %w", err)
		}
	}
	if err := client.SetLanguage(o.languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("设置识别语言失败: %w", err)
	}
	if o.whitelist != "" {
		if err := client.SetWhitelist(o.whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("设置字符白名单失败: %w", err)
		}
	}
	if o.singleRow {
		if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
			client.Close()
			return nil, fmt.Errorf("设置分页模式失败: %w", err)
		}
	}

	return &TesseractClassifier{client: client, opts: o}, nil
}

func (r *TesseractClassifier) setImage(img image.Image) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	if err := r.client.SetImageFromBytes(data); err != nil {
		return fmt.Errorf("设置识别图像失败: %w", err)
	}
	return nil
}

// Classify 实现 finder.TextClassifier
func (r *TesseractClassifier) Classify(img image.Image) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.setImage(img); err != nil {
		return "", err
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR 识别失败: %w", err)
	}
	logger.Debug("Tesseract 识别结果: %q", text)
	return text, nil
}

// Recognize 按单词识别，返回置信度不低于下限的结果
func (r *TesseractClassifier) Recognize(img image.Image) ([]Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.setImage(img); err != nil {
		return nil, err
	}
	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR 识别失败: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		w := Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100,
			Rect:       box.Box,
		}
		if w.Confidence >= r.opts.minScore {
			words = append(words, w)
		}
	}
	return words, nil
}

// Close 释放资源
func (r *TesseractClassifier) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}
