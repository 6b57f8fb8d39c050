package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zoeyai/zoeyfinder/internal/logger"
)

// DefaultModelRepo PaddleOCR 模型和 ONNX Runtime 的下载地址
const DefaultModelRepo = "https://huggingface.co/getcharzp/go-ocr/resolve/main"

// Installer 把 PaddleOCR 运行所需文件下载到本地目录
//
// 目录结构与 DefaultConfig 查找的 models 目录一致:
//
//	lib/onnxruntime_<arch>.<so|dylib>  (Windows 为 lib/onnxruntime.dll)
//	paddle_weights/det.onnx
//	paddle_weights/rec.onnx
//	paddle_weights/dict.txt
type Installer struct {
	dir    string
	repo   string
	client *http.Client
	goos   string
	goarch string
}

// InstallerOption 安装器选项
type InstallerOption func(*Installer)

// WithModelRepo 替换下载地址
func WithModelRepo(url string) InstallerOption {
	return func(i *Installer) {
		i.repo = url
	}
}

// WithHTTPClient 替换 HTTP 客户端
func WithHTTPClient(c *http.Client) InstallerOption {
	return func(i *Installer) {
		i.client = c
	}
}

// NewInstaller 创建安装器，dir 为空时使用 models
func NewInstaller(dir string, opts ...InstallerOption) *Installer {
	if dir == "" {
		dir = "models"
	}
	i := &Installer{
		dir:    dir,
		repo:   DefaultModelRepo,
		client: http.DefaultClient,
		goos:   runtime.GOOS,
		goarch: runtime.GOARCH,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

type modelFile struct {
	name string // 相对 dir 和 repo 的路径
	size int64  // 预估大小，仅用于进度
}

func (i *Installer) runtimeLib() string {
	switch i.goos {
	case "windows":
		return "lib/onnxruntime.dll"
	case "darwin":
		return "lib/onnxruntime_" + i.goarch + ".dylib"
	default:
		return "lib/onnxruntime_" + i.goarch + ".so"
	}
}

func (i *Installer) files() []modelFile {
	return []modelFile{
		{name: i.runtimeLib(), size: 50 << 20},
		{name: "paddle_weights/det.onnx", size: 3 << 20},
		{name: "paddle_weights/rec.onnx", size: 5 << 20},
		{name: "paddle_weights/dict.txt", size: 200 << 10},
	}
}

func (i *Installer) path(name string) string {
	return filepath.Join(i.dir, filepath.FromSlash(name))
}

// Config 安装目录对应的识别配置
func (i *Installer) Config() Config {
	return Config{
		OnnxRuntimeLibPath: i.path(i.runtimeLib()),
		DetModelPath:       i.path("paddle_weights/det.onnx"),
		RecModelPath:       i.path("paddle_weights/rec.onnx"),
		DictPath:           i.path("paddle_weights/dict.txt"),
		MinScore:           DefaultMinScore,
	}
}

// Installed 所需文件是否都已存在
func (i *Installer) Installed() bool {
	return i.Config().Available()
}

// Install 下载缺失的文件，onProgress 接收 0-100 的进度，可为 nil
func (i *Installer) Install(ctx context.Context, onProgress func(float64)) error {
	files := i.files()
	var total, done int64
	for _, f := range files {
		total += f.size
	}
	report := func(n int64) {
		if onProgress != nil {
			onProgress(min(float64(done+n)/float64(total)*100, 100))
		}
	}

	for _, f := range files {
		dest := i.path(f.name)
		if fileExists(dest) {
			logger.Debug("已存在，跳过 %s", dest)
			done += f.size
			report(0)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("创建目录失败: %w", err)
		}
		if err := i.download(ctx, i.repo+"/"+f.name, dest, report); err != nil {
			return fmt.Errorf("下载 %s 失败: %w", f.name, err)
		}
		logger.Info("已下载 %s", dest)
		done += f.size
	}

	if onProgress != nil {
		onProgress(100)
	}
	return nil
}

// Uninstall 删除安装目录
func (i *Installer) Uninstall() error {
	return os.RemoveAll(i.dir)
}

// progressWriter 统计写入字节数
type progressWriter struct {
	n      int64
	report func(int64)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	w.report(w.n)
	return len(p), nil
}

// download 先写临时文件，完成后重命名
func (i *Installer) download(ctx context.Context, url, dest string, report func(int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(io.MultiWriter(out, &progressWriter{report: report}), resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
