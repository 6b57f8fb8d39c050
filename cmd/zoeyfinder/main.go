package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/zoeyai/zoeyfinder/internal/logger"
	"github.com/zoeyai/zoeyfinder/pkg/auto"
	"github.com/zoeyai/zoeyfinder/pkg/auto/robot"
	"github.com/zoeyai/zoeyfinder/pkg/config"
	"github.com/zoeyai/zoeyfinder/pkg/finder"
	"github.com/zoeyai/zoeyfinder/pkg/process"
	"github.com/zoeyai/zoeyfinder/pkg/repo"
	"github.com/zoeyai/zoeyfinder/pkg/vision"
	"github.com/zoeyai/zoeyfinder/pkg/vision/cv"
	"github.com/zoeyai/zoeyfinder/pkg/vision/ocr"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// flags 命令行参数
type flags struct {
	image      string
	template   string
	name       string
	mode       string
	level      uint
	score      float64
	colour     string
	text       string
	ocrEngine  string
	click      bool
	wait       bool
	launch     string
	configDir  string
	logLevel   string
	installOCR string
	version    bool
}

func parseFlags() *flags {
	f := &flags{}
	flag.StringVar(&f.image, "image", "", "在图像文件中查找 (默认截取屏幕)")
	flag.StringVar(&f.template, "template", "", "模板图像文件")
	flag.StringVar(&f.name, "name", "", "模板仓库中的模板名称")
	flag.StringVar(&f.mode, "mode", string(vision.ModeApprox), "匹配方式: approx|exact|threshold|score")
	flag.UintVar(&f.level, "level", 128, "threshold 匹配的灰度等级 (0-255)")
	flag.Float64Var(&f.score, "score", 0.8, "score 匹配的置信度下限 (0-1)")
	flag.StringVar(&f.colour, "colour", "", "按颜色查找连通区域: red|yellow|green|aqua|blue|purple|white")
	flag.StringVar(&f.text, "text", "", "只保留文字包含该内容的结果")
	flag.StringVar(&f.ocrEngine, "ocr", "tesseract", "文字识别引擎: tesseract|paddle")
	flag.BoolVar(&f.click, "click", false, "点击唯一的查找结果 (仅屏幕模式)")
	flag.BoolVar(&f.wait, "wait", false, "等待结果出现直到超时 (仅屏幕模式)")
	flag.StringVar(&f.launch, "launch", "", "查找前启动程序并等待其进程出现")
	flag.StringVar(&f.configDir, "config", "", "配置目录 (默认 ~/.zoeyfinder)")
	flag.StringVar(&f.logLevel, "log-level", "", "日志级别: DEBUG|INFO|WARN|ERROR")
	flag.StringVar(&f.installOCR, "install-ocr", "", "下载 PaddleOCR 模型到指定目录后退出")
	flag.BoolVar(&f.version, "version", false, "显示版本信息")
	flag.Usage = printHelp
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()
	if f.version {
		printVersion()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f); err != nil {
		logger.Error("%v", err)
		logger.Default().Close()
		os.Exit(1)
	}
	logger.Default().Close()
}

func run(ctx context.Context, f *flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	if f.installOCR != "" {
		return installOCR(ctx, f.installOCR)
	}

	if f.launch != "" {
		if err := launch(ctx, f.launch, cfg.GUI.PollInterval()); err != nil {
			return err
		}
	}

	fd, closeFinder, err := buildFinder(f, cfg)
	if err != nil {
		return err
	}
	defer closeFinder()

	start := time.Now()
	var locs finder.LocationList
	if f.image != "" {
		locs, err = findInImage(f.image, fd)
	} else {
		locs, err = findOnScreen(ctx, f, cfg, fd)
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	logger.LogEvent("CLI", err == nil && len(locs) > 0, elapsed, fmt.Sprintf("%v 找到 %d 处", fd, len(locs)))
	if err != nil {
		return err
	}

	for i, loc := range locs {
		p := loc.MainPoint()
		fmt.Printf("%d\t%d\t%d\t%d\t%d\t%d,%d\n", i, loc.X(), loc.Y(), loc.W(), loc.H(), p.X, p.Y)
	}
	return nil
}

func loadConfig(f *flags) (*config.Config, error) {
	m := config.GetDefaultManager()
	if f.configDir != "" {
		m = config.NewManagerWithDir(f.configDir)
	}
	cfg, err := m.Load()
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	level := cfg.Log.Level
	if f.logLevel != "" {
		level = f.logLevel
	}
	logger.SetLevel(logger.ParseLevel(level))
	if cfg.Log.File != "" {
		if err := logger.Default().SetFile(true, cfg.Log.File); err != nil {
			logger.Warn("打开日志文件失败: %v", err)
		}
	}
	logger.Debug("使用配置文件 %s", m.GetConfigFile())
	return cfg, nil
}

// buildFinder 根据参数构造查找器，返回的 close 释放文字识别引擎
func buildFinder(f *flags, cfg *config.Config) (finder.Finder, func(), error) {
	noop := func() {}

	var fd finder.Finder
	switch {
	case f.colour != "":
		filter, ok := cv.NamedColours[f.colour]
		if !ok {
			return nil, noop, &cv.ConfigurationError{Field: "colour", Reason: fmt.Sprintf("未知的颜色 %q", f.colour)}
		}
		fd = finder.NewColourRegionFinder(filter)
	case f.template != "" || f.name != "":
		tpl, err := loadTemplate(f, cfg)
		if err != nil {
			return nil, noop, err
		}
		mode, err := vision.ParseMode(f.mode)
		if err != nil {
			return nil, noop, err
		}
		if f.level > 255 {
			return nil, noop, &cv.ConfigurationError{Field: "level", Reason: fmt.Sprintf("灰度等级 %d 超出 0-255", f.level)}
		}
		fd, err = vision.NewTemplateFinder(tpl,
			vision.WithMode(mode),
			vision.WithLevel(uint8(f.level)),
			vision.WithScoreThreshold(f.score),
			vision.WithTolerance(cfg.Matching.Tolerance),
			vision.WithEdgeThreshold(cfg.Matching.EdgeThreshold))
		if err != nil {
			return nil, noop, err
		}
	default:
		return nil, noop, errors.New("需要 -template、-name 或 -colour 之一")
	}

	if f.text == "" {
		return fd, noop, nil
	}
	classifier, err := newClassifier(f.ocrEngine)
	if err != nil {
		return nil, noop, err
	}
	return finder.NewTextFinderFilter(fd, classifier, finder.TextContains(f.text)), func() { classifier.Close() }, nil
}

func loadTemplate(f *flags, cfg *config.Config) (image.Image, error) {
	if f.template != "" {
		return vision.LoadImage(f.template)
	}
	r, err := repo.NewDirectoryRepo(cfg.Repo.Dir)
	if err != nil {
		return nil, err
	}
	tpl, err := r.Get(f.name)
	if err != nil {
		return nil, err
	}
	return tpl.Image, nil
}

type closingClassifier interface {
	finder.TextClassifier
	Close() error
}

func newClassifier(engine string) (closingClassifier, error) {
	switch engine {
	case "tesseract":
		return ocr.NewTesseractClassifier(ocr.WithSingleLine())
	case "paddle":
		return ocr.NewPaddleClassifier(ocr.DefaultConfig())
	}
	return nil, &cv.ConfigurationError{Field: "ocr", Reason: fmt.Sprintf("未知的文字识别引擎 %q", engine)}
}

func findInImage(path string, fd finder.Finder) (finder.LocationList, error) {
	img, err := vision.LoadImage(path)
	if err != nil {
		return nil, err
	}
	root, err := finder.NewRootLocation(img, image.Point{})
	if err != nil {
		return nil, fmt.Errorf("创建根区域失败: %w", err)
	}
	return finder.FindAll(fd, root), nil
}

func findOnScreen(ctx context.Context, f *flags, cfg *config.Config, fd finder.Finder) (finder.LocationList, error) {
	backend, err := robot.NewBackend()
	if err != nil {
		return nil, err
	}
	gui := auto.NewGUI(backend, auto.FromConfig(cfg.GUI)...)
	defer gui.Close()

	switch {
	case f.click:
		loc, err := gui.WaitFindOne(ctx, fd)
		if err != nil {
			return nil, err
		}
		if err := gui.Click(ctx, finder.LocationList{loc}); err != nil {
			return nil, err
		}
		return finder.LocationList{loc}, nil
	case f.wait:
		return gui.WaitFindWithResultMatcher(ctx, fd, func(ll finder.LocationList) bool { return len(ll) > 0 })
	default:
		return gui.FindAll(fd)
	}
}

func launch(ctx context.Context, program string, poll time.Duration) error {
	if _, err := process.Launch(ctx, program); err != nil {
		return err
	}
	name := filepath.Base(program)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := process.WaitForProcess(ctx, name, poll); err != nil {
		return err
	}
	return nil
}

func installOCR(ctx context.Context, dir string) error {
	inst := ocr.NewInstaller(dir)
	if inst.Installed() {
		logger.Info("PaddleOCR 模型已安装在 %s", dir)
		return nil
	}
	last := -10.0
	return inst.Install(ctx, func(p float64) {
		if p-last >= 10 || p == 100 {
			last = p
			logger.Info("下载进度 %.0f%%", p)
		}
	})
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("zoeyfinder v%s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("zoeyfinder - 屏幕区域查找工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  zoeyfinder [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 在截图中查找模板")
	fmt.Println("  zoeyfinder -image screen.png -template ok.png -mode exact")
	fmt.Println()
	fmt.Println("  # 在屏幕上查找绿色区域")
	fmt.Println("  zoeyfinder -colour green")
	fmt.Println()
	fmt.Println("  # 等待模板仓库中的按钮出现并点击")
	fmt.Println("  zoeyfinder -name ok_button -click")
	fmt.Println()
	fmt.Println("输出每行: 序号 x y 宽 高 点击点")
	fmt.Printf("配置文件位置: %s\n", config.GetDefaultManager().GetConfigFile())
}
