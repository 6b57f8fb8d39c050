package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		"Error":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, 期望 %v", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.SetLevel(WARN)

	l.Info("不应输出 %d", 1)
	l.Warn("应该输出 %d", 2)

	out := buf.String()
	if strings.Contains(out, "不应输出") {
		t.Errorf("INFO 日志不应出现: %q", out)
	}
	if !strings.Contains(out, "应该输出 2") {
		t.Errorf("WARN 日志缺失: %q", out)
	}
}

func TestDisabled(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.SetEnabled(false)
	l.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("禁用后仍有输出: %q", buf.String())
	}
}

func TestLogEvent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.LogEvent("FIND", true, 12.34, "找到 2 个位置")
	l.LogEvent("FIND", false, 5, "超时")

	out := buf.String()
	for _, want := range []string{"category=FIND", "status=OK", "status=NG", "12.3ms", "超时"} {
		if !strings.Contains(out, want) {
			t.Errorf("输出缺少 %q: %q", want, out)
		}
	}
}

func TestSetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finder.log")

	l := NewWithWriter(&bytes.Buffer{})
	l.SetConsole(false)
	if err := l.SetFile(true, path); err != nil {
		t.Fatalf("SetFile 失败: %v", err)
	}
	l.Info("写入文件")
	if err := l.Close(); err != nil {
		t.Fatalf("Close 失败: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "写入文件") {
		t.Errorf("日志文件内容不正确: %q", data)
	}
}
