package process

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestGetProcessByPIDSelf(t *testing.T) {
	pid := os.Getpid()

	info, err := GetProcessByPID(pid)
	if err != nil {
		t.Fatalf("获取当前进程失败: %v", err)
	}
	if info.PID != pid || info.Name == "" {
		t.Errorf("进程信息错误: %+v", info)
	}
	if !IsProcessRunning(pid) {
		t.Error("当前进程应在运行")
	}
}

func TestFindProcessSelf(t *testing.T) {
	self, err := GetProcessByPID(os.Getpid())
	if err != nil {
		t.Fatalf("获取当前进程失败: %v", err)
	}

	procs, err := FindProcess(self.Name)
	if err != nil {
		t.Fatalf("查找进程失败: %v", err)
	}
	found := false
	for _, p := range procs {
		if p.PID == self.PID {
			found = true
		}
	}
	if !found {
		t.Errorf("按名称 %q 应能找到当前进程", self.Name)
	}

	all, err := GetProcesses()
	if err != nil || len(all) < len(procs) {
		t.Errorf("全部进程数应不少于匹配数: %d < %d, %v", len(all), len(procs), err)
	}
}

func TestWaitForProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := WaitForProcess(ctx, "zoeyfinder-no-such-process", 10*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("应返回 DeadlineExceeded, 实际 %v", err)
	}
}

func TestLaunchAndKill(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("跳过: 需要 sleep 命令")
	}
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("跳过: 未找到 sleep 命令")
	}

	pid, err := Launch(context.Background(), "sleep", "30")
	if err != nil {
		t.Fatalf("启动失败: %v", err)
	}
	if !IsProcessRunning(pid) {
		t.Errorf("PID %d 应在运行", pid)
	}
	if err := Kill(pid); err != nil {
		t.Errorf("终止失败: %v", err)
	}
}

func TestLaunchMissingProgram(t *testing.T) {
	if _, err := Launch(context.Background(), "zoeyfinder-no-such-program"); err == nil {
		t.Error("程序不存在时应返回错误")
	}
}
