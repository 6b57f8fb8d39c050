// Package process 提供被测应用的进程查找、启动和终止
package process

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/zoeyai/zoeyfinder/internal/logger"
)

// ProcessInfo 进程信息
type ProcessInfo struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	Path string `json:"path"`
}

func info(proc *process.Process) ProcessInfo {
	name, _ := proc.Name()
	exe, _ := proc.Exe()
	return ProcessInfo{PID: int(proc.Pid), Name: name, Path: exe}
}

// list 遍历全部进程，保留 keep 返回 true 的
func list(ctx context.Context, keep func(name string) bool) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	var out []ProcessInfo
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if keep != nil && !keep(name) {
			continue
		}
		out = append(out, info(proc))
	}
	return out, nil
}

// GetProcesses 获取所有进程
func GetProcesses() ([]ProcessInfo, error) {
	return list(context.Background(), nil)
}

// FindProcess 按名称查找进程 (不区分大小写，支持部分匹配)
func FindProcess(name string) ([]ProcessInfo, error) {
	name = strings.ToLower(name)
	return list(context.Background(), func(procName string) bool {
		return strings.Contains(strings.ToLower(procName), name)
	})
}

// GetProcessByPID 按 PID 获取进程信息
func GetProcessByPID(pid int) (*ProcessInfo, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("进程不存在: PID=%d", pid)
	}
	pi := info(proc)
	return &pi, nil
}

// IsProcessRunning 检查进程是否正在运行
func IsProcessRunning(pid int) bool {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	running, err := proc.IsRunning()
	if err != nil {
		return false
	}
	return running
}

// Kill 终止进程
func Kill(pid int) error {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return fmt.Errorf("进程不存在: PID=%d", pid)
	}
	if err := proc.Kill(); err != nil {
		return fmt.Errorf("终止进程 %d 失败: %w", pid, err)
	}
	logger.Info("已终止进程 %d", pid)
	return nil
}

// Launch 启动程序并返回 PID，不等待其退出
//
// 子进程脱离当前进程组，ctx 只控制启动过程。
func Launch(ctx context.Context, name string, args ...string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cmd := exec.Command(name, args...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("启动 %s 失败: %w", name, err)
	}
	pid := cmd.Process.Pid

	// 回收子进程，避免僵尸进程
	go func() {
		_ = cmd.Wait()
	}()

	logger.Info("已启动 %s (PID=%d)", name, pid)
	return pid, nil
}

// WaitForProcess 轮询直到出现名称匹配的进程
func WaitForProcess(ctx context.Context, name string, poll time.Duration) ([]ProcessInfo, error) {
	if poll <= 0 {
		poll = 200 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		procs, err := FindProcess(name)
		if err != nil {
			return nil, err
		}
		if len(procs) > 0 {
			return procs, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("等待进程 %s 失败: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}
