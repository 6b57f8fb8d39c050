//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// detach 让子进程使用独立进程组，不随当前进程收到的信号退出
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
