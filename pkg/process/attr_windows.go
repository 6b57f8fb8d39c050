package process

import (
	"os/exec"
	"syscall"
)

// detach 在 Windows 上隐藏 exec.Command 的 cmd 黑色窗口
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow: true,
	}
}
