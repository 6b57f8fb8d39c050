package robot

import "strings"

// PermissionStatus 权限状态
type PermissionStatus struct {
	Accessibility   bool `json:"accessibility"`
	ScreenRecording bool `json:"screen_recording"`
	AllGranted      bool `json:"all_granted"`
}

// Instructions 缺少权限时的授权说明
func (s *PermissionStatus) Instructions() string {
	if s.AllGranted {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("需要授权以下权限才能正常工作:\n\n")
	if !s.Accessibility {
		sb.WriteString("1. 辅助功能权限 (用于控制鼠标/键盘)\n")
		sb.WriteString("   系统设置 > 隐私与安全性 > 辅助功能\n\n")
	}
	if !s.ScreenRecording {
		sb.WriteString("2. 屏幕录制权限 (用于截屏和图像识别)\n")
		sb.WriteString("   系统设置 > 隐私与安全性 > 屏幕录制\n\n")
	}
	sb.WriteString("授权后需要重启应用才能生效。")
	return sb.String()
}
