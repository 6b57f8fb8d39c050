//go:build !darwin

package robot

// CheckPermissions 非 macOS 系统不需要特殊权限
func CheckPermissions() *PermissionStatus {
	return &PermissionStatus{
		Accessibility:   true,
		ScreenRecording: true,
		AllGranted:      true,
	}
}
