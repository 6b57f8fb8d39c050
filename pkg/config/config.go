// Package config 管理查找器和 GUI 的本地配置文件
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GUIConfig GUI 等待与鼠标相关配置
type GUIConfig struct {
	TimeoutMs      int  `json:"timeout_ms"`
	PollIntervalMs int  `json:"poll_interval_ms"`
	MouseWarping   bool `json:"mouse_warping"`
}

// Timeout 返回超时时间
func (g GUIConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutMs) * time.Millisecond
}

// PollInterval 返回轮询间隔
func (g GUIConfig) PollInterval() time.Duration {
	return time.Duration(g.PollIntervalMs) * time.Millisecond
}

// MatchingConfig 模板匹配配置
type MatchingConfig struct {
	// Tolerance 卷积匹配的像素计数容差
	Tolerance float64 `json:"tolerance"`
	// EdgeThreshold 边缘二值化阈值
	EdgeThreshold int `json:"edge_threshold"`
}

// RepoConfig 模板仓库配置
type RepoConfig struct {
	Dir string `json:"dir"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Config 完整配置
type Config struct {
	GUI      GUIConfig      `json:"gui"`
	Matching MatchingConfig `json:"matching"`
	Repo     RepoConfig     `json:"repo"`
	Log      LogConfig      `json:"log"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		GUI: GUIConfig{
			TimeoutMs:      30000,
			PollIntervalMs: 200,
			MouseWarping:   true,
		},
		Matching: MatchingConfig{
			Tolerance:     0.5,
			EdgeThreshold: 10,
		},
		Repo: RepoConfig{
			Dir: "templates",
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return NewManagerWithDir(filepath.Join(homeDir, ".zoeyfinder"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// ensureDir 确保配置目录存在
func (m *Manager) ensureDir() error {
	return os.MkdirAll(m.configDir, 0755)
}

// Load 加载配置，缺失字段使用默认值
func (m *Manager) Load() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Save 保存配置
func (m *Manager) Save(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureDir(); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if c.GUI.TimeoutMs < 0 {
		return fmt.Errorf("无效的超时时间: %d", c.GUI.TimeoutMs)
	}
	if c.GUI.PollIntervalMs <= 0 {
		return fmt.Errorf("无效的轮询间隔: %d", c.GUI.PollIntervalMs)
	}
	if c.Matching.Tolerance <= 0 {
		return fmt.Errorf("无效的匹配容差: %v", c.Matching.Tolerance)
	}
	if c.Matching.EdgeThreshold < 0 || c.Matching.EdgeThreshold > 255 {
		return fmt.Errorf("无效的边缘阈值: %d", c.Matching.EdgeThreshold)
	}
	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(m.configFile)
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// 全局配置管理器
var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}

// Load 使用默认管理器加载配置
func Load() (*Config, error) {
	return defaultManager.Load()
}

// Save 使用默认管理器保存配置
func Save(config *Config) error {
	return defaultManager.Save(config)
}

// Clear 使用默认管理器清除配置
func Clear() error {
	return defaultManager.Clear()
}
