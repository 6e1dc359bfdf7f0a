package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Store   StoreConfig
	Session SessionConfig
	Vision  VisionConfig
	Log     LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	vision, err := loadVisionConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Store:   store,
		Session: session,
		Vision:  vision,
		Log:     logCfg,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":5000" 或 "127.0.0.1:5000"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// StoreConfig 描述日记数据库配置。
type StoreConfig struct {
	Path          string
	BusyTimeout   time.Duration
	RetryAttempts int
	RetryBase     time.Duration
}

func loadStoreConfig() (StoreConfig, error) {
	busy, err := parseIntEnv("JOURNAL_BUSY_TIMEOUT_MS", 30000)
	if err != nil {
		return StoreConfig{}, err
	}

	attempts, err := parseIntEnv("JOURNAL_RETRY_ATTEMPTS", 5)
	if err != nil {
		return StoreConfig{}, err
	}
	if attempts < 1 {
		attempts = 1
	}

	base, err := parseIntEnv("JOURNAL_RETRY_BASE_MS", 100)
	if err != nil {
		return StoreConfig{}, err
	}

	return StoreConfig{
		Path:          getEnvOrDefault("JOURNAL_DB_PATH", "journal.db"),
		BusyTimeout:   time.Duration(busy) * time.Millisecond,
		RetryAttempts: attempts,
		RetryBase:     time.Duration(base) * time.Millisecond,
	}, nil
}

// SessionConfig 描述会话 cookie 与会话缓存容量。
type SessionConfig struct {
	Capacity     int
	CookieName   string
	CookieSecure bool
}

func loadSessionConfig() (SessionConfig, error) {
	capacity, err := parseIntEnv("SESSION_CAPACITY", 1000)
	if err != nil {
		return SessionConfig{}, err
	}
	if capacity < 1 {
		return SessionConfig{}, fmt.Errorf("invalid SESSION_CAPACITY value %d: must be positive", capacity)
	}

	secure, err := parseBoolEnv("SESSION_COOKIE_SECURE", false)
	if err != nil {
		return SessionConfig{}, err
	}

	return SessionConfig{
		Capacity:     capacity,
		CookieName:   getEnvOrDefault("SESSION_COOKIE", "session_id"),
		CookieSecure: secure,
	}, nil
}

// VisionConfig 描述摄像头与视觉检测服务配置。
type VisionConfig struct {
	CameraURL       string
	DetectorURL     string
	FPS             int
	ExerciseSeconds int
	DetectEvery     int
	FrameWidth      int
	FrameHeight     int
}

// FrameInterval 返回两帧之间的间隔。
func (c VisionConfig) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 15
	}
	return time.Second / time.Duration(c.FPS)
}

func loadVisionConfig() (VisionConfig, error) {
	fps, err := parseIntEnv("VISION_FPS", 15)
	if err != nil {
		return VisionConfig{}, err
	}

	seconds, err := parseIntEnv("VISION_EXERCISE_SECONDS", 180)
	if err != nil {
		return VisionConfig{}, err
	}

	every, err := parseIntEnv("VISION_DETECT_EVERY", 3)
	if err != nil {
		return VisionConfig{}, err
	}
	if every < 1 {
		every = 1
	}

	width, err := parseIntEnv("VISION_FRAME_WIDTH", 640)
	if err != nil {
		return VisionConfig{}, err
	}

	height, err := parseIntEnv("VISION_FRAME_HEIGHT", 480)
	if err != nil {
		return VisionConfig{}, err
	}

	return VisionConfig{
		CameraURL:       strings.TrimSpace(os.Getenv("VISION_CAMERA_URL")),
		DetectorURL:     strings.TrimSpace(os.Getenv("VISION_DETECTOR_URL")),
		FPS:             fps,
		ExerciseSeconds: seconds,
		DetectEvery:     every,
		FrameWidth:      width,
		FrameHeight:     height,
	}, nil
}

// LogConfig 描述日志输出配置。
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func loadLogConfig() (LogConfig, error) {
	size, err := parseIntEnv("LOG_MAX_SIZE_MB", 100)
	if err != nil {
		return LogConfig{}, err
	}

	backups, err := parseIntEnv("LOG_MAX_BACKUPS", 30)
	if err != nil {
		return LogConfig{}, err
	}

	age, err := parseIntEnv("LOG_MAX_AGE_DAYS", 90)
	if err != nil {
		return LogConfig{}, err
	}

	return LogConfig{
		Level:      getEnvOrDefault("LOG_LEVEL", "info"),
		File:       strings.TrimSpace(os.Getenv("LOG_FILE")),
		MaxSizeMB:  size,
		MaxBackups: backups,
		MaxAgeDays: age,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	val, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return defaultValue, nil
	}
	return *val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
