package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	AI       AIConfig       `mapstructure:"ai"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type QueueConfig struct {
	AnalysisQueue string `mapstructure:"analysis_queue"`
	MaxWorkers    int    `mapstructure:"max_workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type AIConfig struct {
	APIKey         string `mapstructure:"api_key"`         // 为空时跳过 AI 说明生成，使用兜底文案
	BaseURL        string `mapstructure:"base_url"`        // 为空时使用官方端点；自建网关/代理时覆盖
	Model          string `mapstructure:"model"`           // OpenAI 模型名
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // 单次请求超时
	ChunkMaxLength int    `mapstructure:"chunk_max_length"`
}

type RealtimeConfig struct {
	SnapshotIntervalSeconds int `mapstructure:"snapshot_interval_seconds"`
	SnapshotMetricCount     int `mapstructure:"snapshot_metric_count"`
}

type CleanupConfig struct {
	MetricRetentionDays    int `mapstructure:"metric_retention_days"`
	StuckJobTimeoutMinutes int `mapstructure:"stuck_job_timeout_minutes"`
}

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	// 检查 config.local.yaml 是否存在
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 环境变量覆盖
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Queue.AnalysisQueue == "" {
		cfg.Queue.AnalysisQueue = "ai_analysis_jobs"
	}
	if cfg.Queue.MaxWorkers <= 0 {
		cfg.Queue.MaxWorkers = 4
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		cfg.AI.TimeoutSeconds = 30
	}
	if cfg.AI.ChunkMaxLength <= 0 {
		cfg.AI.ChunkMaxLength = 512
	}
	if cfg.Realtime.SnapshotIntervalSeconds <= 0 {
		cfg.Realtime.SnapshotIntervalSeconds = 5
	}
	if cfg.Realtime.SnapshotMetricCount <= 0 {
		cfg.Realtime.SnapshotMetricCount = 10
	}
	if cfg.Cleanup.MetricRetentionDays <= 0 {
		cfg.Cleanup.MetricRetentionDays = 30
	}
	if cfg.Cleanup.StuckJobTimeoutMinutes <= 0 {
		cfg.Cleanup.StuckJobTimeoutMinutes = 30
	}
}
