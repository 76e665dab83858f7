// Package config 从环境变量（以及可选的 .env 文件）加载服务与 worker 的配置。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 汇总 HTTP 服务、worker 与各外部依赖的配置。
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Render   RenderConfig   `mapstructure:"render"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port         int   `mapstructure:"port"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// RenderConfig 配置渲染引擎。
type RenderConfig struct {
	ThemePath string `mapstructure:"theme_path"` // 为空时使用内置主题
	FontDir   string `mapstructure:"font_dir"`   // 主题中相对字体路径的基准目录
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// WorkerConfig 配置导出任务的消费。
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxRetry    int `mapstructure:"max_retry"`
}

// LogConfig 配置 slog 输出。
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr 返回 host:port 形式的 Redis 地址。
func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", r.Host, r.Port) }

// SlogLevel 解析日志级别，未知值按 info 处理。
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load 先加载 .env 文件（不覆盖已存在的环境变量），再从环境变量读取配置。
// 未指定 envFiles 时尝试当前目录下的 .env，文件不存在不视为错误。
func Load(envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad(envFiles ...string) *Config {
	cfg, err := Load(envFiles...)
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadDotEnv(files []string) error {
	explicit := len(files) > 0
	if !explicit {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				slog.Debug("no .env file found, using environment only")
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.max_body_bytes", 8<<20)
	v.SetDefault("render.theme_path", "")
	v.SetDefault("render.font_dir", ".")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "papyrus")
	v.SetDefault("database.user", "papyrus")
	v.SetDefault("database.password", "papyrus")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.max_retry", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                 "API_PORT",
		"api.max_body_bytes":       "API_MAX_BODY_BYTES",
		"render.theme_path":        "RENDER_THEME_PATH",
		"render.font_dir":          "RENDER_FONT_DIR",
		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.name":            "POSTGRES_DB",
		"database.user":            "POSTGRES_USER",
		"database.password":        "POSTGRES_PASSWORD",
		"database.sslmode":         "DATABASE_SSLMODE",
		"redis.host":               "REDIS_HOST",
		"redis.port":               "REDIS_PORT",
		"redis.password":           "REDIS_PASSWORD",
		"minio.endpoint":           "MINIO_ENDPOINT",
		"minio.access_key_id":      "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":  "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":            "MINIO_USE_SSL",
		"minio.bucket":             "MINIO_BUCKET",
		"minio.region":             "MINIO_REGION",
		"minio.auto_create_bucket": "MINIO_AUTO_CREATE_BUCKET",
		"worker.concurrency":       "WORKER_CONCURRENCY",
		"worker.max_retry":         "WORKER_MAX_RETRY",
		"log.level":                "LOG_LEVEL",
		"log.format":               "LOG_FORMAT",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.MaxBodyBytes <= 0 {
		return errors.New("api max body bytes must be positive")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.Worker.Concurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}
	if cfg.Worker.MaxRetry < 0 {
		return errors.New("worker max retry must not be negative")
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	return nil
}

// ValidateWorker 校验 worker 额外依赖的数据库与对象存储配置。
func (c *Config) ValidateWorker() error {
	if c.Database.Host == "" {
		return errors.New("database host is required")
	}
	if c.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if c.Database.Name == "" {
		return errors.New("database name is required")
	}
	if c.Database.User == "" {
		return errors.New("database user is required")
	}
	if c.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if c.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if c.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if c.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if c.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	return nil
}
