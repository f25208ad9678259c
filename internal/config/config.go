package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StagingInline    = "inline"
	StagingDisk      = "disk"
	StagingS3        = "s3"
	StagingReplicate = "replicate"
)

type Config struct {
	Server    ServerConfig
	Replicate ReplicateConfig
	Staging   StagingConfig
	S3        S3Config
	App       AppConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	LogLevel  string
}

type ServerConfig struct {
	Host               string
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
}

type ReplicateConfig struct {
	APIToken          string
	Model             string
	BaseURL           string
	GenerationTimeout time.Duration
}

type StagingConfig struct {
	Backend        string
	Dir            string
	PublicBaseURL  string
	ReleaseTimeout time.Duration
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
	Prefix          string
	PresignTTL      time.Duration
}

type AppConfig struct {
	MaxUploadSize  int64
	MaxPixels      int64
	AllowedFormats []string
}

type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 150*time.Second)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("REPLICATE_MODEL", "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b")
	v.SetDefault("REPLICATE_BASE_URL", "")
	v.SetDefault("GENERATION_TIMEOUT", 120*time.Second)
	v.SetDefault("STAGING_BACKEND", StagingInline)
	v.SetDefault("STAGING_DIR", "./uploads/staged")
	v.SetDefault("STAGING_PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("STAGING_RELEASE_TIMEOUT", 10*time.Second)
	v.SetDefault("S3_ENDPOINT", "localhost:9000")
	v.SetDefault("S3_ACCESS_KEY_ID", "minioadmin")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "minioadmin")
	v.SetDefault("S3_USE_SSL", false)
	v.SetDefault("S3_BUCKET_NAME", "staged-images")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PREFIX", "staged/")
	v.SetDefault("S3_PRESIGN_TTL", 15*time.Minute)
	v.SetDefault("APP_MAX_UPLOAD_SIZE", 5*1024*1024) // 5MB
	v.SetDefault("APP_MAX_PIXELS", 4096*4096)
	v.SetDefault("APP_ALLOWED_FORMATS", []string{"image/png", "image/jpeg", "image/webp"})
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 10)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:               v.GetString("SERVER_HOST"),
			Port:               v.GetString("SERVER_PORT"),
			ReadTimeout:        v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:       v.GetDuration("SERVER_WRITE_TIMEOUT"),
			CORSAllowedOrigins: stringList(v, "CORS_ALLOWED_ORIGINS"),
		},
		Replicate: ReplicateConfig{
			APIToken:          v.GetString("REPLICATE_API_TOKEN"),
			Model:             v.GetString("REPLICATE_MODEL"),
			BaseURL:           v.GetString("REPLICATE_BASE_URL"),
			GenerationTimeout: v.GetDuration("GENERATION_TIMEOUT"),
		},
		Staging: StagingConfig{
			Backend:        v.GetString("STAGING_BACKEND"),
			Dir:            v.GetString("STAGING_DIR"),
			PublicBaseURL:  v.GetString("STAGING_PUBLIC_BASE_URL"),
			ReleaseTimeout: v.GetDuration("STAGING_RELEASE_TIMEOUT"),
		},
		S3: S3Config{
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			UseSSL:          v.GetBool("S3_USE_SSL"),
			BucketName:      v.GetString("S3_BUCKET_NAME"),
			Region:          v.GetString("S3_REGION"),
			Prefix:          v.GetString("S3_PREFIX"),
			PresignTTL:      v.GetDuration("S3_PRESIGN_TTL"),
		},
		App: AppConfig{
			MaxUploadSize:  v.GetInt64("APP_MAX_UPLOAD_SIZE"),
			MaxPixels:      v.GetInt64("APP_MAX_PIXELS"),
			AllowedFormats: stringList(v, "APP_ALLOWED_FORMATS"),
		},
		RateLimit: RateLimitConfig{
			Enabled:   v.GetBool("RATE_LIMIT_ENABLED"),
			PerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := createDirs(cfg); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Replicate.APIToken == "" {
		return fmt.Errorf("REPLICATE_API_TOKEN is required")
	}
	if c.Replicate.Model == "" {
		return fmt.Errorf("REPLICATE_MODEL is required")
	}

	switch c.Staging.Backend {
	case StagingInline, StagingDisk, StagingS3, StagingReplicate:
	default:
		return fmt.Errorf("unknown STAGING_BACKEND %q", c.Staging.Backend)
	}

	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf("APP_MAX_UPLOAD_SIZE must be positive")
	}
	if c.App.MaxPixels < 0 {
		return fmt.Errorf("APP_MAX_PIXELS must not be negative")
	}
	if c.RateLimit.Enabled && c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive when rate limiting is enabled")
	}

	return nil
}

// stringList reads a list setting. Environment values may separate items
// with commas as well as whitespace.
func stringList(v *viper.Viper, key string) []string {
	var out []string
	for _, field := range v.GetStringSlice(key) {
		for _, item := range strings.Split(field, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func createDirs(cfg *Config) error {
	if cfg.Staging.Backend != StagingDisk {
		return nil
	}

	if err := os.MkdirAll(cfg.Staging.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", cfg.Staging.Dir, err)
	}

	return nil
}
