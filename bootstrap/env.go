package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Env struct {
	AppEnv         string `mapstructure:"APP_ENV"`
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	ContextTimeout int    `mapstructure:"CONTEXT_TIMEOUT"` // 秒
	MaxUploadMB    int64  `mapstructure:"MAX_UPLOAD_MB"`

	MongoURI          string `mapstructure:"MONGO_URI"`
	DBName            string `mapstructure:"DB_NAME"`
	MongoRebuildIndex bool   `mapstructure:"MONGO_REBUILD_INDEXES"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	CacheTTL          int    `mapstructure:"CACHE_TTL"` // 秒

	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	MediaFolder         string `mapstructure:"MEDIA_FOLDER"`
	MediaCallTimeout    int    `mapstructure:"MEDIA_CALL_TIMEOUT"` // 秒

	ClerkJWTSecret string `mapstructure:"CLERK_JWT_SECRET"`
	ClerkIssuer    string `mapstructure:"CLERK_ISSUER"`
	ClerkSecretKey string `mapstructure:"CLERK_SECRET_KEY"`
	ClerkAPIURL    string `mapstructure:"CLERK_API_URL"`
	AdminEmails    string `mapstructure:"ADMIN_EMAILS"` // 逗号分隔

	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFile       string `mapstructure:"LOG_FILE"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`

	RateLimitPerSecond float64 `mapstructure:"RATE_LIMIT_PER_SECOND"`
	RateLimitBurst     int     `mapstructure:"RATE_LIMIT_BURST"`
}

var envKeys = []string{
	"APP_ENV", "SERVER_ADDRESS", "CONTEXT_TIMEOUT", "MAX_UPLOAD_MB",
	"MONGO_URI", "DB_NAME", "MONGO_REBUILD_INDEXES",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
	"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET", "MEDIA_FOLDER", "MEDIA_CALL_TIMEOUT",
	"CLERK_JWT_SECRET", "CLERK_ISSUER", "CLERK_SECRET_KEY", "CLERK_API_URL", "ADMIN_EMAILS",
	"LOG_LEVEL", "LOG_FILE", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS",
	"RATE_LIMIT_PER_SECOND", "RATE_LIMIT_BURST",
}

// NewEnv 读取 .env，环境变量优先
func NewEnv() (*Env, error) {
	return LoadEnv(".env")
}

func LoadEnv(path string) (*Env, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// Unmarshal 只识别已知键，环境变量需要逐个绑定
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// .env 可选，部署环境只用环境变量
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	env := &Env{}
	if err := v.Unmarshal(env); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_ADDRESS", ":5000")
	v.SetDefault("CONTEXT_TIMEOUT", 30)
	v.SetDefault("MAX_UPLOAD_MB", 50)
	v.SetDefault("DB_NAME", "listny")
	v.SetDefault("CACHE_TTL", 300)
	v.SetDefault("MEDIA_FOLDER", "listny")
	v.SetDefault("MEDIA_CALL_TIMEOUT", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
	v.SetDefault("RATE_LIMIT_PER_SECOND", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
}

// Validate 启动前检查必填项
func (e *Env) Validate() error {
	var problems []string
	if e.MongoURI == "" {
		problems = append(problems, "MONGO_URI is required")
	}
	if e.ContextTimeout <= 0 {
		problems = append(problems, "CONTEXT_TIMEOUT must be positive")
	}
	if e.CloudinaryCloudName == "" || e.CloudinaryAPIKey == "" || e.CloudinaryAPISecret == "" {
		problems = append(problems, "CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	if e.ClerkSecretKey == "" && e.ClerkJWTSecret == "" {
		problems = append(problems, "CLERK_SECRET_KEY or CLERK_JWT_SECRET is required")
	}
	if e.ClerkSecretKey == "" && e.ClerkJWTSecret != "" && e.IsProduction() {
		problems = append(problems, "CLERK_JWT_SECRET is for local development only")
	}
	if len(e.AdminEmailList()) == 0 {
		problems = append(problems, "ADMIN_EMAILS is required")
	}
	if e.RateLimitPerSecond <= 0 || e.RateLimitBurst <= 0 {
		problems = append(problems, "RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (e *Env) IsProduction() bool {
	return strings.EqualFold(e.AppEnv, "production")
}

func (e *Env) Timeout() time.Duration {
	return time.Duration(e.ContextTimeout) * time.Second
}

func (e *Env) CacheExpiry() time.Duration {
	return time.Duration(e.CacheTTL) * time.Second
}

func (e *Env) MediaTimeout() time.Duration {
	return time.Duration(e.MediaCallTimeout) * time.Second
}

func (e *Env) MaxUploadBytes() int64 {
	return e.MaxUploadMB << 20
}

func (e *Env) AdminEmailList() []string {
	var emails []string
	for _, addr := range strings.Split(e.AdminEmails, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			emails = append(emails, addr)
		}
	}
	return emails
}
