package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         int    `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	AutoMigrate    bool   `mapstructure:"AUTO_MIGRATE"`

	JWTSecret          string `mapstructure:"JWT_SECRET"`
	AccessTokenMinutes int    `mapstructure:"ACCESS_TOKEN_MINUTES"`
	RefreshTokenHours  int    `mapstructure:"REFRESH_TOKEN_HOURS"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeCurrency      string `mapstructure:"STRIPE_CURRENCY"`
	ClientURL           string `mapstructure:"CLIENT_URL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	StorageDriver     string `mapstructure:"STORAGE_DRIVER"`
	UploadDir         string `mapstructure:"UPLOAD_DIR"`
	PublicBaseURL     string `mapstructure:"PUBLIC_BASE_URL"`
	MaxUploadBytes    int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3Bucket          string `mapstructure:"S3_BUCKET"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL   string `mapstructure:"S3_PUBLIC_BASE_URL"`

	UnderfundedCron string `mapstructure:"UNDERFUNDED_CRON"`
	CronTimezone    string `mapstructure:"CRON_TIMEZONE"`

	CORSOrigins     string `mapstructure:"CORS_ORIGINS"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`
}

var AppConfig Config

var defaults = map[string]any{
	"APP_PORT":  "8000",
	"ENV":       "development",
	"LOG_LEVEL": "info",

	"DB_HOST":           "localhost",
	"DB_PORT":           5432,
	"DB_USER":           "postgres",
	"DB_PASSWORD":       "",
	"DB_NAME":           "wishfund",
	"DB_SSLMODE":        "disable",
	"DB_MAX_OPEN_CONNS": 25,
	"AUTO_MIGRATE":      false,

	"JWT_SECRET":           "",
	"ACCESS_TOKEN_MINUTES": 60,
	"REFRESH_TOKEN_HOURS":  720,

	"STRIPE_SECRET_KEY":     "",
	"STRIPE_WEBHOOK_SECRET": "",
	"STRIPE_CURRENCY":       "usd",
	"CLIENT_URL":            "http://localhost:3000",

	"SMTP_HOST":     "",
	"SMTP_PORT":     587,
	"SMTP_USER":     "",
	"SMTP_PASSWORD": "",
	"SMTP_FROM":     "",

	"STORAGE_DRIVER":       "local",
	"UPLOAD_DIR":           "uploads",
	"PUBLIC_BASE_URL":      "http://localhost:8000",
	"MAX_UPLOAD_BYTES":     5 << 20,
	"S3_ENDPOINT":          "",
	"S3_BUCKET":            "",
	"S3_REGION":            "auto",
	"S3_ACCESS_KEY_ID":     "",
	"S3_SECRET_ACCESS_KEY": "",
	"S3_PUBLIC_BASE_URL":   "",

	"UNDERFUNDED_CRON": "0 0 * * *",
	"CRON_TIMEZONE":    "UTC",

	"CORS_ORIGINS":       "http://localhost:3000",
	"RATE_LIMIT_PER_MIN": 120,
}

// LoadConfig reads an optional .env file, then the process environment, into AppConfig.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)
	AppConfig = cfg
	return cfg, nil
}

// DSN returns the lib/pq connection string for the configured database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Origins splits CORS_ORIGINS into the comma separated form fiber's cors middleware expects.
func (c Config) Origins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}
