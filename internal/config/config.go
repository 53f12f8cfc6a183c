package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	S3      S3Config
	OCR     OCRConfig
	Pay     PayConfig
	Email   EmailConfig
	CORS    CORSConfig
	Log     LogConfig
	Billing BillingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// OCRConfig holds layout parsing API settings.
type OCRConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	Token       string `mapstructure:"token"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// PayConfig holds payment gateway settings.
type PayConfig struct {
	NotifySeed   string  `mapstructure:"notify_seed"`
	QRBaseURL    string  `mapstructure:"qr_base_url"`
	PricePerPage float64 `mapstructure:"price_per_page"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BillingConfig holds page balance settings.
type BillingConfig struct {
	SignupFreePages int `mapstructure:"signup_free_pages"`
}

// Load reads configuration from environment variables with the DRAWBOOK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DRAWBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "drawbook")
	v.SetDefault("db.password", "drawbook_secret")
	v.SetDefault("db.name", "drawbook_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "drawbook")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "drawbook-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.public_base_url", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// OCR defaults
	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.token", "")
	v.SetDefault("ocr.timeout_secs", 300)

	// Pay defaults
	v.SetDefault("pay.notify_seed", "")
	v.SetDefault("pay.qr_base_url", "")
	v.SetDefault("pay.price_per_page", 0.1)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@drawbook.app")
	v.SetDefault("email.from_name", "Drawbook")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Billing defaults
	v.SetDefault("billing.signup_free_pages", 10)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "DRAWBOOK_SERVER_PORT",
		"server.read_timeout":       "DRAWBOOK_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "DRAWBOOK_SERVER_WRITE_TIMEOUT",
		"server.environment":        "DRAWBOOK_SERVER_ENVIRONMENT",
		"db.host":                   "DRAWBOOK_DB_HOST",
		"db.port":                   "DRAWBOOK_DB_PORT",
		"db.user":                   "DRAWBOOK_DB_USER",
		"db.password":               "DRAWBOOK_DB_PASSWORD",
		"db.name":                   "DRAWBOOK_DB_NAME",
		"db.sslmode":                "DRAWBOOK_DB_SSLMODE",
		"db.max_open":               "DRAWBOOK_DB_MAX_OPEN",
		"db.max_idle":               "DRAWBOOK_DB_MAX_IDLE",
		"jwt.secret":                "DRAWBOOK_JWT_SECRET",
		"jwt.access_expiry":         "DRAWBOOK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":        "DRAWBOOK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                "DRAWBOOK_JWT_ISSUER",
		"s3.region":                 "DRAWBOOK_S3_REGION",
		"s3.bucket":                 "DRAWBOOK_S3_BUCKET",
		"s3.endpoint":               "DRAWBOOK_S3_ENDPOINT",
		"s3.access_key":             "DRAWBOOK_S3_ACCESS_KEY",
		"s3.secret_key":             "DRAWBOOK_S3_SECRET_KEY",
		"s3.public_base_url":        "DRAWBOOK_S3_PUBLIC_BASE_URL",
		"s3.max_file_size_mb":       "DRAWBOOK_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":         "DRAWBOOK_S3_PRESIGN_EXPIRY",
		"ocr.endpoint":              "DRAWBOOK_OCR_ENDPOINT",
		"ocr.token":                 "DRAWBOOK_OCR_TOKEN",
		"ocr.timeout_secs":          "DRAWBOOK_OCR_TIMEOUT_SECS",
		"pay.notify_seed":           "DRAWBOOK_PAY_NOTIFY_SEED",
		"pay.qr_base_url":           "DRAWBOOK_PAY_QR_BASE_URL",
		"pay.price_per_page":        "DRAWBOOK_PAY_PRICE_PER_PAGE",
		"email.provider":            "DRAWBOOK_EMAIL_PROVIDER",
		"email.region":              "DRAWBOOK_EMAIL_REGION",
		"email.from_address":        "DRAWBOOK_EMAIL_FROM_ADDRESS",
		"email.from_name":           "DRAWBOOK_EMAIL_FROM_NAME",
		"cors.allowed_origins":      "DRAWBOOK_CORS_ALLOWED_ORIGINS",
		"log.level":                 "DRAWBOOK_LOG_LEVEL",
		"log.format":                "DRAWBOOK_LOG_FORMAT",
		"billing.signup_free_pages": "DRAWBOOK_BILLING_SIGNUP_FREE_PAGES",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DRAWBOOK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DRAWBOOK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PublicBaseURL: v.GetString("s3.public_base_url"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.OCR = OCRConfig{
		Endpoint:    v.GetString("ocr.endpoint"),
		Token:       v.GetString("ocr.token"),
		TimeoutSecs: v.GetInt("ocr.timeout_secs"),
	}
	cfg.Pay = PayConfig{
		NotifySeed:   v.GetString("pay.notify_seed"),
		QRBaseURL:    v.GetString("pay.qr_base_url"),
		PricePerPage: v.GetFloat64("pay.price_per_page"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Billing = BillingConfig{
		SignupFreePages: v.GetInt("billing.signup_free_pages"),
	}

	return cfg, nil
}
