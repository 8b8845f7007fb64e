package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Renderer    RendererConfig
	Storage     StorageConfig
	Notifier    NotifierConfig
	Retry       RetryConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Idempotency IdempotencyConfig
}

type AppConfig struct {
	Name           string
	Env            string
	Port           string
	Debug          bool
	Runtime        string // "local" or "lambda"
	AssetsDir      string
	LetterheadPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type RendererConfig struct {
	Type          string // "chrome" or "html"
	ExecPath      string
	RemoteURL     string
	MaxConcurrent int64
	LoadTimeout   time.Duration
}

type StorageConfig struct {
	Path         string
	Backend      string // "tmpfiles" or "s3"
	UploadURL    string
	DownloadBase string
	S3Bucket     string
	S3Prefix     string
	S3Region     string
	S3URLExpiry  time.Duration
}

type NotifierConfig struct {
	Type              string // "twilio" or "log"
	AccountSID        string
	AuthToken         string
	From              string
	Channel           string
	Body              string
	StrictDestination bool
}

type RetryConfig struct {
	RenderAttempts int
	UploadAttempts int
	NotifyAttempts int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Env:            viper.GetString("APP_ENV"),
			Port:           viper.GetString("APP_PORT"),
			Debug:          viper.GetBool("APP_DEBUG"),
			Runtime:        viper.GetString("APP_RUNTIME"),
			AssetsDir:      viper.GetString("ASSETS_DIR"),
			LetterheadPath: viper.GetString("LETTERHEAD_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Renderer: RendererConfig{
			Type:          viper.GetString("RENDERER_TYPE"),
			ExecPath:      viper.GetString("RENDERER_EXEC_PATH"),
			RemoteURL:     viper.GetString("RENDERER_REMOTE_URL"),
			MaxConcurrent: viper.GetInt64("RENDERER_MAX_CONCURRENT"),
			LoadTimeout:   time.Duration(viper.GetInt("RENDERER_LOAD_TIMEOUT_SECONDS")) * time.Second,
		},
		Storage: StorageConfig{
			Path:         viper.GetString("STORAGE_PATH"),
			Backend:      viper.GetString("STORAGE_BACKEND"),
			UploadURL:    viper.GetString("STORAGE_UPLOAD_URL"),
			DownloadBase: viper.GetString("STORAGE_DOWNLOAD_BASE"),
			S3Bucket:     viper.GetString("STORAGE_S3_BUCKET"),
			S3Prefix:     viper.GetString("STORAGE_S3_PREFIX"),
			S3Region:     viper.GetString("AWS_REGION"),
			S3URLExpiry:  time.Duration(viper.GetInt("STORAGE_S3_URL_EXPIRY_HOURS")) * time.Hour,
		},
		Notifier: NotifierConfig{
			Type:              viper.GetString("NOTIFIER_TYPE"),
			AccountSID:        viper.GetString("ACCOUNT_SID"),
			AuthToken:         viper.GetString("AUTH_TOKEN"),
			From:              viper.GetString("NOTIFIER_FROM"),
			Channel:           viper.GetString("NOTIFIER_CHANNEL"),
			Body:              viper.GetString("NOTIFIER_BODY"),
			StrictDestination: viper.GetBool("NOTIFIER_STRICT_DESTINATION"),
		},
		Retry: RetryConfig{
			RenderAttempts: viper.GetInt("RETRY_RENDER_ATTEMPTS"),
			UploadAttempts: viper.GetInt("RETRY_UPLOAD_ATTEMPTS"),
			NotifyAttempts: viper.GetInt("RETRY_NOTIFY_ATTEMPTS"),
			InitialBackoff: time.Duration(viper.GetInt("RETRY_INITIAL_BACKOFF_MS")) * time.Millisecond,
			MaxBackoff:     time.Duration(viper.GetInt("RETRY_MAX_BACKOFF_MS")) * time.Millisecond,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Idempotency: IdempotencyConfig{
			Enabled: viper.GetBool("IDEMPOTENCY_ENABLED"),
			TTL:     time.Duration(viper.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "receipt-relay")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "3000")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_RUNTIME", "local")
	viper.SetDefault("ASSETS_DIR", "./asset")
	viper.SetDefault("LETTERHEAD_PATH", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "receipts")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("RENDERER_TYPE", "chrome")
	viper.SetDefault("RENDERER_MAX_CONCURRENT", 4)
	viper.SetDefault("RENDERER_LOAD_TIMEOUT_SECONDS", 30)
	viper.SetDefault("STORAGE_PATH", "./generatedPdf")
	viper.SetDefault("STORAGE_BACKEND", "tmpfiles")
	viper.SetDefault("STORAGE_UPLOAD_URL", "https://tmpfiles.org/api/v1/upload")
	viper.SetDefault("STORAGE_DOWNLOAD_BASE", "https://tmpfiles.org")
	viper.SetDefault("STORAGE_S3_PREFIX", "receipts/")
	viper.SetDefault("STORAGE_S3_URL_EXPIRY_HOURS", 168)
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("NOTIFIER_TYPE", "twilio")
	viper.SetDefault("NOTIFIER_FROM", "whatsapp:+14155238886")
	viper.SetDefault("NOTIFIER_CHANNEL", "whatsapp")
	viper.SetDefault("NOTIFIER_BODY", "Here is your PDF receipt!")
	viper.SetDefault("NOTIFIER_STRICT_DESTINATION", false)
	viper.SetDefault("RETRY_RENDER_ATTEMPTS", 1)
	viper.SetDefault("RETRY_UPLOAD_ATTEMPTS", 1)
	viper.SetDefault("RETRY_NOTIFY_ATTEMPTS", 1)
	viper.SetDefault("RETRY_INITIAL_BACKOFF_MS", 250)
	viper.SetDefault("RETRY_MAX_BACKOFF_MS", 4000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 30)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("IDEMPOTENCY_ENABLED", false)
	viper.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
