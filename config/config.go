package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is read once at start and passed explicitly to every component.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Mail     MailConfig     `mapstructure:"mail"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Invoice  InvoiceConfig  `mapstructure:"invoice"`
	Backup   BackupConfig   `mapstructure:"backup"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // development, production
}

type ServerConfig struct {
	Port            string          `mapstructure:"port"`
	CORSOrigin      string          `mapstructure:"cors_origin"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"` // Requests per second
	Burst   int     `mapstructure:"burst"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, mysql, sqlite, memory
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	// InsecurePasswordReset keeps the email-only password reset endpoint.
	InsecurePasswordReset bool `mapstructure:"insecure_password_reset"`
}

// AdminConfig holds the seeded admin account and where admin alerts go.
type AdminConfig struct {
	Email       string `mapstructure:"email"`
	Name        string `mapstructure:"name"`
	Password    string `mapstructure:"password"`
	Phone       string `mapstructure:"phone"`
	NotifyEmail string `mapstructure:"notify_email"`
}

// AlertEmail is the address admin emails are sent to.
func (a AdminConfig) AlertEmail() string {
	if a.NotifyEmail != "" {
		return a.NotifyEmail
	}
	return a.Email
}

type MailConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether enough is configured to reach an SMTP server.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Username != ""
}

type SMSConfig struct {
	AccountSID  string        `mapstructure:"account_sid"`
	AuthToken   string        `mapstructure:"auth_token"`
	From        string        `mapstructure:"from"`
	CountryCode string        `mapstructure:"country_code"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (s SMSConfig) Enabled() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.From != ""
}

type StorageConfig struct {
	Backend    string `mapstructure:"backend"` // local, gcs
	UploadDir  string `mapstructure:"upload_dir"`
	PublicPath string `mapstructure:"public_path"`
	GCSBucket  string `mapstructure:"gcs_bucket"`
}

type InvoiceConfig struct {
	Dir       string `mapstructure:"dir"`
	StoreName string `mapstructure:"store_name"`
}

type BackupConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Dir       string        `mapstructure:"dir"`
	Hour      int           `mapstructure:"hour"`
	Minute    int           `mapstructure:"minute"`
	Retention time.Duration `mapstructure:"retention"`
}

// AllowedOrigins splits the comma separated CORS origin list. Nil means any
// origin, which is what an empty value or "*" asks for.
func (s ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSOrigin, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			return nil
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// legacyEnv maps config keys to the environment names deployments already use.
var legacyEnv = map[string]string{
	"database.url":       "DATABASE_URL",
	"database.driver":    "DB_DRIVER",
	"server.port":        "PORT",
	"server.cors_origin": "CORS_ORIGIN",
	"auth.jwt_secret":    "JWT_SECRET",
	"admin.email":        "ADMIN_EMAIL",
	"admin.name":         "ADMIN_NAME",
	"admin.password":     "ADMIN_PASSWORD",
	"admin.phone":        "ADMIN_PHONE",
	"admin.notify_email": "ADMIN_NOTIFY_EMAIL",
	"mail.host":          "EMAIL_HOST",
	"mail.port":          "EMAIL_PORT",
	"mail.username":      "EMAIL_USER",
	"mail.password":      "EMAIL_PASS",
	"mail.from":          "EMAIL_FROM",
	"sms.account_sid":    "TWILIO_SID",
	"sms.auth_token":     "TWILIO_AUTH_TOKEN",
	"sms.from":           "TWILIO_PHONE",
	"log.level":          "LOG_LEVEL",
	"storage.backend":    "UPLOAD_BACKEND",
	"storage.gcs_bucket": "GCS_BUCKET",
}

// Load reads config.yaml (optional), then SVM_* variables and the legacy names.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SVM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		// SVM_* wins over the legacy name when both are set.
		prefixed := "SVM_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for driver %q", c.Database.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	switch c.Storage.Backend {
	case "local":
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return errors.New("storage.gcs_bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "svm-mobiles")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", "5000")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rate", 5)
	v.SetDefault("server.rate_limit.burst", 20)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.slow_threshold", "200ms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/app.log")

	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.insecure_password_reset", true)

	v.SetDefault("admin.name", "Admin")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.timeout", "15s")

	v.SetDefault("sms.country_code", "+91")
	v.SetDefault("sms.timeout", "15s")

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("storage.public_path", "/uploads")

	v.SetDefault("invoice.dir", "invoices")
	v.SetDefault("invoice.store_name", "Sri Vaari Mobiles")

	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.dir", "backup")
	v.SetDefault("backup.hour", 2)
	v.SetDefault("backup.minute", 0)
	v.SetDefault("backup.retention", "96h")
}
