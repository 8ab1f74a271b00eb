// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Report   ReportConfig
	Export   ExportConfig
	Client   ClientConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

type ReportConfig struct {
	GroupsFile string
}

type ExportConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

// Enabled reports whether an object store is configured for report exports.
func (e ExportConfig) Enabled() bool {
	return e.Endpoint != "" && e.Bucket != ""
}

type ClientConfig struct {
	APIBase        string
	TimeoutSeconds int
}

// LogConfig enables an additional rotated JSON log file when File is set.
type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_DRIVER", "postgres")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "vaxstock")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("DB_PATH", "./data/vaxstock.db")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_REPORT_TTL_SECONDS", 60)
		viper.SetDefault("GROUPS_FILE", "")
		viper.SetDefault("EXPORT_ENDPOINT", "")
		viper.SetDefault("EXPORT_REGION", "us-east-1")
		viper.SetDefault("EXPORT_USE_SSL", true)
		viper.SetDefault("EXPORT_PREFIX", "reports/")
		viper.SetDefault("VAXSTOCK_API_BASE", "http://localhost:8080")
		viper.SetDefault("VAXSTOCK_API_TIMEOUT_SECONDS", 30)
		viper.SetDefault("LOG_FILE", "")
		viper.SetDefault("LOG_MAX_SIZE_MB", 50)
		viper.SetDefault("LOG_MAX_BACKUPS", 5)
		viper.SetDefault("LOG_MAX_AGE_DAYS", 30)
		viper.SetDefault("LOG_COMPRESS", true)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the SQLite data directory exists
		if viper.GetString("DB_DRIVER") == "sqlite3" {
			ensureDir(filepath.Dir(viper.GetString("DB_PATH")))
		}

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Driver:   viper.GetString("DB_DRIVER"),
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
				Path:     viper.GetString("DB_PATH"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ReportTTLSeconds: viper.GetInt("CACHE_REPORT_TTL_SECONDS"),
			},
			Report: ReportConfig{
				GroupsFile: viper.GetString("GROUPS_FILE"),
			},
			Export: ExportConfig{
				Endpoint:  viper.GetString("EXPORT_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_BUCKET"),
				Region:    viper.GetString("EXPORT_REGION"),
				UseSSL:    viper.GetBool("EXPORT_USE_SSL"),
				Prefix:    viper.GetString("EXPORT_PREFIX"),
			},
			Client: ClientConfig{
				APIBase:        viper.GetString("VAXSTOCK_API_BASE"),
				TimeoutSeconds: viper.GetInt("VAXSTOCK_API_TIMEOUT_SECONDS"),
			},
			Log: LogConfig{
				File:       viper.GetString("LOG_FILE"),
				MaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
				MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
				MaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
				Compress:   viper.GetBool("LOG_COMPRESS"),
			},
		}
	})

	return instance
}

// DSN builds the connection string for the configured driver. lib/pq
// and pgx share the URL form; sqlite3 takes a file path.
func (c DatabaseConfig) DSN() (string, error) {
	switch c.Driver {
	case "postgres", "pgx":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     net.JoinHostPort(c.Host, c.Port),
			Path:     "/" + c.DBName,
			RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
		}
		return u.String(), nil
	case "sqlite3":
		return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", c.Path), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
