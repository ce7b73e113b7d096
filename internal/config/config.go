package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL = "http://localhost:8000/api"
	DefaultTimeout    = 30 * time.Second
	appDirName        = "FinSoft"
)

// Storage drivers для локального хранилища клиента.
const (
	StorageFS     = "fs"
	StorageSQLite = "sqlite"
	StorageBolt   = "bolt"
	StorageMemory = "memory"
)

type Config struct {
	// Client-side settings
	APIBaseURL    string        `env:"API_BASE_URL"`
	APITimeout    time.Duration `env:"API_TIMEOUT"`
	APIRateLimit  float64       `env:"API_RATE_LIMIT"` // запросов в секунду, 0 = без ограничения
	StorageDriver string        `env:"STORAGE_DRIVER"`
	StoragePath   string        `env:"STORAGE_PATH"`
	StorageSeal   bool          `env:"STORAGE_SEAL"`
	MetricsAddr   string        `env:"METRICS_ADDR"`
	Version       bool          `env:"-"` // show client version and exit (flag only)

	// Shared settings
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	// Server-side settings
	ServerAddr      string        `env:"SERVER_ADDR"`
	DatabaseDSN     string        `env:"DATABASE_URI"`
	AuthSecret      string        `env:"AUTH_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL"`
	SeedRecords     int           `env:"SEED_RECORDS"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги перекрывают значения из env
	// Client flags
	flag.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "base URL of the business API, e.g. http://localhost:8000/api")
	flag.DurationVar(&cfg.APITimeout, "timeout", cfg.APITimeout, "таймаут одного HTTP-запроса")
	flag.Float64Var(&cfg.APIRateLimit, "rate", cfg.APIRateLimit, "ограничение запросов в секунду (0 = без ограничения)")
	flag.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "local storage driver: fs|sqlite|bolt|memory")
	flag.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "каталог локального хранилища")
	flag.BoolVar(&cfg.StorageSeal, "seal", cfg.StorageSeal, "шифровать сохраняемые значения")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "address to expose client metrics on while a command runs")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")
	// Shared flags
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "console|json")
	// Server flags
	flag.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "адрес dev-сервера host:port")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.IntVar(&cfg.SeedRecords, "seed", cfg.SeedRecords, "сколько демо-записей создать на ресурс")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = DefaultTimeout
	}
	if cfg.APIRateLimit < 0 {
		cfg.APIRateLimit = 0
	}
	switch cfg.StorageDriver {
	case StorageFS, StorageSQLite, StorageBolt, StorageMemory:
	default:
		cfg.StorageDriver = StorageFS
	}
	if cfg.StoragePath == "" {
		dir, err := os.UserConfigDir()
		if err != nil || dir == "" {
			dir = os.TempDir()
		}
		cfg.StoragePath = filepath.Join(dir, appDirName)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}

	if cfg.ServerAddr == "" {
		cfg.ServerAddr = "localhost:8000"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.SeedRecords < 0 {
		cfg.SeedRecords = 0
	}
}
