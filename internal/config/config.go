package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Supported rating store backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config captures all runtime configuration. Values come from defaults, then
// an optional TOML file, then environment variables.
type Config struct {
	TMDBAPIKey      string `toml:"tmdb_api_key"`
	TMDBBaseURL     string `toml:"tmdb_base_url"`
	TMDBLanguage    string `toml:"tmdb_language"`
	TMDBTimeoutSecs int    `toml:"tmdb_timeout_secs"`
	TMDBRateLimit   int    `toml:"tmdb_rate_limit"`
	TMDBRateBurst   int    `toml:"tmdb_rate_burst"`

	DBDriver          string `toml:"db_driver"`
	DBPath            string `toml:"db_path"`
	DBURL             string `toml:"db_url"`
	DBMaxConns        int    `toml:"db_max_conns"`
	DBMinConns        int    `toml:"db_min_conns"`
	DBMaxIdleSecs     int    `toml:"db_max_conn_idle_secs"`
	DBMaxLifeSecs     int    `toml:"db_max_conn_lifetime_secs"`
	DBConnTimeoutSecs int    `toml:"db_conn_timeout_secs"`
	DBStatementCache  int    `toml:"db_statement_cache_capacity"`

	Port             string `toml:"port"`
	ReadTimeoutSecs  int    `toml:"server_read_timeout"`
	WriteTimeoutSecs int    `toml:"server_write_timeout"`
	IdleTimeoutSecs  int    `toml:"server_idle_timeout"`

	LogFile       string `toml:"log_file"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
	LogMaxAgeDays int    `toml:"log_max_age_days"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		TMDBBaseURL:       "https://api.themoviedb.org/3",
		TMDBTimeoutSecs:   10,
		TMDBRateLimit:     20,
		TMDBRateBurst:     5,
		DBDriver:          DriverSQLite,
		DBPath:            "movie_recommendation.db",
		DBMaxConns:        10,
		DBMinConns:        1,
		DBMaxIdleSecs:     300,
		DBMaxLifeSecs:     3600,
		DBConnTimeoutSecs: 10,
		DBStatementCache:  256,
		Port:              "8080",
		ReadTimeoutSecs:   15,
		WriteTimeoutSecs:  15,
		IdleTimeoutSecs:   60,
		LogMaxSizeMB:      10,
		LogMaxBackups:     3,
		LogMaxAgeDays:     28,
	}
}

// Load reads configuration from the environment. The TOML file named by
// MOVIES_CONFIG, if any, is applied first.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path (or MOVIES_CONFIG when path is
// empty), then applies environment overrides and validation. A .env file in
// the working directory is loaded into the environment when present.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("MOVIES_CONFIG")
	}
	if path = strings.TrimSpace(path); path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(payload, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.TMDBAPIKey = getEnv("TMDB_API_KEY", c.TMDBAPIKey)
	c.TMDBBaseURL = getEnv("TMDB_BASE_URL", c.TMDBBaseURL)
	c.TMDBLanguage = getEnv("TMDB_LANGUAGE", c.TMDBLanguage)
	c.TMDBTimeoutSecs = getEnvInt("TMDB_TIMEOUT_SECS", c.TMDBTimeoutSecs)
	c.TMDBRateLimit = getEnvInt("TMDB_RATE_LIMIT", c.TMDBRateLimit)
	c.TMDBRateBurst = getEnvInt("TMDB_RATE_BURST", c.TMDBRateBurst)

	c.DBDriver = strings.ToLower(getEnv("DB_DRIVER", c.DBDriver))
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.DBURL = getEnv("DB_URL", c.DBURL)
	c.DBMaxConns = getEnvInt("DB_MAX_CONNS", c.DBMaxConns)
	c.DBMinConns = getEnvInt("DB_MIN_CONNS", c.DBMinConns)
	c.DBMaxIdleSecs = getEnvInt("DB_MAX_CONN_IDLE_SECS", c.DBMaxIdleSecs)
	c.DBMaxLifeSecs = getEnvInt("DB_MAX_CONN_LIFETIME_SECS", c.DBMaxLifeSecs)
	c.DBConnTimeoutSecs = getEnvInt("DB_CONN_TIMEOUT_SECS", c.DBConnTimeoutSecs)
	c.DBStatementCache = getEnvInt("DB_STATEMENT_CACHE_CAPACITY", c.DBStatementCache)

	c.Port = getEnv("PORT", c.Port)
	c.ReadTimeoutSecs = getEnvInt("SERVER_READ_TIMEOUT", c.ReadTimeoutSecs)
	c.WriteTimeoutSecs = getEnvInt("SERVER_WRITE_TIMEOUT", c.WriteTimeoutSecs)
	c.IdleTimeoutSecs = getEnvInt("SERVER_IDLE_TIMEOUT", c.IdleTimeoutSecs)

	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.LogMaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", c.LogMaxSizeMB)
	c.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.LogMaxBackups)
	c.LogMaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", c.LogMaxAgeDays)
}

// Validate checks cross-field constraints. The TMDB API key is not required
// here because rating-only commands never contact the provider.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TMDBBaseURL) == "" {
		return fmt.Errorf("TMDB_BASE_URL is required")
	}
	if c.TMDBTimeoutSecs <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT_SECS must be positive")
	}
	if c.TMDBRateLimit <= 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must be positive")
	}
	if c.TMDBRateBurst <= 0 {
		return fmt.Errorf("TMDB_RATE_BURST must be positive")
	}

	switch c.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DBURL) == "" {
			return fmt.Errorf("DB_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if c.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	if c.LogMaxSizeMB <= 0 {
		return fmt.Errorf("LOG_MAX_SIZE_MB must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
