package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pawnshop-ledger/internal/domain/errs"
)

type Config struct {
	AppPort  string
	LogLevel string

	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// empty disables the idempotency store and falls back to in-process locks
	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	StorageModeName string
	Remote          RemoteConfig

	MirrorTimeoutSecs int
	MirrorMaxAttempts int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment, picking up a .env file in the working
// directory when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		SQLitePath: getenv("SQLITE_PATH", "pawnshop.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "pawnshop"),
		MySQLUser: getenv("MYSQL_USER", "pawnshop"),
		MySQLPass: getenv("MYSQL_PASS", "pawnshop"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		StorageModeName: strings.ToLower(getenv("STORAGE_MODE", "local")),
		Remote: RemoteConfig{
			Provider:        strings.ToLower(getenv("MIRROR_PROVIDER", ProviderGitHub)),
			Owner:           os.Getenv("GITHUB_OWNER"),
			Repository:      os.Getenv("GITHUB_REPO"),
			Token:           os.Getenv("GITHUB_TOKEN"),
			Branch:          getenv("GITHUB_BRANCH", "main"),
			Bucket:          os.Getenv("GCS_BUCKET"),
			Prefix:          os.Getenv("GCS_PREFIX"),
			CredentialsJSON: os.Getenv("GCS_CREDENTIALS_JSON"),
		},

		MirrorTimeoutSecs: getenvInt("MIRROR_TIMEOUT_SECONDS", 10),
		MirrorMaxAttempts: getenvInt("MIRROR_MAX_ATTEMPTS", 3),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER %q (want sqlite or mysql)", c.DBDriver)
	}
	if c.MirrorMaxAttempts < 1 {
		return fmt.Errorf("invalid MIRROR_MAX_ATTEMPTS %d", c.MirrorMaxAttempts)
	}
	if c.MirrorTimeoutSecs < 1 {
		return fmt.Errorf("invalid MIRROR_TIMEOUT_SECONDS %d", c.MirrorTimeoutSecs)
	}
	return nil
}

// DSN returns the data source for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "mysql" {
		return c.MySQLDSN()
	}
	return c.SQLitePath
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; clientFoundRows makes RowsAffected
	// count matched rows so conditional updates can be checked
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8&clientFoundRows=true",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) MirrorTimeout() time.Duration {
	return time.Duration(c.MirrorTimeoutSecs) * time.Second
}

// StorageMode resolves STORAGE_MODE. A remote mode with incomplete settings
// comes back as LocalMode together with an ErrIncompleteRemote error, so
// the caller can keep serving locally and surface the problem on sync.
func (c *Config) StorageMode() (StorageMode, error) {
	switch c.StorageModeName {
	case "", "local":
		return LocalMode{}, nil
	case "remote":
		if err := c.Remote.Validate(); err != nil {
			return LocalMode{}, err
		}
		return RemoteMode{Remote: c.Remote}, nil
	default:
		return LocalMode{}, fmt.Errorf("%w: STORAGE_MODE %q", errs.ErrConfiguration, c.StorageModeName)
	}
}
