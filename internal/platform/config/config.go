package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"paygen/internal/domain/payroll"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Addr              string
	Environment       string
	StorageDriver     string
	DatabaseURL       string
	SQLitePath        string
	PayslipDir        string
	RoundingMode      string
	CalcTier2         bool
	JWTSecret         string
	AdminEmail        string
	AdminPassword     string
	DataEncryptionKey string
	MetricsEnabled    bool
}

func Load() Config {
	// A missing .env file is fine; real environment variables win.
	_ = godotenv.Load()

	return Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		Environment:       getEnv("APP_ENV", "development"),
		StorageDriver:     getEnv("STORAGE_DRIVER", DriverSQLite),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "storage/paygen.db"),
		PayslipDir:        getEnv("PAYSLIP_DIR", "storage/payslips"),
		RoundingMode:      getEnv("ROUNDING_MODE", string(payroll.RoundNearest)),
		CalcTier2:         getEnvBool("CALC_TIER2", true),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		DataEncryptionKey: getEnv("DATA_ENCRYPTION_KEY", ""),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required with the sqlite driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required with the postgres driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", DriverSQLite, DriverPostgres)
	}

	if !payroll.RoundingMode(c.RoundingMode).Valid() {
		return payroll.ErrInvalidRounding
	}
	if strings.TrimSpace(c.PayslipDir) == "" {
		return fmt.Errorf("PAYSLIP_DIR is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.AdminPassword) == "" {
			return fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
	}
	return nil
}

// Options builds the calculation options the server uses by default.
// Callers may override both knobs per request.
func (c Config) Options() payroll.Options {
	return payroll.Options{
		Rounding:  payroll.RoundingMode(c.RoundingMode),
		CalcTier2: c.CalcTier2,
	}
}
