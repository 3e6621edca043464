package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultGeofenceRadiusMeters matches the permissive radius the service historically shipped with.
// Deployments are expected to tighten it through GEOFENCE_RADIUS_METERS or the policy file.
const DefaultGeofenceRadiusMeters = 100000.0

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	JWTSecret     string
	GinMode       string
	Port          string
	LogLevel      string
	LogFormat     string

	// Attendance policy
	GeofenceRadiusMeters float64
	Timezone             string
	UpcomingLimit        int
}

// Policy is the optional YAML file referenced by POLICY_FILE.
type Policy struct {
	GeofenceRadiusMeters *float64 `yaml:"geofence_radius_meters"`
	Timezone             string   `yaml:"timezone"`
	UpcomingLimit        *int     `yaml:"upcoming_limit"`
}

// Load reads .env (if present), the optional policy file and the environment.
func Load() (*Config, error) {
	return LoadWithEnvFiles(".env", "../.env")
}

// LoadWithEnvFiles is Load with an explicit list of candidate env files. The first
// existing file is loaded; variables already set in the environment win.
func LoadWithEnvFiles(envFiles ...string) (*Config, error) {
	loadDotEnv(envFiles)

	cfg := &Config{
		DBDriver:      getEnv("DB_DRIVER", DriverMySQL),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "attendance"),
		DBPassword:    getEnv("DB_PASSWORD", "attendancepassword"),
		DBName:        getEnv("DB_NAME", "field_attendance"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		SQLitePath:    getEnv("SQLITE_PATH", "attendance.db"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		GinMode:       getEnv("GIN_MODE", "debug"),
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),

		GeofenceRadiusMeters: DefaultGeofenceRadiusMeters,
		Timezone:             "UTC",
		UpcomingLimit:        10,
	}

	if path := os.Getenv("POLICY_FILE"); path != "" {
		policy, err := LoadPolicy(path)
		if err != nil {
			return nil, err
		}
		cfg.applyPolicy(policy)
	}

	var err error
	if cfg.GeofenceRadiusMeters, err = getEnvFloat("GEOFENCE_RADIUS_METERS", cfg.GeofenceRadiusMeters); err != nil {
		return nil, err
	}
	cfg.Timezone = getEnv("ATTENDANCE_TIMEZONE", cfg.Timezone)
	if cfg.UpcomingLimit, err = getEnvInt("UPCOMING_LIMIT", cfg.UpcomingLimit); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadPolicy parses a YAML policy file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}
	return &policy, nil
}

func (c *Config) applyPolicy(p *Policy) {
	if p.GeofenceRadiusMeters != nil {
		c.GeofenceRadiusMeters = *p.GeofenceRadiusMeters
	}
	if p.Timezone != "" {
		c.Timezone = p.Timezone
	}
	if p.UpcomingLimit != nil {
		c.UpcomingLimit = *p.UpcomingLimit
	}
}

// Validate checks values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.GeofenceRadiusMeters <= 0 {
		return errors.New("geofence radius must be positive")
	}
	if c.UpcomingLimit <= 0 {
		return errors.New("upcoming limit must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured attendance timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func loadDotEnv(paths []string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
