package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

// Config is built once at process entry and handed to the components that need it.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	Mail     MailConfig
	Ranking  RankingConfig
}

type ServerConfig struct {
	Port           string
	MainRoutes     string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string
}

type AuthConfig struct {
	Enabled       bool
	JWTSecret     string
	JWTExpiration time.Duration
}

type LogConfig struct {
	Level       string
	Development bool
}

// MailConfig holds mailbox and outbound SMTP settings for the mail reporter.
type MailConfig struct {
	User       string
	Password   string
	IMAPHost   string
	IMAPPort   int
	IMAPFolder string
	SMTPHost   string
	SMTPPort   int
	ReportTo   string
	FromName   string
}

// RankingConfig holds settings for the country ranking dashboard.
type RankingConfig struct {
	Port         string
	CachePath    string
	TopExport    string
	MinRows      int
	FetchTimeout time.Duration
}

// Load reads the optional env file and the process environment into a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		// a missing .env is fine, the environment may carry everything
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8000"),
			MainRoutes:     getEnv("MAIN_ROUTES", "/api"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", ""),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "stock_management"),
			Path:     getEnv("DB_PATH", "stock_management.db"),
		},
		Auth: AuthConfig{
			Enabled:       getEnvAsBool("AUTH_ENABLED", false),
			JWTSecret:     getEnv("JWT_SECRET", ""),
			JWTExpiration: time.Duration(getEnvAsInt("JWT_EXPIRATION", 86400)) * time.Second,
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Mail: MailConfig{
			User:       getEnv("EMAIL_USER", ""),
			Password:   getEnv("EMAIL_PASS", ""),
			IMAPHost:   getEnv("IMAP_HOST", ""),
			IMAPPort:   getEnvAsInt("IMAP_PORT", 993),
			IMAPFolder: getEnv("IMAP_FOLDER", "INBOX"),
			SMTPHost:   getEnv("SMTP_HOST", ""),
			SMTPPort:   getEnvAsInt("SMTP_PORT", 587),
			ReportTo:   getEnv("REPORT_TO", ""),
			FromName:   getEnv("REPORT_FROM_NAME", "Mail Reporter"),
		},
		Ranking: RankingConfig{
			Port:         getEnv("RANKING_PORT", "8501"),
			CachePath:    getEnv("RANKING_CACHE", "data/iq_by_country.csv"),
			TopExport:    getEnv("RANKING_TOP_EXPORT", "data/iq_top150.csv"),
			MinRows:      getEnvAsInt("RANKING_MIN_ROWS", 150),
			FetchTimeout: time.Duration(getEnvAsInt("RANKING_FETCH_TIMEOUT", 20)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every binary depends on. Mail settings are
// validated separately because a dry run never touches the network.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("APP_PORT must not be empty")
	}
	if !strings.HasPrefix(c.Server.MainRoutes, "/") {
		return fmt.Errorf("MAIN_ROUTES must start with '/', got %q", c.Server.MainRoutes)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("DB_PATH must be provided for the sqlite driver")
		}
	case "postgres", "mysql", "mssql":
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("DB_HOST and DB_NAME must be provided for the %s driver", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided when AUTH_ENABLED is true")
	}
	if c.Ranking.MinRows < 1 {
		return errors.New("RANKING_MIN_ROWS must be at least 1")
	}
	return nil
}

// Validate reports every required mail variable that is missing.
func (m MailConfig) Validate() error {
	var missing []string
	if m.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if m.Password == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if m.IMAPHost == "" {
		missing = append(missing, "IMAP_HOST")
	}
	if m.SMTPHost == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if m.ReportTo == "" {
		missing = append(missing, "REPORT_TO")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// SetupCORS answers preflight requests and echoes allowed origins.
func SetupCORS(app *fiber.App, origins []string) {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}

	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowed[origin] || allowed["*"] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}
