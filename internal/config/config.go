package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/journal-timeline/internal/logger"
)

type Config struct {
	JournalPath  string
	JournalDate  string // single-day mode when set
	JournalSheet string
	OutputDir    string
	RulesPath    string

	TelegramToken  string
	TelegramChatID string

	DB     DBConfig
	Redis  RedisConfig
	Logger LoggerConfig
}

type DBConfig struct {
	Driver   string // "", "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string
}

type RedisConfig struct {
	Host string
	Port string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

// SingleDay reports whether the run converts one sheet under a fixed date
func (c *Config) SingleDay() bool {
	return c.JournalDate != ""
}

// PersistenceEnabled reports whether day logs are stored in a database
func (c *Config) PersistenceEnabled() bool {
	return c.DB.Driver != ""
}

// RedisEnabled reports whether checkpoints are kept in Redis
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// Addr returns the Redis address in host:port form
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// NotifyEnabled reports whether a run summary is sent to Telegram
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

// ChatID parses the Telegram chat id
func (c *Config) ChatID() (int64, error) {
	id, err := strconv.ParseInt(c.TelegramChatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", c.TelegramChatID, err)
	}
	return id, nil
}

// Validate checks the resolved configuration
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.JournalPath) == "" {
		problems = append(problems, "journal path is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		problems = append(problems, "output directory is required")
	}
	if c.JournalDate != "" {
		if _, err := time.Parse("2006-01-02", c.JournalDate); err != nil {
			problems = append(problems, fmt.Sprintf("journal date %q is not YYYY-MM-DD", c.JournalDate))
		}
	}
	switch c.DB.Driver {
	case "", "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("unknown DB_DRIVER %q", c.DB.Driver))
	}
	if c.DB.Driver == "sqlite" && c.DB.Path == "" {
		problems = append(problems, "DB_PATH is required for sqlite")
	}
	if c.TelegramChatID != "" {
		if _, err := c.ChatID(); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	return &Config{
		JournalPath:    getEnvOrDefault("JOURNAL_PATH", "full_routine_journal.xlsx"),
		JournalDate:    os.Getenv("JOURNAL_DATE"),
		JournalSheet:   os.Getenv("JOURNAL_SHEET"),
		OutputDir:      getEnvOrDefault("OUTPUT_DIR", "dataset"),
		RulesPath:      os.Getenv("RULES_PATH"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		DB: DBConfig{
			Driver:   strings.ToLower(os.Getenv("DB_DRIVER")),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "journal"),
			Path:     getEnvOrDefault("DB_PATH", "journal.db"),
		},
		Redis: RedisConfig{
			Host: os.Getenv("REDIS_HOST"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}, nil
}
