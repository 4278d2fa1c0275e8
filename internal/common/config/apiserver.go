package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type (
	// APIServerConfig is the root configuration for the approval API server
	APIServerConfig struct {
		Server     ServerConfig     `yaml:"server"`
		Database   DatabaseConfig   `yaml:"database"`
		Redis      RedisConfig      `yaml:"redis"`
		JWT        JWTConfig        `yaml:"jwt"`
		Approval   ApprovalConfig   `yaml:"approval"`
		Mailer     MailerConfig     `yaml:"mailer"`
		Logger     LoggerConfig     `yaml:"logger"`
		Metrics    MetricsConfig    `yaml:"metrics"`
		SuperAdmin SuperAdminConfig `yaml:"super_admin"`
	}

	// ServerConfig represents the HTTP server configuration
	ServerConfig struct {
		Port           int           `yaml:"port"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // postgres, mysql, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 5432 (for postgres), 3306 (for mysql)
		User     string `yaml:"user"`     // postgres (for postgres), root (for mysql)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}

	// RedisConfig represents the redis connection used by the consumed-token ledger
	RedisConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	}

	// JWTConfig represents the session-signing configuration
	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// ApprovalConfig represents the approval token and Phase-2 gate configuration
	ApprovalConfig struct {
		// Secret signs approval tokens. Independent from the JWT secret so
		// rotating admin sessions does not invalidate outstanding invite links.
		Secret string `yaml:"secret"`
		// PublicBaseURL is the customer-facing origin embedded in approval links
		PublicBaseURL string `yaml:"public_base_url"`
		// SingleUse enables the consumed-token ledger: a link grants entry once
		SingleUse bool `yaml:"single_use"`
		// LedgerType selects the ledger backend: memory or redis
		LedgerType string `yaml:"ledger_type"`
		// SessionDuration bounds the wizard session issued at Phase-2 entry
		SessionDuration time.Duration `yaml:"session_duration"`
	}

	// MailerConfig represents the transactional email provider configuration
	MailerConfig struct {
		Enabled bool          `yaml:"enabled"`
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		From    string        `yaml:"from"`
		Timeout time.Duration `yaml:"timeout"`
	}

	// MetricsConfig represents the prometheus metrics configuration
	MetricsConfig struct {
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}
)

func (c *APIServerConfig) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5236
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 10 * time.Second
	}
	if c.JWT.Duration <= 0 {
		c.JWT.Duration = 24 * time.Hour
	}
	if c.Approval.SessionDuration <= 0 {
		c.Approval.SessionDuration = 2 * time.Hour
	}
	if c.Approval.LedgerType == "" {
		c.Approval.LedgerType = "memory"
	}
	if c.Mailer.Timeout <= 0 {
		c.Mailer.Timeout = 15 * time.Second
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "roam"
	}
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return c.getPostgresDSN()
	case "mysql":
		return c.getMySQLDSN()
	case "sqlite":
		// Ensure the directory for the SQLite database exists.
		if err := os.MkdirAll(filepath.Dir(c.DBName), 0755); err != nil {
			panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
		}
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getMySQLDSN returns MySQL connection string
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
