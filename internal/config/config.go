package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	TokenStrategyJWT    = "jwt"
	TokenStrategyPaseto = "paseto"

	HashBcrypt   = "bcrypt"
	HashArgon2id = "argon2id"

	// DefaultJWTSecret is only accepted outside production.
	DefaultJWTSecret = "your-secret-key"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins
	TrustProxy      bool     // honor X-Forwarded-* headers
}

type DatabaseConfig struct {
	Driver      string // postgres or memory
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TodoTTL  time.Duration
}

type AuthConfig struct {
	TokenStrategy       string
	JWTSecret           []byte
	PasetoKey           []byte // must be 32 bytes for v4.local
	Issuer              string
	Audience            string
	AccessTokenDuration time.Duration
	HashAlgorithm       string
	BcryptCost          int
}

// Load reads configuration from environment variables, after merging a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:3000"}),
			TrustProxy:      getBoolEnv("TRUST_PROXY", false),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", DriverPostgres),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "todos"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			TodoTTL:  getDurationEnv("REDIS_TODO_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			TokenStrategy:       getEnv("AUTH_TOKEN_STRATEGY", TokenStrategyJWT),
			JWTSecret:           []byte(getEnv("JWT_SECRET", "")),
			PasetoKey:           []byte(getEnv("PASETO_KEY", "")),
			Issuer:              getEnv("TOKEN_ISSUER", "taskmanager"),
			Audience:            getEnv("TOKEN_AUDIENCE", "api"),
			AccessTokenDuration: getDurationEnv("ACCESS_TOKEN_DURATION", 15*time.Minute),
			HashAlgorithm:       getEnv("PASSWORD_HASH_ALGORITHM", HashBcrypt),
			BcryptCost:          getIntEnv("BCRYPT_COST", 10),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Database.Driver)
	}

	switch c.Auth.HashAlgorithm {
	case HashBcrypt, HashArgon2id:
	default:
		return fmt.Errorf("PASSWORD_HASH_ALGORITHM must be %q or %q, got %q", HashBcrypt, HashArgon2id, c.Auth.HashAlgorithm)
	}

	switch c.Auth.TokenStrategy {
	case TokenStrategyJWT:
		if len(c.Auth.JWTSecret) == 0 {
			if !c.Server.IsDevelopment() {
				return fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", c.Server.Env)
			}
			c.Auth.JWTSecret = []byte(DefaultJWTSecret)
		}
	case TokenStrategyPaseto:
		// PASETO v4.local needs exactly 32 bytes
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	default:
		return fmt.Errorf("AUTH_TOKEN_STRATEGY must be %q or %q, got %q", TokenStrategyJWT, TokenStrategyPaseto, c.Auth.TokenStrategy)
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// getDurationEnv reads a whole number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
