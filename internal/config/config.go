package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Logger     LoggerConfig
	Database   DatabaseConfig
	GRPC       GRPCConfig
	Remote     RemoteConfig
	Repository RepositoryConfig
}

type LoggerConfig struct {
	Env string
}

type DatabaseConfig struct {
	Host     string
	Name     string
	User     string
	Password string
	Port     int
}

type GRPCConfig struct {
	Port int
}

// RemoteConfig covers both sides of the remote tasks service: the client
// dials Addr, the server keeps its tasks in Store.
type RemoteConfig struct {
	Addr     string
	Timeout  time.Duration
	Store    string
	RedisURL string
}

type RepositoryConfig struct {
	StrictRemoteErrors bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		Logger: LoggerConfig{
			Env: getEnv("LOGGER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Name:     getEnv("POSTGRES_DB", "todo"),
			User:     getEnv("POSTGRES_USER", "todo"),
			Password: getEnv("POSTGRES_PASSWORD", "todo"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
		},
		GRPC: GRPCConfig{
			Port: getEnvInt("GRPC_PORT", 50051),
		},
		Remote: RemoteConfig{
			Addr:     getEnv("REMOTE_ADDR", "localhost:50051"),
			Timeout:  getEnvDuration("REMOTE_TIMEOUT", 5*time.Second),
			Store:    getEnv("REMOTE_STORE", StoreRedis),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Repository: RepositoryConfig{
			StrictRemoteErrors: getEnvBool("REPOSITORY_STRICT_REMOTE_ERRORS", false),
		},
	}

	if cfg.Remote.Store != StoreRedis && cfg.Remote.Store != StoreMemory {
		return nil, fmt.Errorf("unknown REMOTE_STORE %q: want %q or %q", cfg.Remote.Store, StoreRedis, StoreMemory)
	}

	return cfg, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
