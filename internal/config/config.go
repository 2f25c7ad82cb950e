package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Exec    ExecConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds round-cycle configuration
type GameConfig struct {
	Intermission time.Duration // wait between rounds
	Round        time.Duration // round length
	Grace        time.Duration // extra window for late network delivery
	PuzzlesPath  string        // optional puzzle set file; empty means built-in
}

// ExecConfig holds execution-engine configuration
type ExecConfig struct {
	PistonURL  string
	Timeout    time.Duration
	RetryLimit int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from the environment with defaults. A .env file
// in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			Intermission: time.Duration(getEnvInt("INTERMISSION_SECONDS", 60)) * time.Second,
			Round:        time.Duration(getEnvInt("ROUND_SECONDS", 600)) * time.Second,
			Grace:        time.Duration(getEnvInt("GRACE_SECONDS", 3)) * time.Second,
			PuzzlesPath:  getEnv("PUZZLES_PATH", ""),
		},
		Exec: ExecConfig{
			PistonURL:  getEnv("PISTON_URL", "http://localhost:2000"),
			Timeout:    time.Duration(getEnvInt("EXEC_TIMEOUT_SECONDS", 100)) * time.Second,
			RetryLimit: getEnvInt("EXEC_RETRY_LIMIT", 2),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
