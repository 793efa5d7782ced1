// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Data    DataConfig
	Server  ServerConfig
	Auth    AuthConfig
	Catalog CatalogConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds persistent data storage configuration.
type DataConfig struct {
	// BasePath is the directory holding the SQLite database.
	BasePath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed CORS origins (default: *)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes)
	AccessTokenKey []byte
	// Session durations
	AccessTokenDuration  time.Duration // e.g., 15m
	RefreshTokenDuration time.Duration // e.g., 720h (30 days)
}

// CatalogConfig holds external book catalog configuration.
type CatalogConfig struct {
	// LanguageRestrict biases Google Books free-text search results (empty = no bias).
	LanguageRestrict string
	// SearchLimit caps results per provider search (default: 10).
	SearchLimit int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for persistent data")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (e.g., 15m)")
	refreshTokenDuration := flag.String("refresh-token-duration", "", "Refresh token lifetime (e.g., 720h)")

	catalogLanguage := flag.String("catalog-language", "", "Language bias for catalog search (e.g., pt)")
	catalogLimit := flag.String("catalog-limit", "", "Max results per catalog search (default: 10)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "Leitura Server"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitOrigins(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			AccessTokenKey: nil, // Set by auth.LoadOrGenerateKey in main
		},
		Catalog: CatalogConfig{
			LanguageRestrict: getConfigValue(*catalogLanguage, "CATALOG_LANGUAGE", ""),
			SearchLimit:      getIntConfigValue(*catalogLimit, "CATALOG_LIMIT", 10),
		},
	}

	// Parse auth durations.
	accessDurationStr := getConfigValue(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "15m")
	accessDuration, err := time.ParseDuration(accessDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid access token duration %q: %w", accessDurationStr, err)
	}
	cfg.Auth.AccessTokenDuration = accessDuration

	refreshDurationStr := getConfigValue(*refreshTokenDuration, "REFRESH_TOKEN_DURATION", "720h")
	refreshDuration, err := time.ParseDuration(refreshDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token duration %q: %w", refreshDurationStr, err)
	}
	cfg.Auth.RefreshTokenDuration = refreshDuration

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// DatabasePath returns the full path to the SQLite database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.BasePath, "leitura.db")
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Catalog.SearchLimit < 1 || c.Catalog.SearchLimit > 40 {
		return fmt.Errorf("invalid catalog limit: %d (must be 1-40)", c.Catalog.SearchLimit)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Leitura", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// splitOrigins parses a comma-separated origin list.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
