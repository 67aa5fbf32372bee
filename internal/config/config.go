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
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Storage   StorageConfig
	Scoring   ScoringConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// StorageConfig holds on-disk storage locations. SessionPath is the
// Badger directory for mood sessions and the library mirror; HistoryPath
// is the SQLite file for reading progress. Both default to subpaths of
// DataPath when unset.
type StorageConfig struct {
	DataPath    string
	SessionPath string
	HistoryPath string
}

// ScoringConfig holds recommendation scoring knobs.
type ScoringConfig struct {
	// DNAFilterMode is one of "off", "dna-preferred", "dna-only".
	DNAFilterMode    string
	MinMatchPercent  int
	ExcludeFinished  bool
	IncludeUntagged  bool
	PreferenceBoosts bool
}

// SessionConfig holds mood session housekeeping configuration.
type SessionConfig struct {
	// SweepInterval is how often expired sessions are purged (default: 1h).
	SweepInterval time.Duration
}

// RateLimitConfig holds per-client API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for on-disk storage")
	sessionPath := flag.String("session-path", "", "Badger directory for sessions and the library mirror")
	historyPath := flag.String("history-path", "", "SQLite file for reading history")
	serverName := flag.String("server-name", "", "Name for the server")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	// Scoring flags
	dnaFilterMode := flag.String("dna-filter-mode", "", "DNA filter mode: off, dna-preferred, dna-only (default: dna-preferred)")
	minMatchPercent := flag.String("min-match-percent", "", "Minimum match percent for recommendations (default: 20)")
	excludeFinished := flag.String("exclude-finished", "", "Exclude finished books from recommendations (default: true)")
	includeUntagged := flag.String("include-untagged", "", "Score books without genres or tags (default: false)")
	preferenceBoosts := flag.String("preference-boosts", "", "Apply reading-history preference boosts (default: true)")

	// Session flags
	sweepInterval := flag.String("session-sweep-interval", "", "Expired session sweep interval (default: 1h)")

	// Rate limit flags
	rateLimitRPS := flag.String("rate-limit-rps", "", "API requests per second per client (default: 10)")
	rateLimitBurst := flag.String("rate-limit-burst", "", "API request burst per client (default: 20)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name: getConfigValue(*serverName, "SERVER_NAME", "MoodShelf Server"),
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Storage: StorageConfig{
			DataPath:    getConfigValue(*dataPath, "DATA_PATH", ""),
			SessionPath: getConfigValue(*sessionPath, "SESSION_PATH", ""),
			HistoryPath: getConfigValue(*historyPath, "HISTORY_PATH", ""),
		},
		Scoring: ScoringConfig{
			DNAFilterMode:    getConfigValue(*dnaFilterMode, "DNA_FILTER_MODE", "dna-preferred"),
			MinMatchPercent:  getIntConfigValue(*minMatchPercent, "MIN_MATCH_PERCENT", 20),
			ExcludeFinished:  getBoolConfigValue(*excludeFinished, "EXCLUDE_FINISHED", true),
			IncludeUntagged:  getBoolConfigValue(*includeUntagged, "INCLUDE_UNTAGGED", false),
			PreferenceBoosts: getBoolConfigValue(*preferenceBoosts, "PREFERENCE_BOOSTS", true),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getFloatConfigValue(*rateLimitRPS, "RATE_LIMIT_RPS", 10),
			Burst:             getIntConfigValue(*rateLimitBurst, "RATE_LIMIT_BURST", 20),
		},
	}

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

	// Parse session sweep interval.
	sweepIntervalStr := getConfigValue(*sweepInterval, "SESSION_SWEEP_INTERVAL", "1h")
	sweepIntervalDuration, err := time.ParseDuration(sweepIntervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session sweep interval %q: %w", sweepIntervalStr, err)
	}
	cfg.Session.SweepInterval = sweepIntervalDuration

	// Expand and validate the data path, then derive storage subpaths.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if err := cfg.expandStoragePaths(); err != nil {
		return nil, fmt.Errorf("invalid storage path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
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

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	validModes := map[string]bool{
		"off":           true,
		"dna-preferred": true,
		"dna-only":      true,
	}
	if !validModes[c.Scoring.DNAFilterMode] {
		return fmt.Errorf("invalid dna filter mode: %s (must be off, dna-preferred, or dna-only)", c.Scoring.DNAFilterMode)
	}

	if c.Scoring.MinMatchPercent < 0 || c.Scoring.MinMatchPercent > 100 {
		return fmt.Errorf("invalid min match percent: %d (must be 0-100)", c.Scoring.MinMatchPercent)
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid rate limit rps: %v (must be positive)", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("invalid rate limit burst: %d (must be at least 1)", c.RateLimit.Burst)
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
	defaultPath := filepath.Join(homeDir, "MoodShelf", "data")

	expanded, err := expandPath(c.Storage.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// expandStoragePaths expands the session and history paths, defaulting
// to {data}/sessions and {data}/history.db.
func (c *Config) expandStoragePaths() error {
	sessionDefault := filepath.Join(c.Storage.DataPath, "sessions")
	expanded, err := expandPath(c.Storage.SessionPath, sessionDefault)
	if err != nil {
		return err
	}
	c.Storage.SessionPath = expanded

	historyDefault := filepath.Join(c.Storage.DataPath, "history.db")
	expanded, err = expandPath(c.Storage.HistoryPath, historyDefault)
	if err != nil {
		return err
	}
	c.Storage.HistoryPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
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

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
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

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
