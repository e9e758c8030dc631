package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envAuthSecret            = "AUTH_SECRET"
	envCredentialTTL         = "CREDENTIAL_TTL"
	envViewLinkTTL           = "VIEW_LINK_TTL"
	envPublicBaseURL         = "PUBLIC_BASE_URL"
	envEnableProfiling       = "ENABLE_PROFILING"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "warehouse"
	defaultDBUser             = "warehouse_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultCredentialTTL      = 24 * time.Hour
	defaultViewLinkTTL        = 10 * time.Minute
	defaultPublicBaseURL      = "http://localhost:8080"
	minAuthSecretLength       = 32
	minUniqueCharsInSecret    = 16
	minRepeatedCharThreshold  = 4
	maxRepeatedChars          = 2
	minTokenTTL               = time.Second
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	EnableProfiling bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// AuthConfig holds the single process-wide signing secret and token lifetimes.
type AuthConfig struct {
	Secret        string
	CredentialTTL time.Duration
	ViewLinkTTL   time.Duration
}

type AppConfig struct {
	PublicBaseURL string
}

// Load reads the service configuration from the environment. A missing
// required variable is reported as an error rather than a panic.
func Load() (cfg *Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			cfg = nil
			err = fmt.Errorf(errInvalidConfigurationFmt, fmt.Errorf("%v", r))
		}
	}()

	cfg = &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			EnableProfiling: getBoolEnv(envEnableProfiling),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: requireEnv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Auth: AuthConfig{
			Secret:        requireEnv(envAuthSecret),
			CredentialTTL: getDurationEnv(envCredentialTTL, defaultCredentialTTL),
			ViewLinkTTL:   getDurationEnv(envViewLinkTTL, defaultViewLinkTTL),
		},
		App: AppConfig{
			PublicBaseURL: PublicBaseURL(),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if err := c.Auth.Validate(); err != nil {
		return err
	}

	if c.App.PublicBaseURL == "" {
		return fmt.Errorf(errPublicBaseURLRequiredFmt)
	}

	return nil
}

// Validate checks only the auth section. The token CLI uses it without a
// database configuration.
func (a *AuthConfig) Validate() error {
	if a.Secret == "" {
		return fmt.Errorf(errAuthSecretRequiredFmt)
	}

	if len(a.Secret) < minAuthSecretLength {
		return fmt.Errorf(errAuthSecretMinLengthFmt, minAuthSecretLength)
	}

	if !hasMinimumEntropy(a.Secret) {
		return fmt.Errorf(errAuthSecretLowEntropyFmt)
	}

	if a.CredentialTTL < minTokenTTL {
		return fmt.Errorf(errTTLTooShortFmt, envCredentialTTL, minTokenTTL)
	}

	if a.ViewLinkTTL < minTokenTTL {
		return fmt.Errorf(errTTLTooShortFmt, envViewLinkTTL, minTokenTTL)
	}

	if a.CredentialTTL%time.Second != 0 {
		return fmt.Errorf(errTTLFractionFmt, envCredentialTTL)
	}

	if a.ViewLinkTTL%time.Second != 0 {
		return fmt.Errorf(errTTLFractionFmt, envViewLinkTTL)
	}

	return nil
}

// LoadAuth reads just the auth section.
func LoadAuth() (*AuthConfig, error) {
	secret := os.Getenv(envAuthSecret)
	if secret == "" {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, fmt.Errorf(messages.requiredEnvNotSet(envAuthSecret)))
	}

	a := &AuthConfig{
		Secret:        secret,
		CredentialTTL: getDurationEnv(envCredentialTTL, defaultCredentialTTL),
		ViewLinkTTL:   getDurationEnv(envViewLinkTTL, defaultViewLinkTTL),
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}
	return a, nil
}

// PublicBaseURL is the externally reachable origin used in minted view
// links, without a trailing slash.
func PublicBaseURL() string {
	return strings.TrimRight(getEnv(envPublicBaseURL, defaultPublicBaseURL), "/")
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minAuthSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(messages.requiredEnvNotSet(key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
