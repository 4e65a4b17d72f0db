package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const minSecretKeyLength = 32

func isPlaceholderSecret(secretKey string) bool {
	switch strings.ToLower(secretKey) {
	case "change_me_in_production", "replace_with_at_least_32_random_characters", "changeme", "change_me", "secret":
		return true
	default:
		return false
	}
}

// Settings are the process-level options read from the environment.
type Settings struct {
	SecretKey        string
	Port             string
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	DefaultLanguage  string
	PolicyPath       string
	OperationTimeout time.Duration
	AdminKeyHash     string
	IdempotencyTTL   time.Duration
}

func Load() (Settings, error) {
	secretKey, err := ResolveSecretKey()
	if err != nil {
		return Settings{}, err
	}
	port, err := ResolvePort()
	if err != nil {
		return Settings{}, err
	}
	settings, err := LoadStorage()
	if err != nil {
		return Settings{}, err
	}

	settings.SecretKey = secretKey
	settings.Port = port
	settings.DefaultLanguage = strings.ToLower(GetEnv("DEFAULT_LANGUAGE", "en"))
	settings.AdminKeyHash = strings.TrimSpace(os.Getenv("ADMIN_KEY_HASH"))

	settings.OperationTimeout, err = resolveDuration("LEDGER_OPERATION_TIMEOUT", 5*time.Second)
	if err != nil {
		return Settings{}, err
	}
	settings.IdempotencyTTL, err = resolveDuration("IDEMPOTENCY_TTL", 24*time.Hour)
	if err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// LoadStorage reads only what is needed to reach the database and the policy,
// so operator commands work without a SECRET_KEY.
func LoadStorage() (Settings, error) {
	settings := Settings{
		DBDriver:    strings.ToLower(GetEnv("DB_DRIVER", "sqlite")),
		DBPath:      GetEnv("DB_PATH", filepath.Join("data", "siteboost.db")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		PolicyPath:  strings.TrimSpace(os.Getenv("LEDGER_POLICY_PATH")),
	}

	switch settings.DBDriver {
	case "sqlite":
	case "postgres":
		if settings.DatabaseURL == "" {
			return Settings{}, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return Settings{}, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", settings.DBDriver)
	}
	return settings, nil
}

// DSN is what db.Open expects for the configured driver.
func (settings Settings) DSN() string {
	if settings.DBDriver == "postgres" {
		return settings.DatabaseURL
	}
	return settings.DBPath
}

func ResolveSecretKey() (string, error) {
	secretKey := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secretKey == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if isPlaceholderSecret(secretKey) {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secretKey) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secretKey, nil
}

func ResolvePort() (string, error) {
	raw := GetEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("PORT must be between 1 and 65535, got %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return value, nil
}

func GetEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
