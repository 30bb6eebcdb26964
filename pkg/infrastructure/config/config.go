package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config holds the service configuration, resolved from environment
// variables with sane local defaults
type Config struct {
	AppName     string
	AppLogLevel string
	AppEnv      string
	TenantID    string
	DBPath      string
	// EventBufferSize caps how many events the in-memory event store
	// retains; the oldest are dropped once the cap is reached.
	EventBufferSize int
}

var (
	once     sync.Once
	instance Config
	loadErr  error
)

// Load resolves the configuration once and caches it for the process
// lifetime
func Load() (Config, error) {
	once.Do(func() {
		instance, loadErr = load()
	})
	return instance, loadErr
}

func load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "forging-process-management")
	v.SetDefault("app.log_level", "INFO")
	v.SetDefault("app.env", "local")
	v.SetDefault("tenant.id", "default")
	v.SetDefault("db.path", "forge.db")
	v.SetDefault("event.buffer_size", 1024)

	cfg := Config{
		AppName:         strings.TrimSpace(v.GetString("app.name")),
		AppLogLevel:     strings.ToUpper(strings.TrimSpace(v.GetString("app.log_level"))),
		AppEnv:          strings.TrimSpace(v.GetString("app.env")),
		TenantID:        strings.TrimSpace(v.GetString("tenant.id")),
		DBPath:          strings.TrimSpace(v.GetString("db.path")),
		EventBufferSize: v.GetInt("event.buffer_size"),
	}

	if cfg.TenantID == "" {
		return Config{}, fmt.Errorf("invalid FORGE_TENANT_ID: cannot be empty")
	}
	if cfg.EventBufferSize <= 0 {
		return Config{}, fmt.Errorf("invalid FORGE_EVENT_BUFFER_SIZE: must be positive, got %d", cfg.EventBufferSize)
	}
	switch cfg.AppLogLevel {
	case "DEBUG", "INFO", "WARN", "ERROR", "DISABLED":
	default:
		return Config{}, fmt.Errorf("invalid FORGE_APP_LOG_LEVEL: %q", cfg.AppLogLevel)
	}
	return cfg, nil
}
