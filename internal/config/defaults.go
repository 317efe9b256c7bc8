package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(GlobalDir(), "agencia.db"),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Auth: AuthConfig{
			CacheTTL: 5 * time.Minute,
		},
		Scheduler: SchedulerConfig{
			DigestTime:    "08:00",
			PurgeInterval: 10 * time.Minute,
		},
		Timer: TimerConfig{
			TickInterval: time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// setDefaults registers every key so env overrides resolve during Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("auth.cache_ttl", cfg.Auth.CacheTTL)
	v.SetDefault("auth.users", cfg.Auth.Users)
	v.SetDefault("scheduler.digest_time", cfg.Scheduler.DigestTime)
	v.SetDefault("scheduler.purge_interval", cfg.Scheduler.PurgeInterval)
	v.SetDefault("timer.tick_interval", cfg.Timer.TickInterval)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// WriteDefault writes the default configuration to path, creating its directory
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	cfg.Auth.Users = []UserEntry{
		{ID: "admin", Email: "admin@agencia.local", Role: "admin"},
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	header := []byte("# agencia configuration\n")
	return os.WriteFile(path, append(header, data...), 0644)
}

// Marshal renders cfg as YAML with durations in their string form ("5m0s")
// so the output can be read back by Load.
func Marshal(cfg *Config) ([]byte, error) {
	users := make([]map[string]string, 0, len(cfg.Auth.Users))
	for _, u := range cfg.Auth.Users {
		users = append(users, map[string]string{"id": u.ID, "email": u.Email, "role": u.Role})
	}

	doc := map[string]interface{}{
		"database": map[string]interface{}{"path": cfg.Database.Path},
		"server":   map[string]interface{}{"addr": cfg.Server.Addr},
		"auth": map[string]interface{}{
			"cache_ttl": cfg.Auth.CacheTTL.String(),
			"users":     users,
		},
		"scheduler": map[string]interface{}{
			"digest_time":    cfg.Scheduler.DigestTime,
			"purge_interval": cfg.Scheduler.PurgeInterval.String(),
		},
		"timer": map[string]interface{}{"tick_interval": cfg.Timer.TickInterval.String()},
		"log":   map[string]interface{}{"level": cfg.Log.Level, "format": cfg.Log.Format},
	}
	return yaml.Marshal(doc)
}
