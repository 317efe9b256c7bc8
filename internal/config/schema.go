package config

import "time"

// Config is the full agencia configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Scheduler SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
	Timer     TimerConfig     `yaml:"timer" mapstructure:"timer"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig locates the SQLite file
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures `agencia serve`
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// AuthConfig holds the auth metadata the role syncer reads from
type AuthConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	Users    []UserEntry   `yaml:"users" mapstructure:"users"`
}

// UserEntry is one identity known to the auth provider
type UserEntry struct {
	ID    string `yaml:"id" mapstructure:"id"`
	Email string `yaml:"email" mapstructure:"email"`
	Role  string `yaml:"role" mapstructure:"role"`
}

// SchedulerConfig configures background jobs run by `agencia serve`
type SchedulerConfig struct {
	DigestTime    string        `yaml:"digest_time" mapstructure:"digest_time"`
	PurgeInterval time.Duration `yaml:"purge_interval" mapstructure:"purge_interval"`
}

// TimerConfig configures the stopwatch refresh rate
type TimerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
}

// LogConfig configures slog output
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}
