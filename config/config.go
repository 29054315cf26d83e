package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Data     DataConfig
	Database DatabaseConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

// DataConfig locates the application data on disk: the current store, the
// legacy folder-based store, and where migration backups go.
type DataConfig struct {
	// Dir is the application data directory.
	Dir string

	// LegacyDir is where the pre-relational install kept its data: the
	// top-level app.config plus the default patients root.
	LegacyDir string

	// StorageRoots are the legacy patient storage folders to scan. When
	// empty, migration falls back to <LegacyDir>/patients.
	StorageRoots []string

	// BackupDir receives pre-migration snapshots. When empty, backups are
	// created as timestamped siblings of LegacyDir.
	BackupDir string
}

type DatabaseConfig struct {
	// Path of the SQLite database file. ":memory:" opens a throwaway store.
	Path        string
	BusyTimeout time.Duration
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type MetricsConfig struct {
	Enabled bool
	Addr    string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRate  float64
}

// Load reads configuration from an optional recordkeeper.yaml plus
// RECORDKEEPER_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("recordkeeper")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/recordkeeper")
	v.SetEnvPrefix("RECORDKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "recordkeeper")
	v.SetDefault("app.environment", "production")
	v.SetDefault("app.version", "0.0.0")
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.legacy_dir", "")
	v.SetDefault("data.storage_roots", []string{})
	v.SetDefault("data.backup_dir", "")
	v.SetDefault("database.path", "")
	v.SetDefault("database.busy_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9464")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "recordkeeper")
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.sample_rate", 1.0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Environment: v.GetString("app.environment"),
			Version:     v.GetString("app.version"),
		},
		Data: DataConfig{
			Dir:          v.GetString("data.dir"),
			LegacyDir:    v.GetString("data.legacy_dir"),
			StorageRoots: v.GetStringSlice("data.storage_roots"),
			BackupDir:    v.GetString("data.backup_dir"),
		},
		Database: DatabaseConfig{
			Path:        v.GetString("database.path"),
			BusyTimeout: v.GetDuration("database.busy_timeout"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			OutputPath: v.GetString("log.output"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Addr:    v.GetString("metrics.addr"),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("tracing.enabled"),
			ServiceName: v.GetString("tracing.service_name"),
			Endpoint:    v.GetString("tracing.endpoint"),
			SampleRate:  v.GetFloat64("tracing.sample_rate"),
		},
	}

	cfg.applyDerivedDefaults()
	return cfg, nil
}

// applyDerivedDefaults fills paths that depend on the data directory.
func (c *Config) applyDerivedDefaults() {
	if c.Data.LegacyDir == "" {
		c.Data.LegacyDir = c.Data.Dir
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(c.Data.Dir, "recordkeeper.db")
	}
}
