// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Input    InputConfig    `yaml:"input" mapstructure:"input"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// InputConfig configures where legacy extracts are read from. Source is a
// local directory or an ftp:// base URL.
type InputConfig struct {
	Source         string            `yaml:"source" mapstructure:"source"`
	Files          map[string]string `yaml:"files" mapstructure:"files"`
	FTPUser        string            `yaml:"ftp_user" mapstructure:"ftp_user"`
	FTPPassword    string            `yaml:"ftp_password" mapstructure:"ftp_password"`
	FTPTimeoutSecs int               `yaml:"ftp_timeout_secs" mapstructure:"ftp_timeout_secs"`
	Delimiter      string            `yaml:"delimiter" mapstructure:"delimiter"`
}

// PipelineConfig configures transformation behavior.
type PipelineConfig struct {
	// DefaultOwnerID is assigned to deals whose legacy owner is missing.
	DefaultOwnerID int `yaml:"default_owner_id" mapstructure:"default_owner_id"`
	// LowConfidenceThreshold flags mappings below this confidence in the report.
	LowConfidenceThreshold float64 `yaml:"low_confidence_threshold" mapstructure:"low_confidence_threshold"`
	// ReferenceDate pins deal-age computation for reproducible runs
	// (YYYY-MM-DD). Empty means the run start time is used.
	ReferenceDate string `yaml:"reference_date" mapstructure:"reference_date"`
	// Brand is stamped on every transformed deal.
	Brand string `yaml:"brand" mapstructure:"brand"`
}

// ExportConfig configures output writing.
type ExportConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Workbook string `yaml:"workbook" mapstructure:"workbook"`
}

// ServerConfig configures the report server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRMMIGRATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "crm-migrate.db")
	v.SetDefault("input.source", "./extracts")
	v.SetDefault("input.files", map[string]string{
		"companies":      "legacy_companies.csv",
		"contacts":       "legacy_persons.csv",
		"opportunities":  "legacy_opportunities.csv",
		"communications": "legacy_comm.csv",
		"social_links":   "legacy_socialnetworks.csv",
	})
	v.SetDefault("input.ftp_timeout_secs", 30)
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("pipeline.default_owner_id", 27)
	v.SetDefault("pipeline.low_confidence_threshold", 0.8)
	v.SetDefault("pipeline.brand", "ICALPS")
	v.SetDefault("export.dir", "./out")
	v.SetDefault("export.workbook", "migration_output.xlsx")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
