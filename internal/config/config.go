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
	Store       StoreConfig        `yaml:"store" mapstructure:"store"`
	Solver      SolverConfig       `yaml:"solver" mapstructure:"solver"`
	Server      ServerConfig       `yaml:"server" mapstructure:"server"`
	Log         LogConfig          `yaml:"log" mapstructure:"log"`
	Departments []DepartmentConfig `yaml:"departments" mapstructure:"departments"`
}

// DepartmentConfig points at the input files for one department.
type DepartmentConfig struct {
	Name      string   `yaml:"name" mapstructure:"name"`
	Config    string   `yaml:"config" mapstructure:"config"`
	Leave     string   `yaml:"leave" mapstructure:"leave"`
	Inpatient string   `yaml:"inpatient" mapstructure:"inpatient"`
	DependsOn []string `yaml:"depends_on" mapstructure:"depends_on"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SolverConfig tunes the staffing search.
type SolverConfig struct {
	Seed         int64  `yaml:"seed" mapstructure:"seed"`
	TimeLimit    string `yaml:"time_limit" mapstructure:"time_limit"`
	InitialFloor int    `yaml:"initial_floor" mapstructure:"initial_floor"`
	MinFloor     int    `yaml:"min_floor" mapstructure:"min_floor"`
	FloorStep    int    `yaml:"floor_step" mapstructure:"floor_step"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("SCHEDULER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "scheduler.db")
	v.SetDefault("solver.seed", 42)
	v.SetDefault("solver.time_limit", "5m")
	v.SetDefault("solver.initial_floor", 4)
	v.SetDefault("solver.min_floor", 0)
	v.SetDefault("solver.floor_step", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)

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
