package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mr-shifu/textbook-rsa/lib/params"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Store types
const (
	StoreTypeMemory = "memory"
	StoreTypeSQLite = "sqlite"
)

// Log levels
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log types
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

// EnvPrefix prefixes environment overrides, e.g. RSA_KEY_BITS.
const EnvPrefix = "RSA"

// Settings is the complete configuration of the key generation tooling.
type Settings struct {
	Key    KeySettings    `mapstructure:"key"`
	Store  StoreSettings  `mapstructure:"store"`
	Logger LoggerSettings `mapstructure:"logger"`
}

// KeySettings controls key generation.
type KeySettings struct {
	// Bits is the size of each prime factor.
	Bits      int  `mapstructure:"bits" validate:"gte=8,lte=16384"`
	Threshold int  `mapstructure:"threshold" validate:"gte=1,lte=256"`
	Parallel  bool `mapstructure:"parallel"`
}

// StoreSettings selects the vault keys are stored in.
type StoreSettings struct {
	Type string `mapstructure:"type" validate:"required,oneof=memory sqlite"`
	Path string `mapstructure:"path" validate:"required_if=Type sqlite"`
}

// LoggerSettings holds configuration settings for logging.
type LoggerSettings struct {
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=debug info warning error"`
	LogType    string `mapstructure:"log_type" validate:"required,oneof=console file"`
	FilePath   string `mapstructure:"file_path" validate:"required_if=LogType file"`
	MaxSize    int    `mapstructure:"max_size" validate:"gte=0,lte=100"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0,lte=10"`
	MaxAge     int    `mapstructure:"max_age" validate:"gte=0,lte=365"`
}

// Default returns the settings used when no configuration file is given.
func Default() *Settings {
	return &Settings{
		Key: KeySettings{
			Bits:      params.DefaultKeyBits,
			Threshold: params.DefaultRounds,
		},
		Store: StoreSettings{
			Type: StoreTypeMemory,
		},
		Logger: LoggerSettings{
			LogLevel:   LogLevelInfo,
			LogType:    LogTypeConsole,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("key.bits", d.Key.Bits)
	v.SetDefault("key.threshold", d.Key.Threshold)
	v.SetDefault("key.parallel", d.Key.Parallel)
	v.SetDefault("store.type", d.Store.Type)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("logger.log_level", d.Logger.LogLevel)
	v.SetDefault("logger.log_type", d.Logger.LogType)
	v.SetDefault("logger.file_path", d.Logger.FilePath)
	v.SetDefault("logger.max_size", d.Logger.MaxSize)
	v.SetDefault("logger.max_backups", d.Logger.MaxBackups)
	v.SetDefault("logger.max_age", d.Logger.MaxAge)
}

// Load reads settings from the YAML file at path, applies RSA_* environment
// overrides on top and validates the result. An empty path loads defaults and
// environment overrides only.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithMessagef(err, "config: read %s", path)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.WithMessage(err, "config: decode")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every field of the settings.
func (s *Settings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return errors.WithMessage(err, "config: validation failed")
	}
	return nil
}

// Validate checks the logger settings on their own.
func (s *LoggerSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return errors.WithMessage(err, "validation failed for LoggerSettings")
	}
	return nil
}
