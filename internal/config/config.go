package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/saadjs/mealplan-cli/internal/app"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "MEALPLAN"

	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "console"
	DefaultBottleSizeMl = 750
)

// Config holds the file/env settings read before a command runs. Settings
// that belong to the data itself (start day, ingredients file) live in the
// app_config table and may override these.
type Config struct {
	DBPath          string  `mapstructure:"db_path"`
	LogLevel        string  `mapstructure:"log_level"`
	LogFormat       string  `mapstructure:"log_format"`
	Seed            int64   `mapstructure:"seed"`
	StartDay        Weekday `mapstructure:"start_day"`
	IngredientsFile string  `mapstructure:"ingredients_file"`
	BottleSizeMl    int     `mapstructure:"bottle_size_ml"`
}

// Weekday is a 0-6 index, Sunday first. Config files may use names ("monday").
type Weekday int

var weekdayNames = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func ParseWeekday(value string) (Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for i, name := range weekdayNames {
		if v == name || (len(v) >= 3 && strings.HasPrefix(name, v)) {
			return Weekday(i), nil
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 6 {
		return 0, fmt.Errorf("invalid weekday %q (expected 0-6 or a day name)", value)
	}
	return Weekday(n), nil
}

func stringToWeekdayHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(Weekday(0)) || from.Kind() != reflect.String {
			return data, nil
		}
		return ParseWeekday(data.(string))
	}
}

func Defaults() Config {
	return Config{
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		BottleSizeMl: DefaultBottleSizeMl,
	}
}

// Load reads an optional YAML config file, a .env file in the working
// directory, and MEALPLAN_* environment variables, in increasing priority.
// An explicit path that does not exist is an error; the default path is optional.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	d := Defaults()
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("start_day", int(d.StartDay))
	v.SetDefault("ingredients_file", d.IngredientsFile)
	v.SetDefault("bottle_size_ml", d.BottleSizeMl)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		defaultPath, err := app.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			dc.DecodeHook,
			stringToWeekdayHook(),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.StartDay < 0 || c.StartDay > 6 {
		return fmt.Errorf("start_day must be between 0 and 6")
	}
	if c.BottleSizeMl < 100 || c.BottleSizeMl > 2000 {
		return fmt.Errorf("bottle_size_ml must be between 100 and 2000")
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json")
	}
	return nil
}
