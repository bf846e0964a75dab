// Package config loads settings for the retouch command from a YAML file
// and RETOUCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable. The key log.level is read
// from RETOUCH_LOG_LEVEL.
const EnvPrefix = "RETOUCH"

type Config struct {
	Log        Log    `mapstructure:"log"`
	Looks      Looks  `mapstructure:"looks"`
	Slider     Slider `mapstructure:"slider"`
	Crop       Crop   `mapstructure:"crop"`
	Render     Render `mapstructure:"render"`
	Accelerate bool   `mapstructure:"accelerate"`
}

type Log struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type Looks struct {
	Workers   int `mapstructure:"workers" validate:"min=1,max=64"`
	CacheSize int `mapstructure:"cache_size" validate:"min=1"`
	Thumbnail int `mapstructure:"thumbnail" validate:"min=8,max=1024"`
}

type Slider struct {
	DeadzonePercent float64 `mapstructure:"deadzone_percent" validate:"gte=0,lte=50"`
}

type Crop struct {
	Width     float64 `mapstructure:"width" validate:"gt=0"`
	Height    float64 `mapstructure:"height" validate:"gt=0"`
	MaxZoom   float64 `mapstructure:"max_zoom" validate:"gte=1"`
	AnimateMS int     `mapstructure:"animate_ms" validate:"gte=0"`
}

type Render struct {
	Fit        string `mapstructure:"fit" validate:"oneof=fit fill"`
	Background string `mapstructure:"background" validate:"hexcolor"`
}

var defaults = map[string]any{
	"log.level":               "info",
	"looks.workers":           4,
	"looks.cache_size":        16,
	"looks.thumbnail":         128,
	"slider.deadzone_percent": 4.0,
	"crop.width":              1080.0,
	"crop.height":             1080.0,
	"crop.max_zoom":           5.0,
	"crop.animate_ms":         250,
	"render.fit":              "fit",
	"render.background":       "#000000",
	"accelerate":              false,
}

// Load reads path, when not empty, over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	slog.Debug("Loaded configuration", "config", cfg)
	return &cfg, nil
}

// SlogLevel returns the configured level, or info when it does not parse.
func (l Log) SlogLevel() slog.Level {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lv
}

// ValidationErrors returns the failed fields of a Load error, or nil.
func ValidationErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, len(verrs))
	for i, fe := range verrs {
		out[i] = fe.Namespace()
	}
	return out
}
