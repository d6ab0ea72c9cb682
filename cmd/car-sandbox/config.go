package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lixenwraith/vi-racer/parameter"
	"github.com/lixenwraith/vi-racer/telemetry"
)

// sandboxConfig is the sandbox's own settings, vehicles are configured separately
type sandboxConfig struct {
	Vehicle     string `mapstructure:"vehicle"`
	VehicleFile string `mapstructure:"vehicle_file"`
	TickRate    int    `mapstructure:"tick_rate"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	Mute        bool   `mapstructure:"mute"`

	Arena struct {
		HalfExtent    float64 `mapstructure:"half_extent"`
		WallHeight    float64 `mapstructure:"wall_height"`
		WallThickness float64 `mapstructure:"wall_thickness"`
		Ramps         bool    `mapstructure:"ramps"`
	} `mapstructure:"arena"`

	Telemetry struct {
		Enabled bool                   `mapstructure:"enabled"`
		Influx  telemetry.InfluxConfig `mapstructure:",squash"`
	} `mapstructure:"telemetry"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("vehicle", "hatchback")
	v.SetDefault("vehicle_file", "")
	v.SetDefault("tick_rate", parameter.DefaultTickRate)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("mute", true)

	v.SetDefault("arena.half_extent", parameter.DefaultArenaHalfExtent)
	v.SetDefault("arena.wall_height", parameter.DefaultWallHeight)
	v.SetDefault("arena.wall_thickness", parameter.DefaultWallThickness)
	v.SetDefault("arena.ramps", true)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.url", "")
	v.SetDefault("telemetry.token", "")
	v.SetDefault("telemetry.org", "vi-racer")
	v.SetDefault("telemetry.bucket", "telemetry")
	v.SetDefault("telemetry.every", parameter.TelemetryExportEvery)
	v.SetDefault("telemetry.backup_path", "logs/telemetry.lp.gz")
}

// loadConfig layers defaults, an optional config file and RACER_* environment variables
func loadConfig(path string) (sandboxConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RACER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return sandboxConfig{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg sandboxConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return sandboxConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return sandboxConfig{}, err
	}
	return cfg, nil
}

func (c sandboxConfig) validate() error {
	var errs []error
	if c.TickRate < 1 || c.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("tick_rate must be in [1, 1000], got %d", c.TickRate))
	}
	if c.Arena.HalfExtent <= 0 {
		errs = append(errs, fmt.Errorf("arena.half_extent must be positive, got %g", c.Arena.HalfExtent))
	}
	if c.Arena.WallHeight <= 0 || c.Arena.WallThickness <= 0 {
		errs = append(errs, errors.New("arena walls must have positive height and thickness"))
	}
	if c.Vehicle == "" && c.VehicleFile == "" {
		errs = append(errs, errors.New("either vehicle or vehicle_file must be set"))
	}
	return errors.Join(errs...)
}
