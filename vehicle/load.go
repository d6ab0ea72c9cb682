package vehicle

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/lixenwraith/vi-racer/asset"
)

// ParseConfig decodes a TOML document over DefaultConfig and validates the result
func ParseConfig(r io.Reader) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(r); err != nil {
		return Config{}, fmt.Errorf("reading vehicle config: %w", err)
	}
	return decodeConfig(v)
}

// LoadConfig reads a vehicle config file, format taken from its extension
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading vehicle config %s: %w", path, err)
	}
	cfg, err := decodeConfig(v)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadPreset returns a built-in vehicle by name
func LoadPreset(name string) (Config, error) {
	doc, ok := asset.VehiclePresets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown vehicle preset %q (have %s)", name, strings.Join(Presets(), ", "))
	}
	cfg, err := ParseConfig(strings.NewReader(doc))
	if err != nil {
		return Config{}, fmt.Errorf("preset %s: %w", name, err)
	}
	return cfg, nil
}

// Presets lists built-in preset names in sorted order
func Presets() []string {
	names := make([]string, 0, len(asset.VehiclePresets))
	for name := range asset.VehiclePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decodeConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	// Authored arrays replace the defaults instead of merging index by index
	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.ZeroFields = true
	})
	if err != nil {
		return Config{}, fmt.Errorf("decoding vehicle config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
