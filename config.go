package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/buffos/go-gantt/gantt"
)

// Config holds everything read from defaults, the config file, GANTT_*
// environment variables and flags, in increasing precedence.
type Config struct {
	Chart gantt.Options `mapstructure:"chart"`
	Log   LogConfig     `mapstructure:"log"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"view-mode":         "chart.view_mode",
	"column-width":      "chart.column_width",
	"step":              "chart.step",
	"bar-height":        "chart.bar_height",
	"bar-corner-radius": "chart.bar_corner_radius",
	"header-height":     "chart.header_height",
	"padding":           "chart.padding",
	"language":          "chart.language",
	"bar-text-align":    "chart.bar_text_align",
	"popup-trigger":     "chart.popup_trigger",
	"font-size":         "chart.font_size",
	"log-level":         "log.level",
	"log-format":        "log.format",
}

func setDefaults(v *viper.Viper) {
	def := gantt.DefaultOptions()
	v.SetDefault("chart.header_height", def.HeaderHeight)
	v.SetDefault("chart.column_width", def.ColumnWidth)
	v.SetDefault("chart.step", def.Step)
	v.SetDefault("chart.view_mode", string(def.ViewMode))
	v.SetDefault("chart.bar_height", def.BarHeight)
	v.SetDefault("chart.bar_corner_radius", def.BarCornerRadius)
	v.SetDefault("chart.arrow_curve", def.ArrowCurve)
	v.SetDefault("chart.padding", def.Padding)
	v.SetDefault("chart.popup_trigger", def.PopupTrigger)
	v.SetDefault("chart.language", def.Language)
	v.SetDefault("chart.bar_text_align", def.BarTextAlign)
	v.SetDefault("chart.font_size", def.FontSize)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// loadConfig resolves the configuration for cmd. configPath may be empty.
func loadConfig(cmd *cobra.Command, configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %q: %w", configPath, err)
		}
	} else {
		v.SetConfigName("gantt")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("GANTT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := normalizeOptions(&cfg.Chart); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalizeOptions validates opts and canonicalises the view mode spelling.
func normalizeOptions(opts *gantt.Options) error {
	valid := false
	for _, m := range gantt.ViewModes() {
		if strings.EqualFold(string(opts.ViewMode), string(m)) {
			opts.ViewMode = m
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("unsupported view mode %q", opts.ViewMode)
	}
	switch opts.BarTextAlign {
	case gantt.AlignCenter, gantt.AlignLeft, gantt.AlignRight:
	default:
		return fmt.Errorf("unsupported bar text alignment %q (center, left or right)", opts.BarTextAlign)
	}
	if opts.ColumnWidth < 0 || opts.Step < 0 {
		return fmt.Errorf("column width and step must not be negative")
	}
	return nil
}
