package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the descale configuration file
// (~/.config/descale/config.yaml). All numeric fields are pointers so we can
// distinguish "not set" from zero values.
type Config struct {
	Kernel string   `yaml:"kernel"`
	Border string   `yaml:"border"`
	Opt    string   `yaml:"opt"`
	B      *float64 `yaml:"b"`
	C      *float64 `yaml:"c"`
	Taps   *int64   `yaml:"taps"`
	Blur   *float64 `yaml:"blur"`

	ServerAddress string `yaml:"server_address"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "descale", "config.yaml")
}

func loadConfig() Config {
	var cfg Config
	path := configPath()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = yaml.Unmarshal(data, &cfg)
	return cfg
}

// applyFilterConfig applies config file defaults to the filter flags when the
// corresponding CLI flag was not explicitly set.
func applyFilterConfig(c *cli.Command, cfg Config) {
	if cfg.Kernel != "" && !c.IsSet("kernel") {
		kernelName = cfg.Kernel
	}
	if cfg.Border != "" && !c.IsSet("border") {
		borderName = cfg.Border
	}
	if cfg.Opt != "" && !c.IsSet("opt") {
		optName = cfg.Opt
	}
	if cfg.B != nil && !c.IsSet("b") {
		bParam = *cfg.B
	}
	if cfg.C != nil && !c.IsSet("c") {
		cParam = *cfg.C
	}
	if cfg.Taps != nil && !c.IsSet("taps") {
		tapsParam = *cfg.Taps
	}
	if cfg.Blur != nil && !c.IsSet("blur") {
		blurParam = *cfg.Blur
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}
