// Package config handles cartool configuration loading and management.
package config

import "github.com/Faultbox/carmaload/pkg/car"

// Config holds all tool settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates the game data tree.
type DataConfig struct {
	Root   string     `yaml:"root"` // directory holding CARS, MODELS, ...
	Layout car.Layout `yaml:",inline"`
}

// ExportConfig holds glTF and PNG export settings.
type ExportConfig struct {
	Binary    bool   `yaml:"binary"` // write .glb instead of .gltf
	OutputDir string `yaml:"output_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Root:   "DATA",
			Layout: car.DefaultLayout(),
		},
		Export: ExportConfig{
			Binary:    true,
			OutputDir: ".",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
