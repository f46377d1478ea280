package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagData      = flag.String("data", "", "Game data directory")
	flagPalette   = flag.String("palette", "", "Palette file name")
	flagExactCase = flag.Bool("exact-case", false, "Match resource file names case-sensitively")
	flagBinary    = flag.Bool("binary", false, "Export binary glTF (.glb)")
	flagText      = flag.Bool("text", false, "Export JSON glTF (.gltf)")
	flagOut       = flag.String("out", "", "Output directory for exported files")
	flagLogFile   = flag.String("log-file", "", "Write JSON logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagData != "" {
		cfg.Data.Root = *flagData
	}
	if *flagPalette != "" {
		cfg.Data.Layout.Palette = *flagPalette
	}
	if *flagExactCase {
		cfg.Data.Layout.IgnoreCase = false
	}
	if *flagBinary {
		cfg.Export.Binary = true
	}
	if *flagText {
		cfg.Export.Binary = false
	}
	if *flagOut != "" {
		cfg.Export.OutputDir = *flagOut
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
