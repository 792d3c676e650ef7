package config

import (
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
)

// Flags holds command-line overrides. Only flags the user set are applied.
type Flags struct {
	ConfigPath string
	Debug      bool
	LogFile    string

	Width   int
	Height  int
	Percent int
	Samples int
	Shading string

	sets []*pflag.FlagSet
}

// RegisterGlobal adds the flags shared by every command to fs.
func (f *Flags) RegisterGlobal(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file (yaml or toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file (rotated)")
	f.sets = append(f.sets, fs)
}

// RegisterExport adds the export overrides to fs.
func (f *Flags) RegisterExport(fs *pflag.FlagSet) {
	fs.IntVar(&f.Width, "width", 0, "Image width in pixels")
	fs.IntVar(&f.Height, "height", 0, "Image height in pixels")
	fs.IntVar(&f.Percent, "percent", 0, "Resolution percentage")
	fs.IntVar(&f.Samples, "samples", 0, "Samples per pixel")
	fs.StringVar(&f.Shading, "shading", "", "Mesh shading: auto, smooth or flat")
	f.sets = append(f.sets, fs)
}

// changed reports whether the named flag was set on the command line.
func (f *Flags) changed(name string) bool {
	for _, fs := range f.sets {
		if fl := fs.Lookup(name); fl != nil && fl.Changed {
			return true
		}
	}
	return false
}

// configPath returns the explicit config path, with ~ expanded.
func (f *Flags) configPath() (string, error) {
	if f == nil || f.ConfigPath == "" {
		return "", nil
	}
	return homedir.Expand(f.ConfigPath)
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.changed("log-file") {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.changed("width") && f.Width > 0 {
		cfg.Camera.Width = f.Width
	}
	if f.changed("height") && f.Height > 0 {
		cfg.Camera.Height = f.Height
	}
	if f.changed("percent") && f.Percent > 0 {
		cfg.Camera.Percentage = f.Percent
	}
	if f.changed("samples") && f.Samples > 0 {
		cfg.Camera.Samples = f.Samples
	}
	if f.changed("shading") {
		cfg.Mesh.Shading = f.Shading
	}
}
