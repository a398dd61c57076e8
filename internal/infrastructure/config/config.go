package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all surface host configuration.
type Config struct {
	Server  ServerConfig
	Surface SurfaceConfig
	Logging LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8400" toml:"port"`
	Host string `envconfig:"HOST" default:"127.0.0.1" toml:"host"`
}

// SurfaceConfig holds surface bundle configuration.
type SurfaceConfig struct {
	// BootstrapURI locates the loader script: file: for local storage,
	// http(s) for a network fetch.
	BootstrapURI string `envconfig:"SURFACE_BOOTSTRAP_URI" default:"file:///usr/share/inkcell/bootstrap.js" toml:"bootstrap_uri"`
	// ManifestPath is the renderer manifest consumed by the demo's
	// plugin discovery.
	ManifestPath string `envconfig:"SURFACE_MANIFEST" default:"renderers.yaml" toml:"manifest_path"`
	// ResourceScheme prefixes transformed resource URIs.
	ResourceScheme string `envconfig:"SURFACE_RESOURCE_SCHEME" default:"surface" toml:"resource_scheme"`
	// ResourceRoot is the directory resource URIs resolve under.
	ResourceRoot string `envconfig:"SURFACE_RESOURCE_ROOT" default:"/usr/share/inkcell/resources" toml:"resource_root"`
	// CommandScheme is the host-command link scheme forwarded to the
	// opener alongside web and mailto links.
	CommandScheme string `envconfig:"SURFACE_COMMAND_SCHEME" default:"command" toml:"command_scheme"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from the environment first, then overlays
// the TOML file: values present in the file win.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8400",
			Host: "127.0.0.1",
		},
		Surface: SurfaceConfig{
			BootstrapURI:   "file:///usr/share/inkcell/bootstrap.js",
			ManifestPath:   "renderers.yaml",
			ResourceScheme: "surface",
			ResourceRoot:   "/usr/share/inkcell/resources",
			CommandScheme:  "command",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
