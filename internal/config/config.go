package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"proxyprofile/internal/profile"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Settings SettingsConfig `yaml:"settings" toml:"settings"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// SettingsConfig holds the user-facing switches consulted by capability queries.
type SettingsConfig struct {
	ForceShadowsocksRust bool   `yaml:"force_shadowsocks_rust" toml:"force_shadowsocks_rust"`
	EnableMuxForAll      bool   `yaml:"enable_mux_for_all" toml:"enable_mux_for_all"`
	ChainLabel           string `yaml:"chain_label" toml:"chain_label"`
	DefaultOrder         int64  `yaml:"default_order" toml:"default_order"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}
	return normalize(cfg), nil
}

// ParseTOML is Parse for TOML documents.
func ParseTOML(data []byte) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config toml: %w", err)
	}
	return normalize(cfg), nil
}

func normalize(cfg *Config) *Config {
	if cfg.Database.Path == "" {
		cfg.Database.Path = "profiles.db"
	}
	if cfg.Settings.ChainLabel == "" {
		cfg.Settings.ChainLabel = profile.DefaultChainLabel
	}
	return cfg
}

func Default() *Config {
	var cfg Config
	cfg.Database.Path = "profiles.db"
	cfg.Settings.ChainLabel = profile.DefaultChainLabel
	cfg.Settings.DefaultOrder = 1
	return &cfg
}

// Snapshot freezes the switches for one round of dispatch.
func (s SettingsConfig) Snapshot() profile.Settings {
	return profile.Settings{
		ForceShadowsocksRust: s.ForceShadowsocksRust,
		EnableMuxForAll:      s.EnableMuxForAll,
		ChainLabel:           s.ChainLabel,
	}
}
