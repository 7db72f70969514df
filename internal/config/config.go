package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read at startup.
const (
	EnvAddr     = "SB_ADDR"
	EnvAllowed  = "SB_ALLOWED"
	EnvHostFS   = "SB_HOSTFS"
	EnvHostProc = "SB_HOSTPROC"
	EnvConfig   = "SB_CONFIG"
)

const (
	DefaultAddr     = "127.0.0.1:5005"
	DefaultHostFS   = "/hostfs"
	DefaultHostProc = "/hostproc"
)

// defaultServices maps dashboard keys to container names. By default key ==
// container name.
var defaultServices = map[string]string{
	"qbittorrent": "qbittorrent",
	"prowlarr":    "prowlarr",
	"sonarr":      "sonarr",
	"radarr":      "radarr",
	"joal":        "joal",
	"syncthing":   "syncthing",
	// Infra (optionally displayed)
	"caddy": "caddy",
	"auth":  "auth",
	"vpn":   "vpn",
}

const defaultAllowed = "qbittorrent,prowlarr,sonarr,radarr,joal,syncthing,caddy,auth,vpn"

// Config is the immutable configuration of the process. Built once in main
// and injected everywhere; no API path mutates it.
type Config struct {
	Addr      string
	Services  map[string]string
	Whitelist []string
	HostFS    string
	HostProc  string
}

// fileConfig is the optional YAML override referenced by SB_CONFIG.
type fileConfig struct {
	Addr      string            `yaml:"addr"`
	Services  map[string]string `yaml:"services"`
	Whitelist []string          `yaml:"whitelist"`
	HostFS    string            `yaml:"hostfs"`
	HostProc  string            `yaml:"hostproc"`
}

// Load assembles the configuration from built-in defaults, the optional
// YAML file, and the environment, in that order of precedence.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:      DefaultAddr,
		Services:  make(map[string]string, len(defaultServices)),
		Whitelist: ParseList(defaultAllowed),
		HostFS:    DefaultHostFS,
		HostProc:  DefaultHostProc,
	}
	for k, v := range defaultServices {
		cfg.Services[k] = v
	}

	if path := os.Getenv(EnvConfig); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvAllowed); v != "" {
		cfg.Whitelist = ParseList(v)
	}
	if v := os.Getenv(EnvHostFS); v != "" {
		cfg.HostFS = v
	}
	if v := os.Getenv(EnvHostProc); v != "" {
		cfg.HostProc = v
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if fc.Addr != "" {
		c.Addr = fc.Addr
	}
	if len(fc.Services) > 0 {
		c.Services = fc.Services
	}
	if len(fc.Whitelist) > 0 {
		list := make([]string, 0, len(fc.Whitelist))
		for _, item := range fc.Whitelist {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		c.Whitelist = list
	}
	if fc.HostFS != "" {
		c.HostFS = fc.HostFS
	}
	if fc.HostProc != "" {
		c.HostProc = fc.HostProc
	}
	return nil
}

// ParseList splits a comma-separated list, trimming whitespace and
// discarding empty entries.
func ParseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
