package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory, then the home directory
const DefaultConfigFile = ".storeprobe.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk probe configuration. Every field is optional.
type File struct {
	BaseURL       string `yaml:"base_url"`
	Password      string `yaml:"password"`
	ChallengePath string `yaml:"challenge_path"`
	Driver        string `yaml:"driver"`
	Browser       string `yaml:"browser"`
	Headless      *bool  `yaml:"headless"`
	Timeout       string `yaml:"timeout"`
}

// LoadConfigFile reads a YAML configuration file
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile returns configPath if it exists, otherwise the first
// DefaultConfigFile found in the working or home directory. Empty if none.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func (f *File) apply(c *ProbeConfig) error {
	setString(&c.BaseURL, f.BaseURL)
	setString(&c.Password, f.Password)
	setString(&c.ChallengePath, f.ChallengePath)
	setString(&c.Driver, strings.ToLower(f.Driver))
	setString(&c.Browser, strings.ToLower(f.Browser))
	if f.Headless != nil {
		c.Headless = *f.Headless
	}
	if f.Timeout != "" {
		timeout, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = timeout
	}
	return nil
}
