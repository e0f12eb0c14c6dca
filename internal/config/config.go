// Package config loads the orderreg YAML configuration file and exposes
// the template resolver capability backed by it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration, loaded from a YAML file.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Template TemplateConfig `yaml:"template"`
}

// StorageConfig locates the register's on-disk state.
type StorageConfig struct {
	// Root is the directory holding partitions, attachments and the index.
	Root string `yaml:"root"`
}

// TemplateConfig locates workbook templates by name.
type TemplateConfig struct {
	// Root is the directory holding *_template.xlsx files.
	Root string `yaml:"root"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Storage.Root == "" {
		return nil, fmt.Errorf("config %s: storage.root is required", path)
	}
	if cfg.Template.Root == "" {
		return nil, fmt.Errorf("config %s: template.root is required", path)
	}

	return &cfg, nil
}

// ResolveTemplate returns the path of the named workbook template.
// The file must already exist; templates are provisioned out of band.
func (c TemplateConfig) ResolveTemplate(name string) (string, error) {
	path := filepath.Join(c.Root, name+"_template.xlsx")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("template %q: %w", name, err)
	}
	return path, nil
}
