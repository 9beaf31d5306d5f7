// Package config loads project-level chopper settings from chopper.yml.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from chopper.yml.
type ProjectConfig struct {
	Bound          int      `yaml:"bound,omitempty"`
	PenaltyProfile string   `yaml:"penaltyProfile,omitempty"` // "default" or "strict"
	IsolateKinds   []string `yaml:"isolateKinds,omitempty"`   // subset of Method, Function, Predicate
	StorePath      string   `yaml:"storePath,omitempty"`      // kuzu file-store path; empty = in-memory
	ExportFormat   string   `yaml:"exportFormat,omitempty"`   // "json" or "mermaid"
	Verbose        bool     `yaml:"verbose,omitempty"`
}

// Load attempts to read chopper.yml or chopper.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"chopper.yml", "chopper.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
