package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// parseYAML reads a YAML config file. Unknown keys are rejected so typos in
// security settings do not pass silently.
func parseYAML(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading yaml config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding yaml config: %w", err)
	}

	return cfg, nil
}
