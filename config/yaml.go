package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// readYamlConfig decodes a single YAML document into cfg, rejecting unknown keys
// so that typos in section names do not silently disable a watcher.
func readYamlConfig(cfg *Config, blob []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(blob))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty config", ErrInvalidConfig)
	}
	if err != nil {
		return fmt.Errorf("can't parse yaml config: %w", err)
	}
	var extra yaml.Node
	if err = dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: config must contain exactly one yaml document", ErrInvalidConfig)
	}
	return nil
}
