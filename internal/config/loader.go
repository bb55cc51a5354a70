package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromPath reads a config file (YAML or JSON) and returns the
// parsed Config. Format is detected by extension, or by content when
// the extension is unknown.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses config bytes. ext is the file extension hint (".yaml",
// ".json"); empty means detect from the first non-whitespace character.
func Load(data []byte, ext string) (*Config, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	switch ext {
	case ".yaml":
		return loadYAML(data)
	case ".json":
		return loadJSON(data)
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		return loadJSON(data)
	}
	return loadYAML(data)
}

func loadYAML(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &c, nil
}

func loadJSON(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config json: %w", err)
	}
	return &c, nil
}
