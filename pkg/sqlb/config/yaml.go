package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLConfig holds the scalar values of a YAML document. Nested maps are
// flattened into upper-case keys joined with "_", so
//
//	db:
//	  dialect: sqlite
//
// is read with Get("DB_DIALECT").
type YAMLConfig struct {
	values map[string]string
}

func NewYAMLFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseYAML(data)
}

func ParseYAML(data []byte) (*YAMLConfig, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml config: %w", err)
	}

	c := &YAMLConfig{values: make(map[string]string)}
	c.flatten("", doc)

	return c, nil
}

func (c *YAMLConfig) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}

		switch t := v.(type) {
		case map[string]any:
			c.flatten(key, t)
		case nil:
			c.values[key] = ""
		default:
			c.values[key] = fmt.Sprint(t)
		}
	}
}

// Get falls back to the process environment for keys missing from the file.
func (c *YAMLConfig) Get(key string) string {
	if v, ok := c.values[key]; ok {
		return v
	}

	return os.Getenv(key)
}

func (c *YAMLConfig) GetOrDefault(key, defaultValue string) string {
	if v := c.Get(key); v != "" {
		return v
	}

	return defaultValue
}
