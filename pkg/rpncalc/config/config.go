package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// File is a parsed rule file.
type File struct {
	// Rules are evaluated by name.
	Rules []Rule `yaml:"rules" json:"rules"`

	// Defaults are variable bindings applied under caller-supplied ones.
	Defaults map[string]float64 `yaml:"defaults" json:"defaults"`

	// Settings holds free-form tool settings.
	Settings Settings `yaml:"settings" json:"settings"`
}

// Rule is one named expression.
type Rule struct {
	Name        string `yaml:"name" json:"name"`
	Expr        string `yaml:"expr" json:"expr"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Sentinel errors for rule file validation.
var (
	ErrMissingName   = errors.New("rule name is required")
	ErrMissingExpr   = errors.New("rule expression is required")
	ErrDuplicateRule = errors.New("duplicate rule name")
)

// Validate checks that every rule has a unique name and an expression.
// Expressions are not parsed here.
func (f *File) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(f.Rules))
	for i, r := range f.Rules {
		switch {
		case r.Name == "":
			errs = append(errs, fmt.Errorf("rules[%d]: %w", i, ErrMissingName))
		case seen[r.Name]:
			errs = append(errs, fmt.Errorf("rules[%d] %s: %w", i, r.Name, ErrDuplicateRule))
		case r.Expr == "":
			errs = append(errs, fmt.Errorf("rules[%d] %s: %w", i, r.Name, ErrMissingExpr))
		}
		seen[r.Name] = true
	}
	return errors.Join(errs...)
}

// Settings wraps a map[string]any for type-safe value extraction.
// Accessors return the default when the key is missing or has the wrong type.
type Settings struct {
	data map[string]any
}

// NewSettings creates Settings from the given map.
func NewSettings(data map[string]any) Settings {
	if data == nil {
		data = make(map[string]any)
	}
	return Settings{data: data}
}

// String returns the string value for key, or defaultVal.
func (s Settings) String(key, defaultVal string) string {
	if v, ok := s.data[key].(string); ok {
		return v
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal.
func (s Settings) Bool(key string, defaultVal bool) bool {
	if v, ok := s.data[key].(bool); ok {
		return v
	}
	return defaultVal
}

// Duration returns the duration for key, or defaultVal.
// Strings use time.ParseDuration syntax; bare numbers are seconds.
func (s Settings) Duration(key string, defaultVal time.Duration) time.Duration {
	switch v := s.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal.
// A float with a fractional part is not an integer.
func (s Settings) Int(key string, defaultVal int) int {
	switch v := s.data[key].(type) {
	case int:
		return v
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return defaultVal
}

// Float returns the numeric value for key, or defaultVal.
func (s Settings) Float(key string, defaultVal float64) float64 {
	switch v := s.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return defaultVal
}

// Has returns true if the key exists.
func (s Settings) Has(key string) bool {
	_, ok := s.data[key]
	return ok
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Settings) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	*s = NewSettings(m)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = NewSettings(m)
	return nil
}
