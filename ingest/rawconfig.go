package ingest

import (
	"fmt"
	"sort"

	"github.com/kbukum/ingestd/errors"
)

// RawConfig wraps a configuration map consumed top-down: each recognized key
// is removed as it is read, and any keys remaining at the end of a parse
// scope are a validation error. Write-once, fully consumed.
type RawConfig struct {
	values map[string]interface{}
}

// NewRawConfig wraps the given map. The wrapper takes ownership; callers
// should not reuse the map afterwards.
func NewRawConfig(values map[string]interface{}) *RawConfig {
	if values == nil {
		values = make(map[string]interface{})
	}
	return &RawConfig{values: values}
}

// Take consumes and returns an arbitrary value.
func (c *RawConfig) Take(name string) (interface{}, bool) {
	v, ok := c.values[name]
	if ok {
		delete(c.values, name)
	}
	return v, ok
}

// String consumes a required string property.
func (c *RawConfig) String(scope, name string) (string, error) {
	v, ok := c.Take(name)
	if !ok {
		return "", errors.MissingField(scope, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.InvalidPipeline(scope, fmt.Sprintf("property [%s] isn't a string, but of type [%T]", name, v))
	}
	return s, nil
}

// OptionalString consumes an optional string property, returning the
// fallback when absent.
func (c *RawConfig) OptionalString(scope, name, fallback string) (string, error) {
	v, ok := c.Take(name)
	if !ok {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.InvalidPipeline(scope, fmt.Sprintf("property [%s] isn't a string, but of type [%T]", name, v))
	}
	return s, nil
}

// OptionalList consumes an optional list property. Returns nil when absent.
func (c *RawConfig) OptionalList(scope, name string) ([]interface{}, error) {
	v, ok := c.Take(name)
	if !ok {
		return nil, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, errors.InvalidPipeline(scope, fmt.Sprintf("property [%s] isn't a list, but of type [%T]", name, v))
	}
	return list, nil
}

// Empty reports whether every key has been consumed.
func (c *RawConfig) Empty() bool {
	return len(c.values) == 0
}

// Remaining returns the unconsumed keys in sorted order.
func (c *RawConfig) Remaining() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnsureEmpty fails with a configuration error when unconsumed keys remain
// in this scope.
func (c *RawConfig) EnsureEmpty(scope string) error {
	if c.Empty() {
		return nil
	}
	return errors.UnsupportedParameters(scope, c.Remaining())
}
