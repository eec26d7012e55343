package ingest

import (
	"fmt"
	"strings"
)

// MetaPrefix addresses the transient ingest metadata namespace. Fields under
// this prefix live alongside the document during pipeline execution but are
// not part of its persisted source.
const MetaPrefix = "_ingest."

// Failure metadata keys set for the duration of a failure-recovery chain.
const (
	MetaFailureMessage       = MetaPrefix + "on_failure_message"
	MetaFailureProcessorType = MetaPrefix + "on_failure_processor_type"
)

// Document is the mutable key/value container passed through a pipeline.
// Fields are addressed by dotted paths ("user.name"); intermediate objects
// are created on write. The zero value is not usable, use NewDocument.
type Document struct {
	source map[string]interface{}
	meta   map[string]interface{}
}

// NewDocument creates a document over the given source map. A nil source is
// replaced with an empty map. The document takes ownership of the map.
func NewDocument(source map[string]interface{}) *Document {
	if source == nil {
		source = make(map[string]interface{})
	}
	return &Document{
		source: source,
		meta:   make(map[string]interface{}),
	}
}

// Source returns the document's backing map.
func (d *Document) Source() map[string]interface{} {
	return d.source
}

// Get resolves a dotted field path. Paths under MetaPrefix read the ingest
// metadata namespace instead of the source.
func (d *Document) Get(path string) (interface{}, error) {
	root, key := d.resolve(path)
	parts := strings.Split(key, ".")
	current := root
	for i, part := range parts {
		value, ok := current[part]
		if !ok {
			return nil, fmt.Errorf("field [%s] not present as part of path [%s]", part, path)
		}
		if i == len(parts)-1 {
			return value, nil
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("cannot resolve [%s] in path [%s] as it is not an object", part, path)
		}
		current = next
	}
	return nil, fmt.Errorf("empty path")
}

// Has reports whether a dotted field path resolves to a value.
func (d *Document) Has(path string) bool {
	_, err := d.Get(path)
	return err == nil
}

// Set writes a value at a dotted field path, creating intermediate objects
// as needed. It fails when an intermediate path segment exists but is not
// an object.
func (d *Document) Set(path string, value interface{}) error {
	root, key := d.resolve(path)
	parts := strings.Split(key, ".")
	current := root
	for i, part := range parts {
		if i == len(parts)-1 {
			current[part] = value
			return nil
		}
		existing, ok := current[part]
		if !ok {
			next := make(map[string]interface{})
			current[part] = next
			current = next
			continue
		}
		next, ok := existing.(map[string]interface{})
		if !ok {
			return fmt.Errorf("cannot set [%s] in path [%s]: [%s] is not an object", parts[len(parts)-1], path, part)
		}
		current = next
	}
	return nil
}

// Remove deletes the value at a dotted field path. It fails when the path
// does not resolve.
func (d *Document) Remove(path string) error {
	root, key := d.resolve(path)
	parts := strings.Split(key, ".")
	current := root
	for i, part := range parts {
		if i == len(parts)-1 {
			if _, ok := current[part]; !ok {
				return fmt.Errorf("field [%s] not present as part of path [%s]", part, path)
			}
			delete(current, part)
			return nil
		}
		next, ok := current[part].(map[string]interface{})
		if !ok {
			return fmt.Errorf("field [%s] not present as part of path [%s]", part, path)
		}
		current = next
	}
	return fmt.Errorf("empty path")
}

// resolve picks the namespace a path addresses and strips the meta prefix.
func (d *Document) resolve(path string) (map[string]interface{}, string) {
	if strings.HasPrefix(path, MetaPrefix) {
		return d.meta, strings.TrimPrefix(path, MetaPrefix)
	}
	return d.source, path
}

// setFailureMeta records the error a failure-recovery chain is handling.
func (d *Document) setFailureMeta(err error, processorType string) {
	d.meta["on_failure_message"] = err.Error()
	d.meta["on_failure_processor_type"] = processorType
}

// clearFailureMeta removes failure metadata once recovery completes.
func (d *Document) clearFailureMeta() {
	delete(d.meta, "on_failure_message")
	delete(d.meta, "on_failure_processor_type")
}
