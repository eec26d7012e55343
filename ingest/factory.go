package ingest

import (
	"fmt"

	"github.com/kbukum/ingestd/errors"
)

// Top-level pipeline configuration keys.
const (
	KeyDescription = "description"
	KeyProcessors  = "processors"
	KeyOnFailure   = "on_failure"
)

// NewPipelineFromConfig parses a raw configuration map into a Pipeline,
// recursively invoking the registry and enforcing strict unknown-key
// validation. Processors are constructed eagerly; any error discards the
// whole pipeline, never a partially constructed one.
func NewPipelineFromConfig(id string, config map[string]interface{}, registry *Registry) (*Pipeline, error) {
	raw := NewRawConfig(config)
	description, err := raw.OptionalString(id, KeyDescription, "")
	if err != nil {
		return nil, err
	}
	processors, err := readProcessorList(id, KeyProcessors, raw, registry)
	if err != nil {
		return nil, err
	}
	onFailure, err := readProcessorList(id, KeyOnFailure, raw, registry)
	if err != nil {
		return nil, err
	}
	if err := raw.EnsureEmpty(id); err != nil {
		return nil, err
	}
	return NewPipeline(id, description, NewCompoundProcessor(processors, onFailure)), nil
}

// readProcessorList reads a list of single-key type→config entries from the
// named property of the given scope.
func readProcessorList(scope, name string, raw *RawConfig, registry *Registry) ([]Processor, error) {
	entries, err := raw.OptionalList(scope, name)
	if err != nil {
		return nil, err
	}
	var processors []Processor
	for _, entry := range entries {
		typed, ok := entry.(map[string]interface{})
		if !ok {
			return nil, errors.InvalidPipeline(scope, fmt.Sprintf("entry in [%s] isn't an object, but of type [%T]", name, entry))
		}
		for processorType, value := range typed {
			config, ok := value.(map[string]interface{})
			if !ok {
				if value == nil {
					config = map[string]interface{}{}
				} else {
					return nil, errors.InvalidPipeline(scope, fmt.Sprintf("config for processor [%s] isn't an object, but of type [%T]", processorType, value))
				}
			}
			processor, err := readProcessor(processorType, config, registry)
			if err != nil {
				return nil, err
			}
			processors = append(processors, processor)
		}
	}
	return processors, nil
}

// readProcessor builds one processor from its config block. A nested
// on_failure list inside the block wraps that processor alone in a local
// compound processor; the local handler takes precedence over the
// pipeline-level handler for errors raised by that step.
func readProcessor(processorType string, config map[string]interface{}, registry *Registry) (Processor, error) {
	factory, ok := registry.Get(processorType)
	if !ok {
		return nil, errors.UnknownProcessor(processorType)
	}
	raw := NewRawConfig(config)
	onFailure, err := readProcessorList(processorType, KeyOnFailure, raw, registry)
	if err != nil {
		return nil, err
	}
	processor, err := factory(raw)
	if err != nil {
		return nil, err
	}
	if err := raw.EnsureEmpty(processorType); err != nil {
		return nil, err
	}
	if len(onFailure) == 0 {
		return processor, nil
	}
	return NewCompoundProcessor([]Processor{processor}, onFailure), nil
}
