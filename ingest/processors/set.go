package processors

import (
	"context"

	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/ingest"
)

// TypeSet is the type name of the set processor.
const TypeSet = "set"

// Set writes a fixed value to a field, overwriting any existing value and
// creating intermediate objects as needed.
type Set struct {
	field string
	value interface{}
}

// NewSetFactory returns the factory for the set processor.
//
// Configuration: field (required), value (required).
func NewSetFactory() ingest.Factory {
	return func(cfg *ingest.RawConfig) (ingest.Processor, error) {
		field, err := cfg.String(TypeSet, "field")
		if err != nil {
			return nil, err
		}
		value, ok := cfg.Take("value")
		if !ok {
			return nil, errors.MissingField(TypeSet, "value")
		}
		return &Set{field: field, value: value}, nil
	}
}

// Type implements ingest.Processor.
func (p *Set) Type() string { return TypeSet }

// Execute implements ingest.Processor.
func (p *Set) Execute(ctx context.Context, doc *ingest.Document) error {
	if err := doc.Set(p.field, p.value); err != nil {
		return errors.ProcessingFailed(TypeSet, err)
	}
	return nil
}

// Config implements ingest.ConfigRenderer.
func (p *Set) Config() map[string]interface{} {
	return map[string]interface{}{"field": p.field, "value": p.value}
}
