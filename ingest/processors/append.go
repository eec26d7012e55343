package processors

import (
	"context"

	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/ingest"
)

// TypeAppend is the type name of the append processor.
const TypeAppend = "append"

// Append adds a value to a list field. A missing field becomes a new
// single-element list; a scalar field is promoted to a list first.
type Append struct {
	field string
	value interface{}
}

// NewAppendFactory returns the factory for the append processor.
//
// Configuration: field (required), value (required).
func NewAppendFactory() ingest.Factory {
	return func(cfg *ingest.RawConfig) (ingest.Processor, error) {
		field, err := cfg.String(TypeAppend, "field")
		if err != nil {
			return nil, err
		}
		value, ok := cfg.Take("value")
		if !ok {
			return nil, errors.MissingField(TypeAppend, "value")
		}
		return &Append{field: field, value: value}, nil
	}
}

// Type implements ingest.Processor.
func (p *Append) Type() string { return TypeAppend }

// Execute implements ingest.Processor.
func (p *Append) Execute(ctx context.Context, doc *ingest.Document) error {
	var list []interface{}
	if existing, err := doc.Get(p.field); err == nil {
		if l, ok := existing.([]interface{}); ok {
			list = l
		} else {
			list = []interface{}{existing}
		}
	}
	list = append(list, p.value)
	if err := doc.Set(p.field, list); err != nil {
		return errors.ProcessingFailed(TypeAppend, err)
	}
	return nil
}

// Config implements ingest.ConfigRenderer.
func (p *Append) Config() map[string]interface{} {
	return map[string]interface{}{"field": p.field, "value": p.value}
}
