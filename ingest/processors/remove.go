package processors

import (
	"context"

	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/ingest"
)

// TypeRemove is the type name of the remove processor.
const TypeRemove = "remove"

// Remove deletes a field from the document. Fails when the field is absent.
type Remove struct {
	field string
}

// NewRemoveFactory returns the factory for the remove processor.
//
// Configuration: field (required).
func NewRemoveFactory() ingest.Factory {
	return func(cfg *ingest.RawConfig) (ingest.Processor, error) {
		field, err := cfg.String(TypeRemove, "field")
		if err != nil {
			return nil, err
		}
		return &Remove{field: field}, nil
	}
}

// Type implements ingest.Processor.
func (p *Remove) Type() string { return TypeRemove }

// Execute implements ingest.Processor.
func (p *Remove) Execute(ctx context.Context, doc *ingest.Document) error {
	if err := doc.Remove(p.field); err != nil {
		return errors.ProcessingFailed(TypeRemove, err)
	}
	return nil
}

// Config implements ingest.ConfigRenderer.
func (p *Remove) Config() map[string]interface{} {
	return map[string]interface{}{"field": p.field}
}
