package processors

import (
	"context"
	"fmt"

	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/ingest"
)

// TypeRename is the type name of the rename processor.
const TypeRename = "rename"

// Rename moves a field to a new path. Fails when the source field is absent
// or the target field already exists.
type Rename struct {
	field       string
	targetField string
}

// NewRenameFactory returns the factory for the rename processor.
//
// Configuration: field (required), target_field (required).
func NewRenameFactory() ingest.Factory {
	return func(cfg *ingest.RawConfig) (ingest.Processor, error) {
		field, err := cfg.String(TypeRename, "field")
		if err != nil {
			return nil, err
		}
		targetField, err := cfg.String(TypeRename, "target_field")
		if err != nil {
			return nil, err
		}
		return &Rename{field: field, targetField: targetField}, nil
	}
}

// Type implements ingest.Processor.
func (p *Rename) Type() string { return TypeRename }

// Execute implements ingest.Processor.
func (p *Rename) Execute(ctx context.Context, doc *ingest.Document) error {
	value, err := doc.Get(p.field)
	if err != nil {
		return errors.ProcessingFailed(TypeRename, err)
	}
	if doc.Has(p.targetField) {
		return errors.ProcessingFailed(TypeRename, fmt.Errorf("field [%s] already exists", p.targetField))
	}
	if err := doc.Set(p.targetField, value); err != nil {
		return errors.ProcessingFailed(TypeRename, err)
	}
	if err := doc.Remove(p.field); err != nil {
		return errors.ProcessingFailed(TypeRename, err)
	}
	return nil
}

// Config implements ingest.ConfigRenderer.
func (p *Rename) Config() map[string]interface{} {
	return map[string]interface{}{"field": p.field, "target_field": p.targetField}
}
