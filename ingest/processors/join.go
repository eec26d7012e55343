package processors

import (
	"context"

	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/ingest"
)

// TypeJoin is the type name of the join processor.
const TypeJoin = "join"

// Join stamps a parent/child join value onto the document for the downstream
// mapping layer. The parent type is required; optionally the parent id is
// read from another field of the document.
type Join struct {
	field         string
	parentType    string
	parentIDField string
}

// NewJoinFactory returns the factory for the join processor.
//
// Configuration: parent_type (required), field (optional, default "_join"),
// parent_id_field (optional).
func NewJoinFactory() ingest.Factory {
	return func(cfg *ingest.RawConfig) (ingest.Processor, error) {
		parentType, err := cfg.String(TypeJoin, "parent_type")
		if err != nil {
			return nil, err
		}
		field, err := cfg.OptionalString(TypeJoin, "field", "_join")
		if err != nil {
			return nil, err
		}
		parentIDField, err := cfg.OptionalString(TypeJoin, "parent_id_field", "")
		if err != nil {
			return nil, err
		}
		return &Join{field: field, parentType: parentType, parentIDField: parentIDField}, nil
	}
}

// Type implements ingest.Processor.
func (p *Join) Type() string { return TypeJoin }

// Execute implements ingest.Processor.
func (p *Join) Execute(ctx context.Context, doc *ingest.Document) error {
	value := map[string]interface{}{"name": p.parentType}
	if p.parentIDField != "" {
		parentID, err := doc.Get(p.parentIDField)
		if err != nil {
			return errors.ProcessingFailed(TypeJoin, err)
		}
		value["parent"] = parentID
	}
	if err := doc.Set(p.field, value); err != nil {
		return errors.ProcessingFailed(TypeJoin, err)
	}
	return nil
}

// Config implements ingest.ConfigRenderer.
func (p *Join) Config() map[string]interface{} {
	config := map[string]interface{}{"parent_type": p.parentType}
	if p.field != "_join" {
		config["field"] = p.field
	}
	if p.parentIDField != "" {
		config["parent_id_field"] = p.parentIDField
	}
	return config
}
