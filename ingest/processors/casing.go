package processors

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/ingest"
)

// Type names of the string casing processors.
const (
	TypeUppercase = "uppercase"
	TypeLowercase = "lowercase"
)

// Casing converts a string field to upper or lower case. Fails when the
// field is absent or not a string.
type Casing struct {
	processorType string
	field         string
}

// NewCasingFactory returns the factory for the given casing processor type
// (TypeUppercase or TypeLowercase).
//
// Configuration: field (required).
func NewCasingFactory(processorType string) ingest.Factory {
	return func(cfg *ingest.RawConfig) (ingest.Processor, error) {
		field, err := cfg.String(processorType, "field")
		if err != nil {
			return nil, err
		}
		return &Casing{processorType: processorType, field: field}, nil
	}
}

// Type implements ingest.Processor.
func (p *Casing) Type() string { return p.processorType }

// Execute implements ingest.Processor.
func (p *Casing) Execute(ctx context.Context, doc *ingest.Document) error {
	value, err := doc.Get(p.field)
	if err != nil {
		return errors.ProcessingFailed(p.processorType, err)
	}
	s, ok := value.(string)
	if !ok {
		return errors.ProcessingFailed(p.processorType, fmt.Errorf("field [%s] of type [%T] cannot be cast to a string", p.field, value))
	}
	if p.processorType == TypeUppercase {
		s = strings.ToUpper(s)
	} else {
		s = strings.ToLower(s)
	}
	if err := doc.Set(p.field, s); err != nil {
		return errors.ProcessingFailed(p.processorType, err)
	}
	return nil
}

// Config implements ingest.ConfigRenderer.
func (p *Casing) Config() map[string]interface{} {
	return map[string]interface{}{"field": p.field}
}
