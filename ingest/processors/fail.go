package processors

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/ingestd/ingest"
)

// TypeFailAlways is the type name of the fail processor.
const TypeFailAlways = "fail_always"

// Fail unconditionally fails for every document. Used to reject documents
// from a pipeline and to exercise failure-recovery chains.
type Fail struct {
	message string
}

// NewFailFactory returns the factory for the fail processor.
//
// Configuration: message (optional).
func NewFailFactory() ingest.Factory {
	return func(cfg *ingest.RawConfig) (ingest.Processor, error) {
		message, err := cfg.OptionalString(TypeFailAlways, "message", "fail processor executed")
		if err != nil {
			return nil, err
		}
		return &Fail{message: message}, nil
	}
}

// Type implements ingest.Processor.
func (p *Fail) Type() string { return TypeFailAlways }

// Execute implements ingest.Processor.
func (p *Fail) Execute(ctx context.Context, doc *ingest.Document) error {
	return stderrors.New(p.message)
}

// Config implements ingest.ConfigRenderer.
func (p *Fail) Config() map[string]interface{} {
	if p.message == "fail processor executed" {
		return map[string]interface{}{}
	}
	return map[string]interface{}{"message": p.message}
}
