// Package ingesttest provides processor fakes for engine and store tests.
package ingesttest

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/ingestd/ingest"
)

// TrackingProcessor records each document it executes and optionally fails.
type TrackingProcessor struct {
	TypeName string
	Err      error
	Invoked  int
	OnExec   func(doc *ingest.Document)
}

// NewTracking creates a tracking processor that succeeds.
func NewTracking(typeName string) *TrackingProcessor {
	return &TrackingProcessor{TypeName: typeName}
}

// NewFailing creates a tracking processor that fails with the given message.
func NewFailing(typeName, message string) *TrackingProcessor {
	return &TrackingProcessor{TypeName: typeName, Err: stderrors.New(message)}
}

// Type implements ingest.Processor.
func (p *TrackingProcessor) Type() string {
	if p.TypeName == "" {
		return "tracking"
	}
	return p.TypeName
}

// Execute implements ingest.Processor.
func (p *TrackingProcessor) Execute(ctx context.Context, doc *ingest.Document) error {
	p.Invoked++
	if p.OnExec != nil {
		p.OnExec(doc)
	}
	return p.Err
}

// RegisterTracking registers a factory producing tracking processors under
// the given type name. Each construction returns a fresh instance appended
// to created.
func RegisterTracking(registry *ingest.Registry, typeName string, created *[]*TrackingProcessor) error {
	return registry.Register(typeName, func(cfg *ingest.RawConfig) (ingest.Processor, error) {
		p := NewTracking(typeName)
		*created = append(*created, p)
		return p, nil
	})
}
