package ingest

import (
	"context"
)

// CompoundProcessorType is the type name reported by compound processors.
const CompoundProcessorType = "compound"

// CompoundProcessor composes an ordered processor chain with an ordered
// failure-recovery chain. When a step fails and the recovery chain is
// non-empty, recovery fully replaces the remainder of the chain for that
// document; remaining steps are never resumed. An empty recovery chain
// propagates the original error unchanged.
type CompoundProcessor struct {
	processors []Processor
	onFailure  []Processor
}

// NewCompoundProcessor creates a compound processor over the given chains.
func NewCompoundProcessor(processors, onFailure []Processor) *CompoundProcessor {
	return &CompoundProcessor{processors: processors, onFailure: onFailure}
}

// Type implements Processor.
func (p *CompoundProcessor) Type() string { return CompoundProcessorType }

// Processors returns the processor chain.
func (p *CompoundProcessor) Processors() []Processor { return p.processors }

// OnFailureProcessors returns the failure-recovery chain.
func (p *CompoundProcessor) OnFailureProcessors() []Processor { return p.onFailure }

// Execute runs the processor chain in order against the document. A step
// failure with a non-empty recovery chain runs recovery against the same
// document, with the original error exposed as ingest metadata, and the
// execution succeeds; a failure inside the recovery chain itself propagates
// to the caller.
func (p *CompoundProcessor) Execute(ctx context.Context, doc *Document) error {
	for _, proc := range p.processors {
		if err := proc.Execute(ctx, doc); err != nil {
			if len(p.onFailure) == 0 {
				return err
			}
			return p.executeOnFailure(ctx, doc, err, proc.Type())
		}
	}
	return nil
}

func (p *CompoundProcessor) executeOnFailure(ctx context.Context, doc *Document, cause error, failedType string) error {
	doc.setFailureMeta(cause, failedType)
	for _, proc := range p.onFailure {
		if err := proc.Execute(ctx, doc); err != nil {
			return err
		}
	}
	doc.clearFailureMeta()
	return nil
}
