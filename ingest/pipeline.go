package ingest

import (
	"context"
)

// Pipeline is a named, described chain of processors with an associated
// failure-recovery chain, grouped under a unique id. Immutable once
// constructed; rebuilt, never mutated, when its backing configuration changes.
type Pipeline struct {
	id          string
	description string
	processor   *CompoundProcessor
}

// NewPipeline creates a pipeline around one top-level compound processor.
func NewPipeline(id, description string, processor *CompoundProcessor) *Pipeline {
	return &Pipeline{id: id, description: description, processor: processor}
}

// ID returns the unique id of this pipeline.
func (p *Pipeline) ID() string { return p.id }

// Description returns the optional description of what this pipeline does to
// the documents it processes.
func (p *Pipeline) Description() string { return p.description }

// Processors returns the processor chain.
func (p *Pipeline) Processors() []Processor { return p.processor.Processors() }

// OnFailureProcessors returns the pipeline-level failure-recovery chain.
func (p *Pipeline) OnFailureProcessors() []Processor { return p.processor.OnFailureProcessors() }

// Execute transforms the document through the pipeline's processor chain.
func (p *Pipeline) Execute(ctx context.Context, doc *Document) error {
	return p.processor.Execute(ctx, doc)
}

// Config renders the pipeline back to a configuration map. Re-parsing the
// result through the factory yields a functionally equivalent pipeline.
func (p *Pipeline) Config() map[string]interface{} {
	config := make(map[string]interface{})
	if p.description != "" {
		config[KeyDescription] = p.description
	}
	if procs := renderProcessorList(p.Processors()); procs != nil {
		config[KeyProcessors] = procs
	}
	if onFailure := renderProcessorList(p.OnFailureProcessors()); onFailure != nil {
		config[KeyOnFailure] = onFailure
	}
	return config
}

func renderProcessorList(processors []Processor) []interface{} {
	if len(processors) == 0 {
		return nil
	}
	list := make([]interface{}, 0, len(processors))
	for _, proc := range processors {
		list = append(list, renderProcessor(proc))
	}
	return list
}

// renderProcessor produces the single-key type→config entry for a processor.
// A compound wrapper around a single step renders as that step with its
// local on_failure chain nested inside the step's config block.
func renderProcessor(proc Processor) map[string]interface{} {
	if compound, ok := proc.(*CompoundProcessor); ok && len(compound.Processors()) == 1 {
		inner := compound.Processors()[0]
		config := renderConfig(inner)
		if onFailure := renderProcessorList(compound.OnFailureProcessors()); onFailure != nil {
			config[KeyOnFailure] = onFailure
		}
		return map[string]interface{}{inner.Type(): config}
	}
	return map[string]interface{}{proc.Type(): renderConfig(proc)}
}

func renderConfig(proc Processor) map[string]interface{} {
	if renderer, ok := proc.(ConfigRenderer); ok {
		return renderer.Config()
	}
	return map[string]interface{}{}
}
