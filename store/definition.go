package store

import (
	"github.com/kbukum/ingestd/ingest"
)

// Definition is one cache entry: a constructed pipeline together with the
// exact persisted payload it was built from and the version the persistence
// layer assigned to that payload.
type Definition struct {
	pipeline *ingest.Pipeline
	version  int64
	source   []byte
}

// NewDefinition creates a cache entry.
func NewDefinition(pipeline *ingest.Pipeline, version int64, source []byte) *Definition {
	return &Definition{pipeline: pipeline, version: version, source: source}
}

// Pipeline returns the constructed pipeline.
func (d *Definition) Pipeline() *ingest.Pipeline { return d.pipeline }

// Version returns the persistence-layer version of the backing payload.
func (d *Definition) Version() int64 { return d.version }

// Source returns the exact persisted payload the pipeline was built from.
func (d *Definition) Source() []byte { return d.source }

// snapshot is one immutable generation of the cache. Readers load the
// current snapshot atomically; writers build a new one and swap it in
// wholesale, never mutating a published generation.
type snapshot struct {
	pipelines map[string]*Definition
}

var emptySnapshot = &snapshot{pipelines: map[string]*Definition{}}

func (s *snapshot) clone() map[string]*Definition {
	next := make(map[string]*Definition, len(s.pipelines))
	for id, def := range s.pipelines {
		next[id] = def
	}
	return next
}
