// Package store implements the pipeline definition store: the authoritative
// persisted control collection, an in-memory versioned cache of constructed
// pipelines, and the reconciliation protocol that keeps the cache consistent
// with the collection across a cluster of cooperating nodes.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/kbukum/ingestd/docstore"
	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/ingest"
	"github.com/kbukum/ingestd/logger"
	"github.com/kbukum/ingestd/observability"
	"github.com/kbukum/ingestd/util"
)

// Broadcaster requests every cooperating node (including this one) to re-run
// reconciliation. Best-effort: individual peer failures do not change the
// result of the write that triggered the broadcast.
type Broadcaster interface {
	ReloadAll(ctx context.Context) error
}

// Config holds pipeline store settings.
type Config struct {
	// ScrollBatchSize is the page size used when scroll-reading the control
	// collection during reconciliation.
	ScrollBatchSize int `yaml:"scroll_batch_size" mapstructure:"scroll_batch_size"`
	// PipelineDir optionally names a directory of YAML pipeline definitions
	// preloaded into the control collection on startup.
	PipelineDir string `yaml:"pipeline_dir" mapstructure:"pipeline_dir"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ScrollBatchSize <= 0 {
		c.ScrollBatchSize = 100
	}
}

// Store owns the persisted pipeline collection and the in-memory cache.
// Reads are lock-free over an immutable snapshot; mutating operations
// (Start, Stop, UpdatePipelines) serialize on one mutex.
type Store struct {
	docs     docstore.Store
	registry *ingest.Registry
	cfg      Config
	log      *logger.Logger

	// reloader is set after construction to break the store/coordinator
	// dependency; nil means local-only reload.
	reloader Broadcaster
	// metrics is optional; nil disables reload instrumentation.
	metrics *observability.Metrics

	mu       sync.Mutex
	started  atomic.Bool
	current  atomic.Pointer[snapshot]
	createMu sync.Mutex
}

// New creates a pipeline store over the given document store and processor
// registry.
func New(docs docstore.Store, registry *ingest.Registry, cfg Config, log *logger.Logger) *Store {
	cfg.ApplyDefaults()
	s := &Store{
		docs:     docs,
		registry: registry,
		cfg:      cfg,
		log:      log.WithComponent("pipeline-store"),
	}
	s.current.Store(emptySnapshot)
	return s
}

// SetBroadcaster wires the cluster reload coordinator. Must be called before
// Start when cluster-wide reload is wanted.
func (s *Store) SetBroadcaster(b Broadcaster) {
	s.reloader = b
}

// SetMetrics wires reload instrumentation. Optional.
func (s *Store) SetMetrics(m *observability.Metrics) {
	s.metrics = m
}

// Start runs the first reconciliation and marks the store ready. Idempotent.
// A control collection violating the required schema refuses readiness.
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.Load() {
		s.log.Debug("Pipeline store already started")
		return nil
	}
	spec, exists, err := s.docs.Collection(ctx, Collection)
	if err != nil {
		return errors.StoreUnavailable("start", err)
	}
	if exists {
		if err := VerifyCollectionSpec(spec); err != nil {
			return err
		}
	}
	if err := s.updatePipelinesLocked(ctx); err != nil {
		return err
	}
	s.started.Store(true)
	s.log.Info("Pipeline store started", map[string]interface{}{
		"pipelines": len(s.current.Load().pipelines),
	})
	return nil
}

// Stop marks the store not ready and clears the cache. Idempotent.
func (s *Store) Stop(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started.Load() {
		s.log.Debug("Pipeline store already stopped")
		return
	}
	s.started.Store(false)
	s.current.Store(emptySnapshot)
	s.log.Info("Pipeline store stopped", map[string]interface{}{"reason": reason})
}

// Ready reports whether the store has completed its first reconciliation.
func (s *Store) Ready() bool {
	return s.started.Load()
}

func (s *Store) ensureReady() error {
	if !s.started.Load() {
		return errors.NotReady()
	}
	return nil
}

// Get returns the cached pipeline by id.
func (s *Store) Get(id string) (*ingest.Pipeline, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	def, ok := s.current.Load().pipelines[id]
	if !ok {
		return nil, errors.NotFound("pipeline", id)
	}
	return def.Pipeline(), nil
}

// Definitions glob-expands the given id expressions against the cached ids
// and returns every matching definition. Plain ids match exactly; no
// expressions means every definition.
func (s *Store) Definitions(ids ...string) ([]*Definition, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	pipelines := s.current.Load().pipelines
	var result []*Definition
	if len(ids) == 0 {
		for _, def := range pipelines {
			result = append(result, def)
		}
		return result, nil
	}
	for _, id := range ids {
		if util.IsSimpleMatchPattern(id) {
			for cachedID, def := range pipelines {
				if util.SimpleMatch(id, cachedID) {
					result = append(result, def)
				}
			}
		} else if def, ok := pipelines[id]; ok {
			result = append(result, def)
		}
	}
	return result, nil
}

// Put validates the pipeline configuration, persists it, and triggers a
// cluster-wide reload. It returns the version assigned to the payload.
// Validation failures surface before any persistence write.
func (s *Store) Put(ctx context.Context, id string, source []byte) (int64, error) {
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	if _, err := s.construct(id, source); err != nil {
		return 0, err
	}
	if err := s.ensureCollection(ctx); err != nil {
		return 0, err
	}
	version, err := s.docs.Put(ctx, Collection, id, source)
	if err != nil {
		return 0, errors.StoreUnavailable("put", err)
	}
	s.broadcastReload(ctx)
	return version, nil
}

// Delete removes the persisted pipeline and triggers a cluster-wide reload.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	found, err := s.docs.Delete(ctx, Collection, id)
	if err != nil {
		return errors.StoreUnavailable("delete", err)
	}
	if !found {
		return errors.NotFound("pipeline", id)
	}
	s.broadcastReload(ctx)
	return nil
}

// UpdatePipelines reconciles the in-memory cache against the persisted
// collection: new or changed definitions are rebuilt, entries whose backing
// document is gone are evicted, and the result is published as one atomic
// snapshot swap. Run at startup and on every reload broadcast.
func (s *Store) UpdatePipelines(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatePipelinesLocked(ctx)
}

// The update logic isn't fast or smart, but there will not be many
// pipelines, so the goal is to keep it simple.
func (s *Store) updatePipelinesLocked(ctx context.Context) error {
	old := s.current.Load()
	next := old.clone()
	seen := make(map[string]struct{})

	changed := 0
	err := s.docs.Scroll(ctx, Collection, s.cfg.ScrollBatchSize, func(doc docstore.Doc) error {
		seen[doc.ID] = struct{}{}
		if current, ok := next[doc.ID]; ok {
			// A read served from a lagging replica can observe an older
			// version than the cache holds; the cache is already ahead.
			if current.Version() > doc.Version {
				return nil
			}
			if bytes.Equal(current.Source(), doc.Source) {
				return nil
			}
		}
		pipeline, err := s.construct(doc.ID, doc.Source)
		if err != nil {
			return err
		}
		next[doc.ID] = NewDefinition(pipeline, doc.Version, doc.Source)
		changed++
		return nil
	})
	if err != nil {
		// A failed scroll must not be partially applied.
		if errors.IsAppError(err) {
			return err
		}
		return errors.StoreUnavailable("scroll", err)
	}

	// A partial or stale scroll must not cause false eviction: confirm
	// absence with a direct existence check before evicting.
	removed := 0
	for id := range old.pipelines {
		if _, ok := seen[id]; ok {
			continue
		}
		_, exists, err := s.docs.Get(ctx, Collection, id)
		if err != nil {
			return errors.StoreUnavailable("get", err)
		}
		if !exists {
			delete(next, id)
			removed++
		}
	}

	if changed != 0 || removed != 0 {
		s.current.Store(&snapshot{pipelines: next})
		s.log.Info("Pipelines reconciled", map[string]interface{}{
			"changed": changed,
			"removed": removed,
		})
	} else {
		s.log.Debug("No pipeline changes detected")
	}
	if s.metrics != nil {
		s.metrics.RecordReload(ctx, len(next))
	}
	return nil
}

// construct parses the raw payload and builds the pipeline through the
// factory, enforcing strict unknown-key validation.
func (s *Store) construct(id string, source []byte) (*ingest.Pipeline, error) {
	var config map[string]interface{}
	if err := json.Unmarshal(source, &config); err != nil {
		return nil, errors.InvalidPipeline(id, err.Error())
	}
	return ingest.NewPipelineFromConfig(id, config, s.registry)
}

// ensureCollection creates the control collection with the required schema
// on first write, and re-verifies the schema when it already exists.
// Serialized so a concurrent write cannot double-create; a creation failure
// surfaces to the caller.
func (s *Store) ensureCollection(ctx context.Context) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()
	spec, exists, err := s.docs.Collection(ctx, Collection)
	if err != nil {
		return errors.StoreUnavailable("collection", err)
	}
	if exists {
		return VerifyCollectionSpec(spec)
	}
	if err := s.docs.CreateCollection(ctx, Collection, CollectionSpec()); err != nil {
		return errors.StoreUnavailable("create-collection", err)
	}
	return nil
}

// broadcastReload asks every node to re-run reconciliation. Best-effort:
// the write has already succeeded, so failures are logged and swallowed.
func (s *Store) broadcastReload(ctx context.Context) {
	if s.reloader == nil {
		if err := s.UpdatePipelines(ctx); err != nil {
			s.log.Warn("Local reload after write failed", logger.ErrorFields("reload", err))
		}
		return
	}
	if err := s.reloader.ReloadAll(ctx); err != nil {
		s.log.Warn("Reload broadcast failed", logger.ErrorFields("reload", err))
	}
}
