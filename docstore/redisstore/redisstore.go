// Package redisstore provides the Redis-backed document store used when
// nodes of a cluster share control-plane state. Versions are assigned from a
// per-collection sequence; scroll reads page through a lexicographic id
// index so every node observes documents in the same order.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/ingestd/docstore"
	"github.com/kbukum/ingestd/logger"
)

// storedDoc is the JSON payload kept under each document key.
type storedDoc struct {
	Version int64  `json:"version"`
	Source  []byte `json:"source"`
}

// Store is a Redis-backed docstore.Store.
type Store struct {
	rdb *goredis.Client
	cfg Config
	log *logger.Logger
}

// New creates a Redis document store with its own client.
func New(cfg Config, log *logger.Logger) (*Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis docstore config: %w", err)
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	return &Store{rdb: rdb, cfg: cfg, log: log.WithComponent("redisstore")}, nil
}

// NewWithClient creates a store over an existing go-redis client.
func NewWithClient(rdb *goredis.Client, cfg Config, log *logger.Logger) *Store {
	cfg.ApplyDefaults()
	return &Store{rdb: rdb, cfg: cfg, log: log.WithComponent("redisstore")}
}

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) metaKey(collection string) string {
	return fmt.Sprintf("%s:%s:meta", s.cfg.KeyPrefix, collection)
}

func (s *Store) seqKey(collection string) string {
	return fmt.Sprintf("%s:%s:seq", s.cfg.KeyPrefix, collection)
}

func (s *Store) idsKey(collection string) string {
	return fmt.Sprintf("%s:%s:ids", s.cfg.KeyPrefix, collection)
}

func (s *Store) docKey(collection, id string) string {
	return fmt.Sprintf("%s:%s:doc:%s", s.cfg.KeyPrefix, collection, id)
}

// Collection implements docstore.Store.
func (s *Store) Collection(ctx context.Context, name string) (docstore.CollectionSpec, bool, error) {
	raw, err := s.rdb.Get(ctx, s.metaKey(name)).Result()
	if err == goredis.Nil {
		return docstore.CollectionSpec{}, false, nil
	}
	if err != nil {
		return docstore.CollectionSpec{}, false, fmt.Errorf("reading collection [%s]: %w", name, err)
	}
	var spec docstore.CollectionSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return docstore.CollectionSpec{}, false, fmt.Errorf("decoding collection [%s] spec: %w", name, err)
	}
	return spec, true, nil
}

// CreateCollection implements docstore.Store. SETNX guards against two nodes
// creating the same collection concurrently.
func (s *Store) CreateCollection(ctx context.Context, name string, spec docstore.CollectionSpec) error {
	payload, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("encoding collection [%s] spec: %w", name, err)
	}
	created, err := s.rdb.SetNX(ctx, s.metaKey(name), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("creating collection [%s]: %w", name, err)
	}
	if !created {
		return fmt.Errorf("collection [%s] already exists", name)
	}
	s.log.Info("Collection created", map[string]interface{}{"collection": name})
	return nil
}

// Put implements docstore.Store.
func (s *Store) Put(ctx context.Context, collection, id string, source []byte) (int64, error) {
	exists, err := s.rdb.Exists(ctx, s.metaKey(collection)).Result()
	if err != nil {
		return 0, fmt.Errorf("writing [%s/%s]: %w", collection, id, err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("collection [%s] does not exist", collection)
	}

	version, err := s.rdb.Incr(ctx, s.seqKey(collection)).Result()
	if err != nil {
		return 0, fmt.Errorf("assigning version for [%s/%s]: %w", collection, id, err)
	}
	payload, err := json.Marshal(storedDoc{Version: version, Source: source})
	if err != nil {
		return 0, fmt.Errorf("encoding [%s/%s]: %w", collection, id, err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.docKey(collection, id), payload, 0)
	pipe.ZAdd(ctx, s.idsKey(collection), goredis.Z{Score: 0, Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("writing [%s/%s]: %w", collection, id, err)
	}
	return version, nil
}

// Delete implements docstore.Store.
func (s *Store) Delete(ctx context.Context, collection, id string) (bool, error) {
	pipe := s.rdb.TxPipeline()
	delCmd := pipe.Del(ctx, s.docKey(collection, id))
	pipe.ZRem(ctx, s.idsKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("deleting [%s/%s]: %w", collection, id, err)
	}
	return delCmd.Val() > 0, nil
}

// Get implements docstore.Store.
func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Doc, bool, error) {
	raw, err := s.rdb.Get(ctx, s.docKey(collection, id)).Result()
	if err == goredis.Nil {
		return docstore.Doc{}, false, nil
	}
	if err != nil {
		return docstore.Doc{}, false, fmt.Errorf("reading [%s/%s]: %w", collection, id, err)
	}
	var stored storedDoc
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return docstore.Doc{}, false, fmt.Errorf("decoding [%s/%s]: %w", collection, id, err)
	}
	return docstore.Doc{ID: id, Version: stored.Version, Source: stored.Source}, true, nil
}

// Scroll implements docstore.Store. Pages through the id index with
// ZRANGEBYLEX and fetches each page's documents in one round trip.
func (s *Store) Scroll(ctx context.Context, collection string, batchSize int, fn func(docstore.Doc) error) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	min := "-"
	for {
		ids, err := s.rdb.ZRangeByLex(ctx, s.idsKey(collection), &goredis.ZRangeBy{
			Min: min, Max: "+", Count: int64(batchSize),
		}).Result()
		if err != nil {
			return fmt.Errorf("scrolling [%s]: %w", collection, err)
		}
		if len(ids) == 0 {
			return nil
		}

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = s.docKey(collection, id)
		}
		values, err := s.rdb.MGet(ctx, keys...).Result()
		if err != nil {
			return fmt.Errorf("scrolling [%s]: %w", collection, err)
		}
		for i, value := range values {
			raw, ok := value.(string)
			if !ok {
				// Deleted between the index read and the fetch.
				continue
			}
			var stored storedDoc
			if err := json.Unmarshal([]byte(raw), &stored); err != nil {
				return fmt.Errorf("decoding [%s/%s]: %w", collection, ids[i], err)
			}
			if err := fn(docstore.Doc{ID: ids[i], Version: stored.Version, Source: stored.Source}); err != nil {
				return err
			}
		}
		min = "(" + ids[len(ids)-1]
	}
}
