// Package docstore defines the document-storage capability the pipeline
// engine builds on: collections with schema settings, versioned writes,
// fetch-by-id, and deterministic scroll reads. Implementations live in the
// memstore and redisstore subpackages.
package docstore

import (
	"context"
)

// FieldSpec describes one attribute of a collection schema.
type FieldSpec struct {
	// Type is the logical field type: "text" or "object".
	Type string `json:"type"`
	// Indexed controls whether the field is independently queryable.
	// Non-indexed object fields are stored as opaque, schema-free blobs.
	Indexed bool `json:"indexed"`
	// Dynamic allows arbitrary sub-fields inside an object field.
	Dynamic bool `json:"dynamic"`
}

// CollectionSpec holds collection-level settings and the field schema.
type CollectionSpec struct {
	// Partitions is the number of storage partitions.
	Partitions int `json:"partitions"`
	// Copies is the copy factor.
	Copies int `json:"copies"`
	// DynamicFields enables dynamic field inference for documents.
	DynamicFields bool `json:"dynamic_fields"`
	// MatchAll enables the wildcard match-all field.
	MatchAll bool `json:"match_all"`
	// Fields is the per-attribute schema.
	Fields map[string]FieldSpec `json:"fields"`
}

// Doc is a stored document with the version assigned by the store.
// Version numbers are monotonically increasing per collection.
type Doc struct {
	ID      string
	Version int64
	Source  []byte
}

// Store is the document-storage capability. Implementations must be safe
// for concurrent use.
type Store interface {
	// Collection returns the spec of a collection, with ok=false when the
	// collection does not exist.
	Collection(ctx context.Context, name string) (CollectionSpec, bool, error)

	// CreateCollection creates a collection with the given spec. Creating an
	// existing collection is an error.
	CreateCollection(ctx context.Context, name string, spec CollectionSpec) error

	// Put stores a document and returns the version assigned to this payload.
	// The collection must exist.
	Put(ctx context.Context, collection, id string, source []byte) (int64, error)

	// Delete removes a document, reporting whether it existed.
	Delete(ctx context.Context, collection, id string) (bool, error)

	// Get fetches a document by id, with ok=false when absent. A missing
	// collection reads as an absent document.
	Get(ctx context.Context, collection, id string) (Doc, bool, error)

	// Scroll pages through every document of a collection ordered by id,
	// invoking fn for each. An error from fn aborts the scroll. A missing
	// collection scrolls zero documents.
	Scroll(ctx context.Context, collection string, batchSize int, fn func(Doc) error) error
}
