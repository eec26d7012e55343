package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/ingestd/docstore"
	"github.com/kbukum/ingestd/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewWithClient(rdb, Config{KeyPrefix: "test"}, logger.NewDefault("test"))
}

func testSpec() docstore.CollectionSpec {
	return docstore.CollectionSpec{
		Partitions: 1,
		Copies:     1,
		Fields: map[string]docstore.FieldSpec{
			"processors": {Type: "object", Dynamic: true},
		},
	}
}

func TestStore_CollectionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, exists, err := s.Collection(ctx, "c")
	if err != nil || exists {
		t.Fatalf("expected missing collection, exists=%v err=%v", exists, err)
	}

	if err := s.CreateCollection(ctx, "c", testSpec()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateCollection(ctx, "c", testSpec()); err == nil {
		t.Error("duplicate create must fail")
	}

	spec, exists, err := s.Collection(ctx, "c")
	if err != nil || !exists {
		t.Fatalf("read back: exists=%v err=%v", exists, err)
	}
	if spec.Partitions != 1 || spec.Fields["processors"].Type != "object" {
		t.Errorf("spec lost in round trip: %+v", spec)
	}
}

func TestStore_PutGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.CreateCollection(ctx, "c", testSpec()); err != nil {
		t.Fatalf("create: %v", err)
	}

	v1, err := s.Put(ctx, "c", "p1", []byte(`{"processors": []}`))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	v2, err := s.Put(ctx, "c", "p1", []byte(`{"processors": [{}]}`))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if v2 <= v1 {
		t.Errorf("versions must increase: %d then %d", v1, v2)
	}

	doc, ok, err := s.Get(ctx, "c", "p1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if doc.Version != v2 || string(doc.Source) != `{"processors": [{}]}` {
		t.Errorf("unexpected doc: version=%d source=%s", doc.Version, doc.Source)
	}

	found, err := s.Delete(ctx, "c", "p1")
	if err != nil || !found {
		t.Fatalf("delete: found=%v err=%v", found, err)
	}
	if _, ok, _ := s.Get(ctx, "c", "p1"); ok {
		t.Error("document still readable after delete")
	}
	found, err = s.Delete(ctx, "c", "p1")
	if err != nil || found {
		t.Errorf("repeat delete: found=%v err=%v", found, err)
	}
}

func TestStore_PutRequiresCollection(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Put(context.Background(), "missing", "p1", []byte(`{}`)); err == nil {
		t.Error("put into a missing collection must fail")
	}
}

func TestStore_ScrollOrderedAndPaged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.CreateCollection(ctx, "c", testSpec()); err != nil {
		t.Fatalf("create: %v", err)
	}
	ids := []string{"delta", "alpha", "echo", "bravo", "charlie"}
	for _, id := range ids {
		if _, err := s.Put(ctx, "c", id, []byte(`{}`)); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	var seen []string
	err := s.Scroll(ctx, "c", 2, func(doc docstore.Doc) error {
		seen = append(seen, doc.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("scroll: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

func TestStore_ScrollPropagatesCallbackError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.CreateCollection(ctx, "c", testSpec()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Put(ctx, "c", "p1", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	sentinel := context.DeadlineExceeded
	err := s.Scroll(ctx, "c", 10, func(doc docstore.Doc) error { return sentinel })
	if err != sentinel {
		t.Errorf("expected callback error to propagate, got %v", err)
	}
}
