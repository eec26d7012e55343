package processors

import (
	"context"
	"testing"

	"github.com/kbukum/ingestd/errors"
	"github.com/kbukum/ingestd/ingest"
)

func build(t *testing.T, factory ingest.Factory, config map[string]interface{}) ingest.Processor {
	t.Helper()
	p, err := factory(ingest.NewRawConfig(config))
	if err != nil {
		t.Fatalf("building processor: %v", err)
	}
	return p
}

func TestSet_Execute_WritesField(t *testing.T) {
	p := build(t, NewSetFactory(), map[string]interface{}{"field": "x", "value": 1})
	doc := ingest.NewDocument(nil)
	if err := p.Execute(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := doc.Get("x"); v != 1 {
		t.Errorf("expected 1, got %v", v)
	}
}

func TestSet_Factory_MissingValue(t *testing.T) {
	_, err := NewSetFactory()(ingest.NewRawConfig(map[string]interface{}{"field": "x"}))
	if !errors.IsCode(err, errors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD, got %v", err)
	}
}

func TestRemove_Execute_MissingFieldFails(t *testing.T) {
	p := build(t, NewRemoveFactory(), map[string]interface{}{"field": "gone"})
	err := p.Execute(context.Background(), ingest.NewDocument(nil))
	if !errors.IsCode(err, errors.ErrCodeProcessingFailed) {
		t.Errorf("expected PROCESSING_FAILED, got %v", err)
	}
}

func TestRename_Execute_MovesValue(t *testing.T) {
	p := build(t, NewRenameFactory(), map[string]interface{}{"field": "a", "target_field": "b"})
	doc := ingest.NewDocument(map[string]interface{}{"a": "v"})
	if err := p.Execute(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Has("a") {
		t.Error("source field should be removed")
	}
	if v, _ := doc.Get("b"); v != "v" {
		t.Errorf("expected v, got %v", v)
	}
}

func TestRename_Execute_TargetExists(t *testing.T) {
	p := build(t, NewRenameFactory(), map[string]interface{}{"field": "a", "target_field": "b"})
	doc := ingest.NewDocument(map[string]interface{}{"a": 1, "b": 2})
	if err := p.Execute(context.Background(), doc); err == nil {
		t.Error("expected error when target exists")
	}
}

func TestAppend_Execute_PromotesScalar(t *testing.T) {
	p := build(t, NewAppendFactory(), map[string]interface{}{"field": "tags", "value": "b"})
	doc := ingest.NewDocument(map[string]interface{}{"tags": "a"})
	if err := p.Execute(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := doc.Get("tags")
	list, ok := v.([]interface{})
	if !ok || len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Errorf("expected [a b], got %v", v)
	}
}

func TestCasing_Execute_Uppercase(t *testing.T) {
	p := build(t, NewCasingFactory(TypeUppercase), map[string]interface{}{"field": "s"})
	doc := ingest.NewDocument(map[string]interface{}{"s": "hello"})
	if err := p.Execute(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := doc.Get("s"); v != "HELLO" {
		t.Errorf("expected HELLO, got %v", v)
	}
}

func TestCasing_Execute_NonString(t *testing.T) {
	p := build(t, NewCasingFactory(TypeLowercase), map[string]interface{}{"field": "s"})
	doc := ingest.NewDocument(map[string]interface{}{"s": 42})
	if err := p.Execute(context.Background(), doc); err == nil {
		t.Error("expected error for non-string field")
	}
}

func TestFail_Execute_AlwaysFails(t *testing.T) {
	p := build(t, NewFailFactory(), map[string]interface{}{"message": "rejected"})
	err := p.Execute(context.Background(), ingest.NewDocument(nil))
	if err == nil || err.Error() != "rejected" {
		t.Errorf("expected rejected, got %v", err)
	}
}

func TestJoin_Factory_RequiresParentType(t *testing.T) {
	_, err := NewJoinFactory()(ingest.NewRawConfig(map[string]interface{}{}))
	if !errors.IsCode(err, errors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD, got %v", err)
	}
}

func TestJoin_Execute_StampsJoinValue(t *testing.T) {
	p := build(t, NewJoinFactory(), map[string]interface{}{
		"parent_type":     "question",
		"parent_id_field": "qid",
	})
	doc := ingest.NewDocument(map[string]interface{}{"qid": "q-1"})
	if err := p.Execute(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := doc.Get("_join")
	join, ok := v.(map[string]interface{})
	if !ok || join["name"] != "question" || join["parent"] != "q-1" {
		t.Errorf("unexpected join value: %v", v)
	}
}

func TestRegister_AllBuiltins(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{TypeSet, TypeRemove, TypeRename, TypeAppend, TypeUppercase, TypeLowercase, TypeJoin, TypeFailAlways} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("builtin %q not registered", name)
		}
	}
}
