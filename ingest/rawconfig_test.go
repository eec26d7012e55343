package ingest

import (
	"testing"

	"github.com/kbukum/ingestd/errors"
)

func TestRawConfig_String_ConsumesKey(t *testing.T) {
	cfg := NewRawConfig(map[string]interface{}{"field": "x"})
	v, err := cfg.String("set", "field")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "x" {
		t.Errorf("expected x, got %q", v)
	}
	if !cfg.Empty() {
		t.Error("key should have been consumed")
	}
}

func TestRawConfig_String_Missing(t *testing.T) {
	cfg := NewRawConfig(nil)
	_, err := cfg.String("set", "field")
	if !errors.IsCode(err, errors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD, got %v", err)
	}
}

func TestRawConfig_String_WrongType(t *testing.T) {
	cfg := NewRawConfig(map[string]interface{}{"field": 7})
	if _, err := cfg.String("set", "field"); err == nil {
		t.Error("expected error for non-string property")
	}
}

func TestRawConfig_OptionalString_Fallback(t *testing.T) {
	cfg := NewRawConfig(nil)
	v, err := cfg.OptionalString("scope", "name", "dflt")
	if err != nil || v != "dflt" {
		t.Errorf("expected fallback, got %q (err %v)", v, err)
	}
}

func TestRawConfig_OptionalList_WrongType(t *testing.T) {
	cfg := NewRawConfig(map[string]interface{}{"processors": "nope"})
	if _, err := cfg.OptionalList("p", "processors"); err == nil {
		t.Error("expected error for non-list property")
	}
}

func TestRawConfig_EnsureEmpty_LeftoverKeys(t *testing.T) {
	cfg := NewRawConfig(map[string]interface{}{"bogus": true, "also": 1})
	err := cfg.EnsureEmpty("set")
	if !errors.IsCode(err, errors.ErrCodeUnsupportedParameter) {
		t.Fatalf("expected UNSUPPORTED_PARAMETER, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	params, _ := appErr.Details["parameters"].([]string)
	if len(params) != 2 || params[0] != "also" || params[1] != "bogus" {
		t.Errorf("expected sorted leftover keys, got %v", params)
	}
}
