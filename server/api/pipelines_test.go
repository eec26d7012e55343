package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/ingestd/cluster"
	"github.com/kbukum/ingestd/docstore/memstore"
	"github.com/kbukum/ingestd/ingest/processors"
	"github.com/kbukum/ingestd/logger"
	"github.com/kbukum/ingestd/store"
)

type stubBroadcaster struct {
	calls int
	store *store.Store
}

func (b *stubBroadcaster) ReloadAll(ctx context.Context) error {
	b.calls++
	return b.store.UpdatePipelines(ctx)
}

func newTestAPI(t *testing.T) (*gin.Engine, *store.Store, *stubBroadcaster) {
	t.Helper()
	registry, err := processors.NewRegistry()
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	log := logger.NewDefault("test")
	s := store.New(memstore.New(), registry, store.Config{}, log)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("starting store: %v", err)
	}

	b := &stubBroadcaster{store: s}
	s.SetBroadcaster(b)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(s, b, log).Register(engine)
	return engine, s, b
}

func do(t *testing.T, engine *gin.Engine, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHandler_PutGetDelete(t *testing.T) {
	engine, _, _ := newTestAPI(t)

	w := do(t, engine, http.MethodPut, "/_ingest/pipeline/p1", `{"processors": [{"set": {"field": "x", "value": 1}}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("put: expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	w = do(t, engine, http.MethodGet, "/_ingest/pipeline/p1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	var resp struct {
		Pipelines []struct {
			ID      string                 `json:"id"`
			Version int64                  `json:"version"`
			Config  map[string]interface{} `json:"config"`
		} `json:"pipelines"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Pipelines) != 1 || resp.Pipelines[0].ID != "p1" {
		t.Fatalf("unexpected pipelines: %+v", resp.Pipelines)
	}
	if resp.Pipelines[0].Version <= 0 {
		t.Error("expected a positive version")
	}

	w = do(t, engine, http.MethodDelete, "/_ingest/pipeline/p1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	w = do(t, engine, http.MethodGet, "/_ingest/pipeline/p1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestHandler_PutInvalidDefinition(t *testing.T) {
	engine, _, _ := newTestAPI(t)

	w := do(t, engine, http.MethodPut, "/_ingest/pipeline/bad", `{"processors": [{"set": {"field": "x", "value": 1, "bogus": true}}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "bogus") {
		t.Errorf("error body should name the offending key: %s", w.Body.String())
	}
}

func TestHandler_GetWildcard(t *testing.T) {
	engine, _, _ := newTestAPI(t)
	for _, id := range []string{"logs-app", "logs-db", "metrics"} {
		w := do(t, engine, http.MethodPut, "/_ingest/pipeline/"+id, `{"processors": [{"set": {"field": "x", "value": 1}}]}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("put %s: got %d", id, w.Code)
		}
	}

	w := do(t, engine, http.MethodGet, "/_ingest/pipeline/logs-*", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Pipelines []json.RawMessage `json:"pipelines"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Pipelines) != 2 {
		t.Errorf("expected 2 wildcard matches, got %d", len(resp.Pipelines))
	}

	// A wildcard with no matches is an empty result, not a 404.
	w = do(t, engine, http.MethodGet, "/_ingest/pipeline/nothing-*", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for unmatched wildcard, got %d", w.Code)
	}
	w = do(t, engine, http.MethodGet, "/_ingest/pipeline/nothing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unmatched exact id, got %d", w.Code)
	}
}

func TestHandler_Simulate(t *testing.T) {
	engine, _, _ := newTestAPI(t)
	w := do(t, engine, http.MethodPut, "/_ingest/pipeline/p1", `{"processors": [{"set": {"field": "tag", "value": "done"}}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("put: got %d", w.Code)
	}

	w = do(t, engine, http.MethodPost, "/_ingest/pipeline/p1/_simulate", `{"docs": [{"msg": "hello"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("simulate: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Results []struct {
			Doc map[string]interface{} `json:"doc"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Doc["tag"] != "done" {
		t.Errorf("unexpected simulate result: %+v", resp.Results)
	}
}

func TestHandler_Simulate_FailureIsPerDocument(t *testing.T) {
	engine, _, _ := newTestAPI(t)
	w := do(t, engine, http.MethodPut, "/_ingest/pipeline/strict", `{"processors": [{"remove": {"field": "must_exist"}}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("put: got %d", w.Code)
	}

	w = do(t, engine, http.MethodPost, "/_ingest/pipeline/strict/_simulate",
		`{"docs": [{"other": 1}, {"must_exist": 1}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Results []struct {
			Doc   map[string]interface{} `json:"doc"`
			Error *struct {
				Code string `json:"code"`
			} `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Error == nil {
		t.Error("first document should have failed")
	}
	if resp.Results[1].Error != nil || resp.Results[1].Doc == nil {
		t.Error("second document should have succeeded")
	}
}

func TestHandler_Reload_ScopeByOrigin(t *testing.T) {
	engine, _, b := newTestAPI(t)

	w := do(t, engine, http.MethodPost, "/_ingest/reload", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reload: expected 200, got %d", w.Code)
	}
	if b.calls != 1 {
		t.Errorf("client reload should fan out, broadcaster calls = %d", b.calls)
	}

	// Peer notifications must not rebroadcast.
	w = do(t, engine, http.MethodPost, "/_ingest/reload", "", cluster.HeaderOrigin, "ingestd-2")
	if w.Code != http.StatusOK {
		t.Fatalf("peer reload: expected 200, got %d", w.Code)
	}
	if b.calls != 1 {
		t.Errorf("peer-origin reload must stay local, broadcaster calls = %d", b.calls)
	}
}
