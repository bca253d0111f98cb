package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tmengistu/stratum/pkg/cache"
	"github.com/tmengistu/stratum/pkg/pipeline"
	"github.com/tmengistu/stratum/pkg/source"
	"github.com/tmengistu/stratum/pkg/takeoff"
)

// memorySource serves a fixed snapshot and supports listing.
type memorySource struct {
	snap *source.Snapshot
}

func (s *memorySource) Load(ctx context.Context, name string) (*source.Snapshot, error) {
	return s.snap, nil
}

func (s *memorySource) List(ctx context.Context) ([]string, error) {
	return []string{s.snap.Name}, nil
}

func testServer() *server {
	snap := &source.Snapshot{
		Name: "office",
		Materials: []source.Material{
			{ID: 100, Name: "Concrete"},
			{ID: 101, Name: "Gypsum Board"},
		},
		Types: []source.Type{{
			ID: 10, Family: "Basic Wall", Name: "Generic 200mm", Category: "Walls",
			Layers: []source.Layer{{Material: 100}, {Material: 101}},
		}},
		Elements: []source.Element{{ID: 1, Type: 10}, {ID: 2, Type: 10}},
	}

	logger := log.NewWithOptions(io.Discard, log.Options{})
	return &server{
		runner:     pipeline.NewRunner(cache.NewNullCache(), nil, logger),
		source:     &memorySource{snap: snap},
		sourceName: "local",
		logger:     logger,
	}
}

func TestServerHealthz(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestServerTakeoff(t *testing.T) {
	srv := testServer()

	body, _ := json.Marshal(takeoffRequest{Model: "office", Elements: []int64{1, 2}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/takeoff", bytes.NewReader(body))
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp takeoffResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.RunID == "" {
		t.Error("expected a run id")
	}
	if resp.Model != "office" {
		t.Errorf("model = %q, want %q", resp.Model, "office")
	}
	if len(resp.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Records))
	}
	want := takeoff.Record{
		FamilyName:   "Basic Wall",
		TypeName:     "Generic 200mm",
		CategoryName: "Walls",
		MaterialName: "Concrete",
		LayerNumber:  1,
	}
	if resp.Records[0] != want {
		t.Errorf("first record = %+v, want %+v", resp.Records[0], want)
	}
}

func TestServerTakeoffInvalidSelection(t *testing.T) {
	srv := testServer()

	body, _ := json.Marshal(takeoffRequest{Model: "office"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/takeoff", bytes.NewReader(body))
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Code != "INVALID_SELECTION" {
		t.Errorf("code = %q, want INVALID_SELECTION", resp.Code)
	}
}

func TestServerTakeoffBadBody(t *testing.T) {
	srv := testServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/takeoff", strings.NewReader("not json"))
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServerGetModel(t *testing.T) {
	srv := testServer()

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models/office", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap source.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if snap.Name != "office" || len(snap.Types) != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestServerListModels(t *testing.T) {
	srv := testServer()

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Models []string `json:"models"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(resp.Models) != 1 || resp.Models[0] != "office" {
		t.Errorf("models = %v, want [office]", resp.Models)
	}
}

func TestServerListModelsUnsupported(t *testing.T) {
	srv := testServer()
	srv.source = listlessSource{srv.source}

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", rec.Code)
	}
}

// listlessSource hides the List method of the wrapped source.
type listlessSource struct {
	inner source.Source
}

func (s listlessSource) Load(ctx context.Context, name string) (*source.Snapshot, error) {
	return s.inner.Load(ctx, name)
}
