package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/dairylabs/milkmob/internal/engine"
	"github.com/dairylabs/milkmob/internal/provider"
	"github.com/dairylabs/milkmob/internal/state"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	store, err := state.NewStore(filepath.Join(t.TempDir(), "milkmob.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	analysis := provider.Analysis{
		Detections: []provider.Detection{
			{Label: "milk carton", Score: 0.9},
			{Label: "person drinking", Score: 0.8},
		},
		Summary: "dancing while pouring milk",
	}
	eng, err := engine.New(context.Background(), engine.Options{}, &provider.Fake{Default: &analysis}, store)
	if err != nil {
		t.Fatal(err)
	}
	return New(eng)
}

func postSubmission(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/submissions", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSubmitValid(t *testing.T) {
	srv := testServer(t)
	rec := postSubmission(t, srv, `{"video_id":"vid-1","caption":"#gotmilk"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Verdict.Passed {
		t.Fatalf("expected pass: %+v", resp.Verdict)
	}
	if resp.Assignment == nil || resp.Assignment.CategoryID != "dance_milk_mob" {
		t.Errorf("unexpected assignment: %+v", resp.Assignment)
	}
	if len(resp.Verdict.PerCriterion) != 4 {
		t.Errorf("verdict must carry the full breakdown: %+v", resp.Verdict.PerCriterion)
	}
}

func TestSubmitDuplicateConflict(t *testing.T) {
	srv := testServer(t)
	if rec := postSubmission(t, srv, `{"video_id":"vid-1"}`); rec.Code != http.StatusCreated {
		t.Fatalf("setup submission failed: %d", rec.Code)
	}
	rec := postSubmission(t, srv, `{"video_id":"vid-1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitValidation(t *testing.T) {
	srv := testServer(t)

	if rec := postSubmission(t, srv, `not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", rec.Code)
	}
	if rec := postSubmission(t, srv, `{"caption":"no id"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing video_id: expected 400, got %d", rec.Code)
	}
}

func TestListMobs(t *testing.T) {
	srv := testServer(t)
	postSubmission(t, srv, `{"video_id":"vid-1"}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/mobs", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var mobs []mobDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &mobs); err != nil {
		t.Fatal(err)
	}
	if len(mobs) != 7 {
		t.Fatalf("expected the 7 stock mobs, got %d", len(mobs))
	}
	var danceCount int64
	for _, m := range mobs {
		if m.ID == "dance_milk_mob" {
			danceCount = m.MemberCount
		}
	}
	if danceCount != 1 {
		t.Errorf("expected dance mob count 1, got %d", danceCount)
	}
}

func TestMobStats(t *testing.T) {
	srv := testServer(t)
	postSubmission(t, srv, `{"video_id":"vid-1"}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/mobs/dance_milk_mob/stats", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats statsDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.MemberCount != 1 {
		t.Errorf("expected count 1, got %d", stats.MemberCount)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/mobs/no_such_mob/stats", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown mob: expected 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
