package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/me/gowe/internal/config"
	"github.com/me/gowe/internal/store"
	"github.com/me/gowe/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:", testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	run := &model.Run{
		ID:       "run-1",
		SprintID: "sprint-9",
		Status:   model.RunSucceeded,
		Report: &model.Report{
			Sprint: model.Sprint{ID: "sprint-9", Name: "Sprint 9"},
			Rejections: []model.RejectionGroup{
				{Reason: model.ReasonNoCapacity, Rejections: []model.Rejection{{TaskID: "T9", Reason: model.ReasonNoCapacity}}},
			},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := st.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	return New(config.DefaultServerConfig(), st, testLogger())
}

func decodeEnvelope(t *testing.T, body io.Reader) model.Response {
	t.Helper()
	var resp model.Response
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeEnvelope(t, w.Body)
	if resp.Status != "ok" {
		t.Errorf("resp.Status = %q, want ok", resp.Status)
	}
}

func TestHandleListRuns(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/", nil)
	w := httptest.NewRecorder()

	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w.Body)
	data, _ := json.Marshal(resp.Data)
	var parsed runListResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal runListResponse: %v", err)
	}
	if parsed.Total != 1 || len(parsed.Runs) != 1 {
		t.Errorf("runs = %+v, want 1 run", parsed)
	}
}

func TestHandleGetRun(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/run-1/", nil)
	w := httptest.NewRecorder()

	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestHandleGetRun_NotFound(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/missing/", nil)
	w := httptest.NewRecorder()

	s.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestHandleGetRunRejections(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/run-1/rejections", nil)
	w := httptest.NewRecorder()

	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w.Body)
	data, _ := json.Marshal(resp.Data)
	var groups []model.RejectionGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		t.Fatalf("unmarshal rejection groups: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Rejections) != 1 {
		t.Errorf("groups = %+v, want one group with one rejection", groups)
	}
}
