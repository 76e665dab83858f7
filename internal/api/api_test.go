package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/ByLCY/papyrus-cv/engine"
	"github.com/ByLCY/papyrus-cv/internal/tasks"
	"github.com/ByLCY/papyrus-cv/renderer/preview"
)

const sampleBody = `{
	"personal": {"name": "Ada Lovelace", "email": "ada@example.com"},
	"summary": "Mathematician.",
	"experiences": [{"title": "Analyst", "employer": "Engine Co.", "isCurrent": true, "achievements": ["Notes"]}],
	"languages": [{"name": "English", "level": "Native"}]
}`

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task", Queue: "default", Type: task.Type()}, nil
}

func newTestRouter(t *testing.T, enq Enqueuer, maxBody int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	eng, err := engine.New(engine.Options{})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	r, err := NewRouter(Deps{
		Engine:       eng,
		Enqueuer:     enq,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		MaxBodyBytes: maxBody,
		MaxRetry:     2,
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, nil, 0)
	if w := do(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/metrics", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "papyrus_http_request_duration_seconds") {
		t.Fatalf("metrics: %d", w.Code)
	}
}

func TestPreviewJSON(t *testing.T) {
	r := newTestRouter(t, nil, 0)
	w := do(r, http.MethodPost, "/v1/resume/preview", sampleBody)
	if w.Code != http.StatusOK {
		t.Fatalf("preview status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Preview struct {
			Width float64 `json:"width"`
			Main  struct {
				Texts []struct {
					Content string `json:"content"`
				} `json:"texts"`
			} `json:"main"`
		} `json:"preview"`
		SVG string `json:"svg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Preview.Width <= 0 || !strings.Contains(resp.SVG, "<svg") {
		t.Fatalf("unexpected preview response: width=%g svg=%.40q", resp.Preview.Width, resp.SVG)
	}
	found := false
	for _, tb := range resp.Preview.Main.Texts {
		if tb.Content == "Ada Lovelace" {
			found = true
		}
	}
	if !found {
		t.Fatalf("name missing from preview tree")
	}
}

func TestPreviewSVG(t *testing.T) {
	r := newTestRouter(t, nil, 0)
	w := do(r, http.MethodPost, "/v1/resume/preview?format=svg", sampleBody)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != preview.MediaType {
		t.Fatalf("svg preview: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestExportPDF(t *testing.T) {
	r := newTestRouter(t, nil, 0)
	w := do(r, http.MethodPost, "/v1/resume/export", sampleBody)
	if w.Code != http.StatusOK {
		t.Fatalf("export status %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="Ada Lovelace-Resume.pdf"` {
		t.Fatalf("content disposition %q", cd)
	}
	if w.Header().Get("X-Resume-Pages") != "1" {
		t.Fatalf("pages header %q", w.Header().Get("X-Resume-Pages"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF")
	}
}

func TestSchemaRejectsBadDocument(t *testing.T) {
	r := newTestRouter(t, nil, 0)
	cases := []string{
		`{"personal": {"name": 42}}`,
		`{"experiences": [{"isCurrent": "yes"}]}`,
		`{"unknownSection": []}`,
		`{not json`,
	}
	for _, body := range cases {
		w := do(r, http.MethodPost, "/v1/resume/export", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status %d, want 400", body, w.Code)
		}
		var resp struct {
			Details []string `json:"details"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || len(resp.Details) == 0 {
			t.Fatalf("body %s: expected validation details, got %s", body, w.Body.String())
		}
	}
}

func TestBodyTooLarge(t *testing.T) {
	r := newTestRouter(t, nil, 64)
	w := do(r, http.MethodPost, "/v1/resume/preview", sampleBody)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %d, want 413", w.Code)
	}
}

func TestEnqueueExport(t *testing.T) {
	enq := &fakeEnqueuer{}
	r := newTestRouter(t, enq, 0)
	req := httptest.NewRequest(http.MethodPost, "/v1/resume/export/jobs", strings.NewReader(sampleBody))
	req.Header.Set("X-Correlation-ID", "corr-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp jobResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID == "" || resp.Channel != tasks.NotifyChannel(resp.JobID) {
		t.Fatalf("unexpected job response %+v", resp)
	}
	if len(enq.tasks) != 1 {
		t.Fatalf("expected one enqueued task, got %d", len(enq.tasks))
	}
	p, err := tasks.ParseExportPayload(enq.tasks[0])
	if err != nil {
		t.Fatalf("ParseExportPayload: %v", err)
	}
	if p.JobID != resp.JobID || p.CorrelationID != "corr-1" || p.Document.Personal.Name != "Ada Lovelace" {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestEnqueueWithoutQueue(t *testing.T) {
	r := newTestRouter(t, nil, 0)
	if w := do(r, http.MethodPost, "/v1/resume/export/jobs", sampleBody); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", w.Code)
	}
}
