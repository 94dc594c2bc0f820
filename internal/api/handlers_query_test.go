package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/qbank/internal/config"
	"github.com/dgallion1/qbank/internal/engine"
	"github.com/dgallion1/qbank/internal/pipeline"
	"github.com/dgallion1/qbank/internal/question"
)

func str(s string) *string { return &s }

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Config{
		Port:            "0",
		QbankAPIKey:     "test-key",
		SnapshotPath:    filepath.Join(t.TempDir(), "questions.json"),
		WorkerCount:     1,
		MaxQueueSize:    4,
		MaxUploadBytes:  1 << 20,
		DefaultPageSize: 2,
		MaxPageSize:     10,
		JobTTL:          time.Hour,
	}

	eng := engine.New()
	eng.Load([]*question.Question{
		question.New("Basketball was invented in 1891.", nil, str("True"), str("True")),
		question.New("Which sport uses a hoop?", []string{"A. basketball", "B. swimming"}, str("A"), str("A")),
		question.New("Grass is green.", nil, str(question.Unanswered), nil),
		question.New("Basketball teams have five players.", nil, str("False"), str("True")),
	})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, eng, log)
	return NewServer(orch, eng, log, cfg)
}

type pageResponse struct {
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	Items      []questionPayload `json:"items"`
}

func getPage(t *testing.T, s *Server, url string) (pageResponse, int) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var page pageResponse
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return page, rec.Code
}

func TestHandleSearch_Basic(t *testing.T) {
	s := testServer(t)

	page, code := getPage(t, s, "/api/search?keyword=basketball")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if page.Total != 3 {
		t.Errorf("expected 3 total matches, got %d", page.Total)
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages at default size, got %d", page.TotalPages)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected 2 items on first page, got %d", len(page.Items))
	}
	if page.Items[0].QuestionText != "Basketball was invented in 1891." {
		t.Errorf("expected corpus order, got %q first", page.Items[0].QuestionText)
	}
}

func TestHandleSearch_EmptyKeyword(t *testing.T) {
	s := testServer(t)

	for _, url := range []string{"/api/search", "/api/search?keyword=++"} {
		_, code := getPage(t, s, url)
		if code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", url, code)
		}
	}
}

func TestHandleSearch_TypeFilterAndOptionScope(t *testing.T) {
	s := testServer(t)

	page, code := getPage(t, s, "/api/search?keyword=basketball&type=true_false")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if page.Total != 2 {
		t.Errorf("expected 2 true/false matches, got %d", page.Total)
	}
	for _, item := range page.Items {
		if item.QuestionType != string(question.TrueFalse) {
			t.Errorf("expected TrueFalse items only, got %q", item.QuestionType)
		}
	}

	page, _ = getPage(t, s, "/api/search?keyword=swimming&options=false")
	if page.Total != 0 {
		t.Errorf("expected no matches with options excluded, got %d", page.Total)
	}
	page, _ = getPage(t, s, "/api/search?keyword=swimming")
	if page.Total != 1 {
		t.Errorf("expected 1 match in options by default, got %d", page.Total)
	}
}

func TestHandleSearch_PageClamped(t *testing.T) {
	s := testServer(t)

	page, code := getPage(t, s, "/api/search?keyword=basketball&page=99")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if page.Page != page.TotalPages-1 {
		t.Errorf("expected page clamped to %d, got %d", page.TotalPages-1, page.Page)
	}
	if len(page.Items) == 0 {
		t.Error("expected the last page to have items after clamping")
	}

	page, _ = getPage(t, s, "/api/search?keyword=basketball&page=-3")
	if page.Page != 0 {
		t.Errorf("expected negative page clamped to 0, got %d", page.Page)
	}
}

func TestHandleSearch_NoMatchesStillOnePage(t *testing.T) {
	s := testServer(t)

	page, code := getPage(t, s, "/api/search?keyword=zzzzz")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if page.Total != 0 || page.TotalPages != 1 || len(page.Items) != 0 {
		t.Errorf("expected empty single-page result, got %+v", page)
	}
}

func TestHandleQuestions_Browse(t *testing.T) {
	s := testServer(t)

	page, code := getPage(t, s, "/api/questions?page_size=10")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if page.Total != 4 || len(page.Items) != 4 {
		t.Errorf("expected all 4 records, got total=%d items=%d", page.Total, len(page.Items))
	}

	page, _ = getPage(t, s, "/api/questions?type=multiple_choice&page_size=10")
	if page.Total != 1 {
		t.Errorf("expected 1 multiple-choice record, got %d", page.Total)
	}
}

func TestHandleQuestions_PageSizeCapped(t *testing.T) {
	s := testServer(t)

	page, _ := getPage(t, s, "/api/questions?page_size=9999")
	if page.PageSize != 10 {
		t.Errorf("expected page size capped at 10, got %d", page.PageSize)
	}
}

func TestHandleStats(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats engine.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 4 || stats.TrueFalse != 3 || stats.MultipleChoice != 1 || stats.Unanswered != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestAuth_RequiredForMutations(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name   string
		method string
		url    string
		token  string
		want   int
	}{
		{name: "reload without token", method: http.MethodPost, url: "/api/snapshot/reload", want: http.StatusUnauthorized},
		{name: "reload with bad token", method: http.MethodPost, url: "/api/snapshot/reload", token: "wrong", want: http.StatusUnauthorized},
		{name: "status without token", method: http.MethodGet, url: "/api/ingest/abc/status", want: http.StatusUnauthorized},
		{name: "search stays public", method: http.MethodGet, url: "/api/search?keyword=grass", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestReloadSnapshot_MissingFile(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/snapshot/reload", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for missing snapshot, got %d", rec.Code)
	}
	// The loaded corpus is untouched.
	if s.engine.Size() != 4 {
		t.Errorf("expected corpus unchanged, got %d records", s.engine.Size())
	}
}

func TestReloadSnapshot_BadFormat(t *testing.T) {
	s := testServer(t)

	if err := os.WriteFile(s.cfg.SnapshotPath, []byte(`{"not":"a list"}`), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/snapshot/reload", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for malformed snapshot, got %d", rec.Code)
	}
	if s.engine.Size() != 4 {
		t.Errorf("expected corpus unchanged, got %d records", s.engine.Size())
	}
}

func TestReloadSnapshot_ReplacesCorpus(t *testing.T) {
	s := testServer(t)

	records := []*question.Question{question.New("Fresh question", nil, str("True"), str("True"))}
	if err := question.WriteFile(s.cfg.SnapshotPath, records); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/snapshot/reload", nil)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if s.engine.Size() != 1 {
		t.Errorf("expected 1 record after reload, got %d", s.engine.Size())
	}
}
