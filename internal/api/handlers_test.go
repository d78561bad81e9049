package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/videos"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "videomind_api_test")
	if err != nil {
		os.Exit(1)
	}
	engine.Init(engine.Config{HistoryDBPath: filepath.Join(dir, "history.db")})
	engine.InitCache("", time.Minute, 100, time.Minute)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	s := NewServer(Config{Port: 0, AllowedOrigin: "http://localhost:3000", Version: "test"})
	return s.httpServer.Handler
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", resp["status"])
	}
	if resp["version"] != "test" {
		t.Errorf("version = %v, want test", resp["version"])
	}
	if _, ok := resp["features"].(map[string]any); !ok {
		t.Error("expected features object in response")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want %d", w.Code, http.StatusOK)
	}
	if body := w.Body.String(); !strings.Contains(body, "analyze_requests ") {
		t.Errorf("metrics body missing analyze_requests counter:\n%s", body)
	}
}

func TestAnalyzeVideoValidation(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", "{not json", http.StatusBadRequest},
		{"missing url", `{}`, http.StatusBadRequest},
		{"non-youtube url", `{"youtube_url":"https://example.com/clip"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/analyze_video", strings.NewReader(tt.body))
			handler.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("POST /analyze_video = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestChatValidation(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"video_url":"https://youtu.be/dQw4w9WgXcQ"}`))
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("POST /chat without query = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestVisualSearchValidation(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/visual_search", strings.NewReader(`{"youtube_url":"https://youtu.be/dQw4w9WgXcQ"}`))
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("POST /visual_search without search_query = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	analysis := engine.VideoAnalysis{
		Success:      true,
		VideoID:      "jNQXAC9IVRw",
		VideoURL:     "https://www.youtube.com/watch?v=jNQXAC9IVRw",
		VideoSummary: "First video ever uploaded.",
	}
	if err := videos.SaveAnalysis(context.Background(), analysis, "Me at the zoo"); err != nil {
		t.Fatalf("SaveAnalysis() error: %v", err)
	}

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/history", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET /history = %d, want %d", w.Code, http.StatusOK)
		}
		var result videos.HistoryListResult
		if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if result.Total < 1 {
			t.Errorf("Total = %d, want >= 1", result.Total)
		}
	})

	t.Run("get", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/history/jNQXAC9IVRw", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET /history/{id} = %d, want %d", w.Code, http.StatusOK)
		}
		var record videos.AnalysisRecord
		if err := json.NewDecoder(w.Body).Decode(&record); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if record.Title != "Me at the zoo" {
			t.Errorf("Title = %q, want %q", record.Title, "Me at the zoo")
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("DELETE", "/history/jNQXAC9IVRw", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("DELETE /history/{id} = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("get after delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/history/jNQXAC9IVRw", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("GET deleted entry = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/analyze_video", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("OPTIONS /analyze_video = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:3000")
	}
}

func TestDownloadSummaryPDF(t *testing.T) {
	handler := newTestHandler(t)

	t.Run("missing summary", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/download_summary_pdf", strings.NewReader(`{}`))
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("POST without summary = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("renders pdf", func(t *testing.T) {
		body := `{"summary":"## Intro [00:10]\n\nA short overview.","video_title":"Go Talk"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/download_summary_pdf", strings.NewReader(body))
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("POST /download_summary_pdf = %d, want %d", w.Code, http.StatusOK)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("Content-Type = %q, want application/pdf", ct)
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Go_Talk_summary.pdf") {
			t.Errorf("Content-Disposition = %q, want filename Go_Talk_summary.pdf", cd)
		}
		if w.Body.Len() == 0 {
			t.Error("expected non-empty PDF body")
		}
	})
}

func TestPDFFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Go Talk", "Go_Talk_summary.pdf"},
		{"", "video_summary.pdf"},
		{"!!!", "video_summary.pdf"},
		{"A/B: Testing?", "AB_Testing_summary.pdf"},
	}
	for _, tt := range tests {
		if got := pdfFilename(tt.title); got != tt.want {
			t.Errorf("pdfFilename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
