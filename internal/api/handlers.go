package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/sources"
	"github.com/anatolykoptev/go_videomind/internal/engine/videos"
)

// Handlers holds the HTTP handlers for the REST API.
type Handlers struct {
	version   string
	startTime time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(version string) *Handlers {
	return &Handlers{version: version, startTime: time.Now()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, label string, err error) {
	writeJSON(w, status, map[string]any{"success": false, "error": label, "message": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close() //nolint:errcheck
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// statusForError maps pipeline errors onto HTTP statuses: a bad video URL is
// the caller's fault, a provider failure is a bad gateway, a missing history
// entry is a 404.
func statusForError(err error) int {
	var upstream *engine.UpstreamError
	switch {
	case errors.Is(err, sources.ErrInvalidVideoURL):
		return http.StatusBadRequest
	case errors.Is(err, videos.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"features": map[string]bool{
			"llm":           engine.Cfg.LLMClient != nil,
			"gemini":        engine.Cfg.GenaiClient != nil,
			"transcripts":   engine.Cfg.YouTubeTranscriptsEnabled,
			"frame_archive": videos.GetFrameDB() != nil,
		},
	})
}

// Metrics handles GET /metrics.
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, engine.FormatMetrics()) //nolint:errcheck
}

// AnalyzeVideo handles POST /analyze_video.
func (h *Handlers) AnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	var input engine.AnalyzeInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if input.YouTubeURL == "" {
		writeError(w, http.StatusBadRequest, "Missing field", errors.New("youtube_url is required"))
		return
	}
	out, err := videos.AnalyzeVideo(r.Context(), input)
	if err != nil {
		slog.Error("analyze_video failed", slog.Any("error", err))
		writeError(w, statusForError(err), "Video analysis failed", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// VideoTimestamps handles POST /video_timestamps.
func (h *Handlers) VideoTimestamps(w http.ResponseWriter, r *http.Request) {
	var input engine.TimestampsInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if input.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "Missing field", errors.New("video_url is required"))
		return
	}
	out, err := videos.VideoTimestamps(r.Context(), input)
	if err != nil {
		slog.Error("video_timestamps failed", slog.Any("error", err))
		writeError(w, statusForError(err), "Timestamp extraction failed", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Chat handles POST /chat.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var input engine.ChatInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if input.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "Missing field", errors.New("video_url is required"))
		return
	}
	if input.Query == "" {
		writeError(w, http.StatusBadRequest, "Missing field", errors.New("query is required"))
		return
	}
	out, err := videos.ChatWithVideo(r.Context(), input)
	if err != nil {
		slog.Error("chat failed", slog.Any("error", err))
		writeError(w, statusForError(err), "Chat failed", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// VisualSearch handles POST /visual_search.
func (h *Handlers) VisualSearch(w http.ResponseWriter, r *http.Request) {
	var input engine.VisualSearchInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if input.YouTubeURL == "" {
		writeError(w, http.StatusBadRequest, "Missing field", errors.New("youtube_url is required"))
		return
	}
	if input.SearchQuery == "" {
		writeError(w, http.StatusBadRequest, "Missing field", errors.New("search_query is required"))
		return
	}
	out, err := videos.VisualSearch(r.Context(), input)
	if err != nil {
		slog.Error("visual_search failed", slog.Any("error", err))
		writeError(w, statusForError(err), "Visual search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DownloadSummaryPDF handles POST /download_summary_pdf. The generated file
// is served once and removed afterwards.
func (h *Handlers) DownloadSummaryPDF(w http.ResponseWriter, r *http.Request) {
	var input engine.PDFExportInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if input.Summary == "" {
		writeError(w, http.StatusBadRequest, "Missing field", errors.New("summary is required"))
		return
	}
	path, err := engine.ExportSummaryPDF(input)
	if err != nil {
		slog.Error("pdf export failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "PDF export failed", err)
		return
	}
	defer os.Remove(path) //nolint:errcheck

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFilename(input.VideoTitle)))
	http.ServeFile(w, r, path)
}

// pdfFilename builds a safe download name like "My_Video_summary.pdf".
func pdfFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "video"
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name + "_summary.pdf"
}

// HistoryList handles GET /history.
func (h *Handlers) HistoryList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	result, err := videos.ListAnalyses(r.Context(), videos.HistoryListInput{Limit: limit})
	if err != nil {
		slog.Error("history list failed", slog.Any("error", err))
		writeError(w, statusForError(err), "History unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HistoryGet handles GET /history/{video_id}.
func (h *Handlers) HistoryGet(w http.ResponseWriter, r *http.Request) {
	record, err := videos.GetAnalysis(r.Context(), mux.Vars(r)["video_id"])
	if err != nil {
		writeError(w, statusForError(err), "History lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// HistoryDelete handles DELETE /history/{video_id}.
func (h *Handlers) HistoryDelete(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["video_id"]
	if err := videos.DeleteAnalysis(r.Context(), videoID); err != nil {
		writeError(w, statusForError(err), "History delete failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"video_id": videoID, "message": "analysis deleted"})
}
