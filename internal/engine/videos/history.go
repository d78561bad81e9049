package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_videomind/internal/engine"
)

// AnalysisRecord is a single entry in the analysis history.
type AnalysisRecord struct {
	ID             int64  `json:"id"`
	VideoID        string `json:"video_id"`
	VideoURL       string `json:"video_url"`
	Title          string `json:"title,omitempty"`
	Summary        string `json:"summary"`
	HasTranscripts bool   `json:"has_transcripts"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// HistoryListInput is the input for history listing.
type HistoryListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max entries to return (default 20)"`
}

// HistoryListResult is the output for history listing.
type HistoryListResult struct {
	Analyses []AnalysisRecord `json:"analyses"`
	Total    int              `json:"total"`
}

// HistoryEntryInput addresses a single history entry.
type HistoryEntryInput struct {
	VideoID string `json:"video_id" jsonschema:"YouTube video ID of the history entry"`
}

// HistoryActionResult reports the outcome of a history mutation.
type HistoryActionResult struct {
	VideoID string `json:"video_id"`
	Message string `json:"message"`
}

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("history: analysis not found")

var (
	historyDB   *sql.DB
	historyOnce sync.Once
	historyErr  error
)

// openHistoryDB opens (or creates) the SQLite history database.
func openHistoryDB() (*sql.DB, error) {
	historyOnce.Do(func() {
		path := engine.Cfg.HistoryDBPath
		if path == "" {
			dir := filepath.Join(os.Getenv("HOME"), ".go_videomind")
			if err := os.MkdirAll(dir, 0750); err != nil {
				historyErr = fmt.Errorf("history: mkdir %s: %w", dir, err)
				return
			}
			path = filepath.Join(dir, "history.db")
		} else if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				historyErr = fmt.Errorf("history: mkdir %s: %w", dir, err)
				return
			}
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			historyErr = fmt.Errorf("history: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initHistorySchema(db); err != nil {
			historyErr = fmt.Errorf("history: init schema: %w", err)
			return
		}
		historyDB = db
	})
	return historyDB, historyErr
}

// initHistorySchema creates the analyses table if it doesn't exist.
func initHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS analyses (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id        TEXT NOT NULL UNIQUE,
		video_url       TEXT NOT NULL,
		title           TEXT,
		summary         TEXT NOT NULL,
		has_transcripts INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`)
	return err
}

// SaveAnalysis records a completed analysis, replacing any previous entry
// for the same video.
func SaveAnalysis(_ context.Context, analysis engine.VideoAnalysis, title string) error {
	if analysis.VideoID == "" {
		return errors.New("history: video_id is required")
	}

	db, err := openHistoryDB()
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(
		`INSERT INTO analyses (video_id, video_url, title, summary, has_transcripts, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(video_id) DO UPDATE SET
		   video_url = excluded.video_url,
		   title = excluded.title,
		   summary = excluded.summary,
		   has_transcripts = excluded.has_transcripts,
		   updated_at = excluded.updated_at`,
		analysis.VideoID, analysis.VideoURL, title, analysis.VideoSummary,
		analysis.HasTranscripts, now, now,
	)
	if err != nil {
		return fmt.Errorf("history: save: %w", err)
	}
	return nil
}

// listSummaryRunes caps summary length in list responses. GetAnalysis
// returns the full text.
const listSummaryRunes = 300

// ListAnalyses returns past analyses, most recently updated first.
func ListAnalyses(_ context.Context, input HistoryListInput) (*HistoryListResult, error) {
	db, err := openHistoryDB()
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := db.Query(
		`SELECT id, video_id, video_url, title, summary, has_transcripts, created_at, updated_at
		 FROM analyses ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var analyses []AnalysisRecord
	for rows.Next() {
		var r AnalysisRecord
		var title sql.NullString
		if err := rows.Scan(&r.ID, &r.VideoID, &r.VideoURL, &title, &r.Summary,
			&r.HasTranscripts, &r.CreatedAt, &r.UpdatedAt); err != nil {
			continue
		}
		r.Title = title.String
		r.Summary = engine.TruncateRunes(r.Summary, listSummaryRunes, "…")
		analyses = append(analyses, r)
	}

	var total int
	db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&total) //nolint:errcheck

	if analyses == nil {
		analyses = []AnalysisRecord{}
	}
	return &HistoryListResult{Analyses: analyses, Total: total}, nil
}

// GetAnalysis returns the history entry for a video ID.
func GetAnalysis(_ context.Context, videoID string) (*AnalysisRecord, error) {
	db, err := openHistoryDB()
	if err != nil {
		return nil, err
	}

	var r AnalysisRecord
	var title sql.NullString
	err = db.QueryRow(
		`SELECT id, video_id, video_url, title, summary, has_transcripts, created_at, updated_at
		 FROM analyses WHERE video_id = ?`, videoID,
	).Scan(&r.ID, &r.VideoID, &r.VideoURL, &title, &r.Summary,
		&r.HasTranscripts, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: get: %w", err)
	}
	r.Title = title.String
	return &r, nil
}

// DeleteAnalysis removes the history entry for a video ID, along with any
// archived frame descriptions.
func DeleteAnalysis(ctx context.Context, videoID string) error {
	db, err := openHistoryDB()
	if err != nil {
		return err
	}

	res, err := db.Exec(`DELETE FROM analyses WHERE video_id = ?`, videoID)
	if err != nil {
		return fmt.Errorf("history: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if fdb := GetFrameDB(); fdb != nil {
		if err := fdb.DeleteFrames(ctx, videoID); err != nil {
			slog.Warn("frame archive delete failed", slog.String("video_id", videoID), slog.Any("error", err))
		}
	}
	return nil
}
