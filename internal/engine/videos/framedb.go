package videos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anatolykoptev/go_videomind/internal/engine"
)

// frameSchema holds the frame archive DDL. Applied on connect; idempotent.
const frameSchema = `
CREATE TABLE IF NOT EXISTS video_frames (
	id          BIGSERIAL PRIMARY KEY,
	video_id    TEXT NOT NULL,
	ts          TEXT NOT NULL,
	seconds     INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL,
	embedding   JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (video_id, ts)
);
CREATE INDEX IF NOT EXISTS video_frames_video_id_idx ON video_frames (video_id);`

// Package-level singleton, set from main.go.
var frameDB *FrameDB

// SetFrameDB sets the package-level frame DB instance.
func SetFrameDB(db *FrameDB) { frameDB = db }

// GetFrameDB returns the package-level frame DB instance (may be nil).
func GetFrameDB() *FrameDB { return frameDB }

// FrameDB holds the pgx connection pool for the frame description archive.
// The archive outlives the cache TTL, so a video described once never needs
// a second Gemini description pass.
type FrameDB struct {
	pool *pgxpool.Pool
}

// ConnectFrameDB creates a pgx pool and applies the frame schema.
func ConnectFrameDB(ctx context.Context, databaseURL string) (*FrameDB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, frameSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply frame schema: %w", err)
	}

	slog.Info("frame postgres connected", slog.String("addr", config.ConnConfig.Host))
	return &FrameDB{pool: pool}, nil
}

func (db *FrameDB) Close() {
	db.pool.Close()
}

// UpsertFrames stores frame descriptions and embeddings for a video.
// Existing rows for the same (video, timestamp) are overwritten.
func (db *FrameDB) UpsertFrames(ctx context.Context, videoID string, frames []engine.FrameDescription) error {
	for _, f := range frames {
		seconds, _ := engine.ParseClockTime(f.Timestamp)
		embJSON, err := json.Marshal(f.Embedding)
		if err != nil {
			return fmt.Errorf("marshal embedding for %s: %w", f.Timestamp, err)
		}
		_, err = db.pool.Exec(ctx,
			`INSERT INTO video_frames (video_id, ts, seconds, description, embedding)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (video_id, ts) DO UPDATE SET
			   description = EXCLUDED.description,
			   embedding = EXCLUDED.embedding`,
			videoID, f.Timestamp, seconds, f.Description, embJSON,
		)
		if err != nil {
			return fmt.Errorf("upsert frame %s/%s: %w", videoID, f.Timestamp, err)
		}
	}
	return nil
}

// GetFrames returns archived frame descriptions for a video in time order.
func (db *FrameDB) GetFrames(ctx context.Context, videoID string) ([]engine.FrameDescription, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT ts, description, COALESCE(embedding, 'null'::jsonb)
		 FROM video_frames WHERE video_id = $1 ORDER BY seconds, ts`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []engine.FrameDescription
	for rows.Next() {
		var f engine.FrameDescription
		var embJSON []byte
		if err := rows.Scan(&f.Timestamp, &f.Description, &embJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(embJSON, &f.Embedding)
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// DeleteFrames removes all archived frames for a video.
func (db *FrameDB) DeleteFrames(ctx context.Context, videoID string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM video_frames WHERE video_id = $1`, videoID)
	return err
}
