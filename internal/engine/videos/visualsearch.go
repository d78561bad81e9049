package videos

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/sources"
)

// minKeepMatches is the floor FilterBySimilarity guarantees when the
// similarity threshold would leave too few results.
const minKeepMatches = 3

// VisualSearch finds moments in a video matching a visual description.
// Gemini describes what is on screen every few seconds, the descriptions
// and the query are embedded, and matches are ranked by cosine similarity.
func VisualSearch(ctx context.Context, input engine.VisualSearchInput) (out engine.VisualSearchOutput, err error) {
	_ = engine.TrackOperation(ctx, "visual_search:"+input.YouTubeURL, func(ctx context.Context) error {
		out, err = visualSearch(ctx, input)
		return err
	})
	return
}

func visualSearch(ctx context.Context, input engine.VisualSearchInput) (engine.VisualSearchOutput, error) {
	engine.IncrVisualSearchRequests()

	query := strings.TrimSpace(input.SearchQuery)
	if query == "" {
		return engine.VisualSearchOutput{}, errors.New("visual_search: search_query is required")
	}

	videoID, err := sources.ParseVideoURL(input.YouTubeURL)
	if err != nil {
		return engine.VisualSearchOutput{}, err
	}

	frames, err := describeFrames(ctx, videoID)
	if err != nil {
		return engine.VisualSearchOutput{}, err
	}
	if len(frames) == 0 {
		return engine.VisualSearchOutput{Success: true, Results: []engine.VisualSearchMatch{}}, nil
	}

	// --- Query embedding ---
	qvecs, err := engine.EmbedTexts(ctx, []string{query})
	if err != nil {
		return engine.VisualSearchOutput{}, err
	}
	qvec := qvecs[0]

	// --- Score and rank ---
	matches := make([]engine.VisualSearchMatch, 0, len(frames))
	for _, f := range frames {
		matches = append(matches, engine.VisualSearchMatch{
			Timestamp:       f.Timestamp,
			Description:     f.Description,
			SimilarityScore: engine.CosineSimilarity(qvec, f.Embedding),
		})
	}
	engine.RankBySimilarity(matches)
	matches = engine.FilterBySimilarity(matches, engine.Cfg.VisualSearchMinScore, minKeepMatches)
	if topK := engine.Cfg.VisualSearchTopK; topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}

	return engine.VisualSearchOutput{Success: true, Results: matches}, nil
}

// describeFrames returns embedded frame descriptions for a video. Lookup
// order: engine cache, Postgres archive, Gemini. Fresh descriptions go
// through the timestamp normalization pipeline before embedding, so frame
// times are canonical and within the video duration.
func describeFrames(ctx context.Context, videoID string) ([]engine.FrameDescription, error) {
	key := engine.CacheKey("frames", videoID)
	if cached, ok := engine.CacheLoadJSON[[]engine.FrameDescription](ctx, key); ok {
		return cached, nil
	}

	if db := GetFrameDB(); db != nil {
		frames, err := db.GetFrames(ctx, videoID)
		if err != nil {
			slog.Debug("frame archive read failed", slog.String("video_id", videoID), slog.Any("error", err))
		} else if len(frames) > 0 {
			engine.CacheStoreJSON(ctx, key, frames)
			return frames, nil
		}
	}

	// --- Describe ---
	raw, err := engine.DescribeVideoFrames(ctx, sources.WatchURL(videoID))
	if err != nil {
		return nil, err
	}
	cands, ok := engine.ParseTimestampPayload(raw)
	if !ok {
		engine.IncrFallbackExtractions()
		cands = engine.ExtractTimestampCandidates(raw)
	}
	meta := lookupMetadata(ctx, videoID)
	stamps, _ := engine.NormalizeTimestamps(cands, meta.Duration)
	if len(stamps) == 0 {
		return []engine.FrameDescription{}, nil
	}

	// --- Embed ---
	texts := make([]string, len(stamps))
	for i, s := range stamps {
		texts[i] = s.Description
	}
	vecs, err := engine.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}

	frames := make([]engine.FrameDescription, len(stamps))
	for i, s := range stamps {
		frames[i] = engine.FrameDescription{
			Timestamp:   s.Time,
			Description: s.Description,
			Embedding:   vecs[i],
		}
	}

	engine.CacheStoreJSON(ctx, key, frames)
	if db := GetFrameDB(); db != nil {
		if err := db.UpsertFrames(ctx, videoID, frames); err != nil {
			slog.Warn("frame archive write failed", slog.String("video_id", videoID), slog.Any("error", err))
		}
	}
	return frames, nil
}
