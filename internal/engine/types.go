package engine

import "fmt"

// --- Core timestamp types ---

// Timestamp is one navigable timestamp entry in its final, normalized form.
// Wire format matches the frontend contract: {time, description, seconds}.
type Timestamp struct {
	Time        string `json:"time"`        // canonical MM:SS or HH:MM:SS
	Description string `json:"description"` // non-empty after trimming
	Seconds     int    `json:"seconds"`     // always equals parse(Time)
}

// TimestampCandidate is an unvalidated entry as received from the upstream
// generator or the fallback extractor. Seconds is a pointer so that
// fallback-extracted candidates (no claimed offset) are distinguishable from
// candidates claiming zero.
type TimestampCandidate struct {
	Time        string `json:"time"`
	Description string `json:"description"`
	Seconds     *int   `json:"seconds,omitempty"`
}

// SummaryTimestamp is a timestamp found inline in the summary text, with the
// byte offset of its marker so the frontend can link the surrounding sentence.
type SummaryTimestamp struct {
	Time         string `json:"time"`
	Description  string `json:"description"`
	Seconds      int    `json:"seconds"`
	TextPosition int    `json:"text_position"`
}

// NormalizeReport carries observability data out of the normalization pipeline.
type NormalizeReport struct {
	Dropped int      `json:"dropped"`
	Notes   []string `json:"notes,omitempty"`
}

// --- Request types (REST bodies and MCP tool inputs) ---

type AnalyzeInput struct {
	YouTubeURL string `json:"youtube_url" jsonschema:"YouTube video URL to analyze"`
}

type ChatInput struct {
	VideoURL string `json:"video_url" jsonschema:"YouTube video URL the question is about"`
	Query    string `json:"query" jsonschema:"Question about the video content"`
}

type TimestampsInput struct {
	VideoURL string `json:"video_url" jsonschema:"YouTube video URL to extract timestamps from"`
}

type VisualSearchInput struct {
	YouTubeURL  string `json:"youtube_url" jsonschema:"YouTube video URL to search within"`
	SearchQuery string `json:"search_query" jsonschema:"Visual content to find (e.g. 'whiteboard diagram', 'red car')"`
}

type PDFExportInput struct {
	Summary    string `json:"summary" jsonschema:"Markdown summary text to render"`
	VideoTitle string `json:"video_title" jsonschema:"Title shown at the top of the document"`
}

// --- Response types ---

type VideoAnalysis struct {
	Success           bool               `json:"success"`
	VideoURL          string             `json:"video_url"`
	VideoID           string             `json:"video_id"`
	VideoSummary      string             `json:"video_summary"`
	SummaryTimestamps []SummaryTimestamp `json:"summary_timestamps"`
	HasTranscripts    bool               `json:"has_transcripts"`
}

type ChatOutput struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

type TimestampsOutput struct {
	Success    bool        `json:"success"`
	Timestamps []Timestamp `json:"timestamps"`
}

type VisualSearchMatch struct {
	Timestamp       string  `json:"timestamp"`
	Description     string  `json:"description"`
	SimilarityScore float64 `json:"similarity_score"`
}

type VisualSearchOutput struct {
	Success bool                `json:"success"`
	Results []VisualSearchMatch `json:"results"`
}

type PDFExportOutput struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
}

// FrameDescription is one Gemini-described video segment with its embedding.
type FrameDescription struct {
	Timestamp   string    `json:"timestamp"`
	Description string    `json:"description"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// --- Errors ---

// UpstreamError marks a transport-level failure of an external provider
// (Gemini, transcript fetch, metadata fetch). It is the only condition the
// pipeline propagates as a hard error; an empty result set is not an error.
type UpstreamError struct {
	Op  string // which upstream operation failed
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
