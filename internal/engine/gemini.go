package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
)

// Gemini video path: operations that need the video itself (summaries without
// a transcript, visual search) attach the YouTube URL as a file part. All
// calls share a process-wide limiter sized from GeminiRPM.

const videoMIMEType = "video/mp4"

var (
	errGeminiDisabled = errors.New("gemini client not configured")
	errEmptyResponse  = errors.New("empty model response")

	geminiLimiterOnce sync.Once
	geminiLimiter     *rate.Limiter
)

func geminiWait(ctx context.Context) error {
	geminiLimiterOnce.Do(func() {
		if cfg.GeminiRPM <= 0 {
			geminiLimiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		geminiLimiter = rate.NewLimiter(rate.Limit(cfg.GeminiRPM)/60, 1)
	})
	return geminiLimiter.Wait(ctx)
}

// AnalyzeVideoContent runs an instruction against the video at videoURL and
// returns the model's text response with code fences stripped.
func AnalyzeVideoContent(ctx context.Context, videoURL, instruction string) (string, error) {
	if cfg.GenaiClient == nil {
		return "", &UpstreamError{Op: "gemini", Err: errGeminiDisabled}
	}
	if err := geminiWait(ctx); err != nil {
		return "", err
	}

	IncrGeminiCalls()
	model := cfg.GenaiClient.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(float32(cfg.LLMTemperature))

	resp, err := RetryDo(ctx, DefaultRetryConfig, func() (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx,
			genai.FileData{MIMEType: videoMIMEType, URI: videoURL},
			genai.Text(instruction),
		)
	})
	if err != nil {
		IncrGeminiErrors()
		return "", &UpstreamError{Op: "gemini", Err: err}
	}

	text := extractText(resp)
	if text == "" {
		IncrGeminiErrors()
		return "", &UpstreamError{Op: "gemini", Err: errEmptyResponse}
	}
	return stripFences(text), nil
}

// SummarizeVideo summarizes the video itself — the no-transcript path.
func SummarizeVideo(ctx context.Context, videoURL string) (string, error) {
	return AnalyzeVideoContent(ctx, videoURL, summaryFromVideoInstruction)
}

// TimestampsFromVideo asks for key-moment timestamps from the video itself.
func TimestampsFromVideo(ctx context.Context, videoURL string) (string, error) {
	return AnalyzeVideoContent(ctx, videoURL, timestampsFromVideoInstruction)
}

// AnswerFromVideo answers a question by watching the video itself.
func AnswerFromVideo(ctx context.Context, videoURL, question string) (string, error) {
	return AnalyzeVideoContent(ctx, videoURL, fmt.Sprintf(chatFromVideoInstruction, question))
}

// DescribeVideoFrames returns the raw frame-description payload for the video:
// a JSON array of {time, description} entries sampled through the runtime.
func DescribeVideoFrames(ctx context.Context, videoURL string) (string, error) {
	return AnalyzeVideoContent(ctx, videoURL, frameDescriptionsInstruction)
}

// EmbedTexts embeds each text with the configured embedding model. The
// result is index-aligned with the input.
func EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if cfg.GenaiClient == nil {
		return nil, &UpstreamError{Op: "gemini embed", Err: errGeminiDisabled}
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := geminiWait(ctx); err != nil {
		return nil, err
	}

	IncrEmbedCalls()
	em := cfg.GenaiClient.EmbeddingModel(cfg.GeminiEmbedModel)
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	res, err := RetryDo(ctx, DefaultRetryConfig, func() (*genai.BatchEmbedContentsResponse, error) {
		return em.BatchEmbedContents(ctx, batch)
	})
	if err != nil {
		IncrGeminiErrors()
		return nil, &UpstreamError{Op: "gemini embed", Err: err}
	}
	if len(res.Embeddings) != len(texts) {
		IncrGeminiErrors()
		return nil, &UpstreamError{Op: "gemini embed",
			Err: fmt.Errorf("got %d embeddings for %d texts", len(res.Embeddings), len(texts))}
	}

	out := make([][]float32, len(texts))
	for i, e := range res.Embeddings {
		if e == nil || len(e.Values) == 0 {
			IncrGeminiErrors()
			return nil, &UpstreamError{Op: "gemini embed", Err: errEmptyResponse}
		}
		out[i] = e.Values
	}
	return out, nil
}

// extractText concatenates the text parts of all candidates.
func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
