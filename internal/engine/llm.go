package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"
)

// Text-path LLM calls: operations that work from a transcript instead of the
// video itself go through the chat-completions client configured in main.

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	IncrLLMCalls()
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt)
	if err != nil {
		IncrLLMErrors()
		return "", &UpstreamError{Op: "llm", Err: err}
	}
	return stripFences(resp), nil
}

// SummarizeTranscript produces a markdown summary with inline clock-time
// marks from a transcript.
func SummarizeTranscript(ctx context.Context, title string, durationSeconds int, transcript string) (string, error) {
	prompt := fmt.Sprintf(summaryFromTranscriptPrompt,
		title, FormatClockTime(durationSeconds),
		TruncateAtWord(transcript, cfg.MaxTranscriptChars))
	return CallLLM(ctx, prompt)
}

// TimestampsFromTranscript asks for key moments as a JSON array and returns
// the raw payload. Callers decode it with ParseTimestampPayload.
func TimestampsFromTranscript(ctx context.Context, title string, durationSeconds int, transcript string) (string, error) {
	prompt := fmt.Sprintf(timestampsFromTranscriptPrompt,
		title, FormatClockTime(durationSeconds),
		TruncateAtWord(transcript, cfg.MaxTranscriptChars))
	return CallLLM(ctx, prompt)
}

// AnswerFromTranscript answers a question about a video from its transcript.
func AnswerFromTranscript(ctx context.Context, title, transcript, question string) (string, error) {
	prompt := fmt.Sprintf(chatFromTranscriptPrompt,
		title, TruncateAtWord(transcript, cfg.MaxTranscriptChars), question)
	IncrLLMCalls()
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt,
		llm.WithChatTemperature(0.4),
	)
	if err != nil {
		IncrLLMErrors()
		return "", &UpstreamError{Op: "llm", Err: err}
	}
	return stripFences(resp), nil
}

// ParseTimestampPayload decodes a model response that should be a JSON array
// of timestamp objects. A fenced or chatter-wrapped array is salvaged by
// slicing from the first '[' to the last ']'. Returns false when no JSON
// array can be recovered; an empty array decodes successfully.
func ParseTimestampPayload(raw string) ([]TimestampCandidate, bool) {
	s := stripFences(raw)

	var cands []TimestampCandidate
	if err := json.Unmarshal([]byte(s), &cands); err == nil {
		return cands, true
	}

	salvaged := ExtractJSONArray(s)
	if salvaged == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(salvaged), &cands); err != nil {
		return nil, false
	}
	return cands, true
}

// ExtractJSONArray slices the outermost JSON array out of text that wraps it
// in prose or markdown. Returns "" if no array brackets are present.
func ExtractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
