package videoserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_videomind/internal/engine"
	"github.com/anatolykoptev/go_videomind/internal/engine/videos"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerChatWithVideo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "chat_with_video",
		Description: "Ask a question about a YouTube video's content and get a grounded answer. Answers from the transcript when one exists, otherwise from Gemini video understanding.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ChatInput) (*mcp.CallToolResult, engine.ChatOutput, error) {
		if input.VideoURL == "" {
			return nil, engine.ChatOutput{}, errors.New("video_url is required")
		}
		if input.Query == "" {
			return nil, engine.ChatOutput{}, errors.New("query is required")
		}
		out, err := videos.ChatWithVideo(ctx, input)
		if err != nil {
			return nil, engine.ChatOutput{}, err
		}
		return nil, out, nil
	})
}
