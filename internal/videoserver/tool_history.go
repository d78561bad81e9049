package videoserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_videomind/internal/engine/videos"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerHistoryList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analysis_history_list",
		Description: "List past video analyses from the local history (SQLite). Returns entries sorted by most recently updated, with video ID, title, and summary.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input videos.HistoryListInput) (*mcp.CallToolResult, *videos.HistoryListResult, error) {
		result, err := videos.ListAnalyses(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerHistoryGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analysis_history_get",
		Description: "Get a past video analysis by video ID. Get IDs from analysis_history_list.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input videos.HistoryEntryInput) (*mcp.CallToolResult, *videos.AnalysisRecord, error) {
		if input.VideoID == "" {
			return nil, nil, errors.New("video_id is required")
		}
		result, err := videos.GetAnalysis(ctx, input.VideoID)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerHistoryDelete(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analysis_history_delete",
		Description: "Delete a past video analysis by video ID. Get IDs from analysis_history_list.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input videos.HistoryEntryInput) (*mcp.CallToolResult, *videos.HistoryActionResult, error) {
		if input.VideoID == "" {
			return nil, nil, errors.New("video_id is required")
		}
		if err := videos.DeleteAnalysis(ctx, input.VideoID); err != nil {
			return nil, nil, err
		}
		return nil, &videos.HistoryActionResult{VideoID: input.VideoID, Message: "analysis deleted"}, nil
	})
}
