// Package videoserver exposes the video analysis engine as MCP tools:
// analyze_video, video_timestamps, chat_with_video, visual_search,
// export_summary_pdf, and the analysis history tools.
package videoserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all video tools on the given MCP server.
func RegisterTools(server *mcp.Server) {
	registerAnalyzeVideo(server)
	registerVideoTimestamps(server)
	registerChatWithVideo(server)
	registerVisualSearch(server)
	registerExportSummaryPDF(server)
	registerHistoryList(server)
	registerHistoryGet(server)
	registerHistoryDelete(server)
}
