package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"slack_scribe/internal/archive"
	"slack_scribe/internal/storage"
)

// registerArchiveTools registers the thread archival tool with the server.
// Unlike the webhook path there is no triggering event to bind defaults to,
// so both arguments are required.
func registerArchiveTools(s *server.MCPServer, fetcher archive.ThreadFetcher, publisher archive.Publisher, records storage.RecordStore) {
	archiveTool := mcp.NewTool("archive_thread",
		mcp.WithDescription("Publish a Slack thread as a Discourse post and return the created post's id and URL"),
		mcp.WithString("channel",
			mcp.Required(),
			mcp.Description("Slack channel id (e.g., 'C0123456789')"),
		),
		mcp.WithString("thread_ts",
			mcp.Required(),
			mcp.Description("Thread root timestamp (e.g., '1700000000.000100')"),
		),
	)

	s.AddTool(archiveTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		channel, ok := request.GetArguments()["channel"].(string)
		if !ok || channel == "" {
			return nil, fmt.Errorf("invalid channel parameter")
		}
		threadTS, ok := request.GetArguments()["thread_ts"].(string)
		if !ok || threadTS == "" {
			return nil, fmt.Errorf("invalid thread_ts parameter")
		}

		tool := archive.NewTool(fetcher, publisher, records, channel, threadTS)
		result, err := tool.Run(ctx, nil)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(result), nil
	})
}
