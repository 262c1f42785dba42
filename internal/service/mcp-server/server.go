package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"slack_scribe/internal/archive"
	"slack_scribe/internal/storage"
)

// NewServer creates an MCP server exposing the thread archival capability to
// external MCP clients.
func NewServer(fetcher archive.ThreadFetcher, publisher archive.Publisher, records storage.RecordStore) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		"slack scribe",
		"1.0.0",
	)

	registerArchiveTools(s, fetcher, publisher, records)

	return s, nil
}

// Serve starts the MCP server on stdio
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
