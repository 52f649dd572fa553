package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xarsh/ooxml-validator-go/internal/application"
)

const runtimeURI = "ooxml://runtime"

// registerResources registers the runtime resource on the given server.
func registerResources(s *server.MCPServer, locate *application.LocateService) {
	s.AddResource(
		mcplib.NewResource(
			runtimeURI,
			"Validator Runtime",
			mcplib.WithResourceDescription("Runtime identifier, resolved validator command and install state"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRuntimeResource(locate),
	)
}

func handleRuntimeResource(locate *application.LocateService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(locate.Describe(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling runtime info: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      runtimeURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
