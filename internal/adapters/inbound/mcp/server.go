package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/xarsh/ooxml-validator-go/internal/application"
	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// NewServer creates an MCP server with the validation tools and the runtime
// resource registered. defaults seed options the caller does not pass.
func NewServer(
	validate *application.ValidateService,
	locate *application.LocateService,
	defaults domain.RequestOptions,
	version string,
) *server.MCPServer {
	s := server.NewMCPServer(
		"ooxml-validate",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, validate, locate, defaults)
	registerResources(s, locate)

	return s
}
