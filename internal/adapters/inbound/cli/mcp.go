package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/xarsh/ooxml-validator-go/internal/adapters/inbound/mcp"
)

func newMCPCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the ooxml-validate MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(st))
	return cmd
}

func newMCPServeCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio)",
		Long:  "Start the MCP server using stdio transport so AI assistants can validate OOXML documents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newServices(st.cfg, st.logger)
			s := mcpadapter.NewServer(svc.validate, svc.locate, st.cfg.DefaultRequestOptions(), version)
			return server.ServeStdio(s)
		},
	}
}
