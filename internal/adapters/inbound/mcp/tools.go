package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xarsh/ooxml-validator-go/internal/application"
	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// registerTools registers all validation tools on the given server.
func registerTools(s *server.MCPServer, validate *application.ValidateService, locate *application.LocateService, defaults domain.RequestOptions) {
	versions := make([]string, len(domain.ValidOfficeVersions))
	for i, v := range domain.ValidOfficeVersions {
		versions[i] = string(v)
	}
	officeVersionDesc := "Office version to validate against: " + strings.Join(versions, ", ") + " (default " + string(domain.DefaultOfficeVersion) + ")"

	s.AddTool(
		mcplib.NewTool("ooxml_validate",
			mcplib.WithDescription("Validate an OOXML document (.docx, .pptx, .xlsx) and return {file, ok, errors} as JSON"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the document or directory to validate"),
			),
			mcplib.WithString("office_version", mcplib.Description(officeVersionDesc)),
			mcplib.WithBoolean("recursive", mcplib.Description("Validate a directory recursively")),
			mcplib.WithBoolean("all", mcplib.Description("Report every finding instead of stopping early")),
		),
		handleValidate(validate, defaults),
	)

	s.AddTool(
		mcplib.NewTool("ooxml_is_valid",
			mcplib.WithDescription("Report whether an OOXML document conforms, without the error list"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the document to validate"),
			),
			mcplib.WithString("office_version", mcplib.Description(officeVersionDesc)),
		),
		handleIsValid(validate, defaults),
	)

	s.AddTool(
		mcplib.NewTool("ooxml_locate",
			mcplib.WithDescription("Show the runtime identifier and the validator command that would run"),
		),
		handleLocate(locate),
	)
}

// requestFrom builds a ValidationRequest from tool arguments over defaults.
func requestFrom(request mcplib.CallToolRequest, defaults domain.RequestOptions) (domain.ValidationRequest, error) {
	file, err := request.RequireString("file")
	if err != nil {
		return domain.ValidationRequest{}, err
	}

	opts := defaults
	args := request.GetArguments()
	if v, ok := args["office_version"].(string); ok && v != "" {
		opts.OfficeVersion = v
	}
	if v, ok := args["recursive"].(bool); ok {
		opts.Recursive = v
	}
	if v, ok := args["all"].(bool); ok {
		opts.All = v
	}
	return domain.NewValidationRequest(file, opts), nil
}

func handleValidate(svc *application.ValidateService, defaults domain.RequestOptions) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		req, err := requestFrom(request, defaults)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		result, err := svc.Validate(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleIsValid(svc *application.ValidateService, defaults domain.RequestOptions) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		req, err := requestFrom(request, defaults)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		ok, err := svc.IsValid(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"file": req.File, "valid": ok})
	}
}

func handleLocate(svc *application.LocateService) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(svc.Describe())
	}
}

// jsonResult marshals v as indented JSON into a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
