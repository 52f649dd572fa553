package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpadapter "github.com/xarsh/ooxml-validator-go/internal/adapters/inbound/mcp"
	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/locator"
	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/manifest"
	"github.com/xarsh/ooxml-validator-go/internal/application"
	"github.com/xarsh/ooxml-validator-go/internal/domain"
	"github.com/xarsh/ooxml-validator-go/internal/domain/normalize"
)

// stubRunner answers with canned stdout per file and records requests.
type stubRunner struct {
	stdout map[string]string
	last   domain.ValidationRequest
	handle domain.ValidatorHandle
}

func (r *stubRunner) Run(_ context.Context, handle domain.ValidatorHandle, req domain.ValidationRequest) (*domain.RawOutput, error) {
	r.last, r.handle = req, handle
	out, ok := r.stdout[req.File]
	if !ok {
		return nil, &domain.ProcessExitError{Code: 1, Diagnostic: "Could not find file " + req.File}
	}
	return &domain.RawOutput{File: req.File, Stdout: []byte(out)}, nil
}

func newTestServer(t *testing.T, runner *stubRunner, defaults domain.RequestOptions) *server.MCPServer {
	t.Helper()
	loc := locator.NewForPlatform("/opt/checker --strict", t.TempDir(), "linux", "amd64")
	validate := application.NewValidateService(loc, runner, normalize.New(), nil)
	locate := application.NewLocateService(loc, manifest.New(), nil)
	return mcpadapter.NewServer(validate, locate, defaults, "test")
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %q should be registered", name)

	req := mcplib.CallToolRequest{Params: mcplib.CallToolParams{Name: name, Arguments: args}}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestMCPServerHasTools(t *testing.T) {
	s := newTestServer(t, &stubRunner{}, domain.RequestOptions{})

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{"ooxml_validate", "ooxml_is_valid", "ooxml_locate"}
	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}
	assert.Len(t, tools, len(expectedTools))
}

func TestValidateTool_ReturnsCanonicalResult(t *testing.T) {
	runner := &stubRunner{stdout: map[string]string{
		"report.docx": `[{"Description":"bad child","Path":"/word/document.xml","ErrorType":"Schema"}]`,
	}}
	s := newTestServer(t, runner, domain.RequestOptions{})

	res := callTool(t, s, "ooxml_validate", map[string]any{"file": "report.docx", "office_version": "Office2016", "all": true})
	assert.False(t, res.IsError)

	var body struct {
		File   string              `json:"file"`
		OK     bool                `json:"ok"`
		Errors []map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &body))
	assert.Equal(t, "report.docx", body.File)
	assert.False(t, body.OK)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "bad child", body.Errors[0]["description"])
	assert.Equal(t, "Schema", body.Errors[0]["errorType"])

	assert.Equal(t, domain.Office2016, runner.last.OfficeVersion)
	assert.True(t, runner.last.All)
	assert.Equal(t, []string{"--strict"}, runner.handle.Args)
}

func TestValidateTool_UsesDefaults(t *testing.T) {
	runner := &stubRunner{stdout: map[string]string{"a.xlsx": `[]`}}
	s := newTestServer(t, runner, domain.RequestOptions{OfficeVersion: "Office2019", Recursive: true})

	res := callTool(t, s, "ooxml_validate", map[string]any{"file": "a.xlsx"})
	assert.False(t, res.IsError)
	assert.Equal(t, domain.Office2019, runner.last.OfficeVersion)
	assert.True(t, runner.last.Recursive)

	res = callTool(t, s, "ooxml_validate", map[string]any{"file": "a.xlsx", "recursive": false})
	assert.False(t, res.IsError)
	assert.False(t, runner.last.Recursive)
}

func TestValidateTool_MissingFile(t *testing.T) {
	s := newTestServer(t, &stubRunner{}, domain.RequestOptions{})

	res := callTool(t, s, "ooxml_validate", map[string]any{})
	assert.True(t, res.IsError)
}

func TestValidateTool_ValidatorFailure(t *testing.T) {
	s := newTestServer(t, &stubRunner{}, domain.RequestOptions{})

	res := callTool(t, s, "ooxml_validate", map[string]any{"file": "missing.docx"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "exited with code 1")
}

func TestIsValidTool(t *testing.T) {
	s := newTestServer(t, &stubRunner{stdout: map[string]string{
		"good.pptx": `{"file":"good.pptx","ok":true,"errors":[]}`,
		"bad.pptx":  `[{"description":"x"}]`,
	}}, domain.RequestOptions{})

	var body struct {
		File  string `json:"file"`
		Valid bool   `json:"valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, callTool(t, s, "ooxml_is_valid", map[string]any{"file": "good.pptx"}))), &body))
	assert.True(t, body.Valid)

	require.NoError(t, json.Unmarshal([]byte(text(t, callTool(t, s, "ooxml_is_valid", map[string]any{"file": "bad.pptx"}))), &body))
	assert.False(t, body.Valid)
	assert.Equal(t, "bad.pptx", body.File)
}

func TestLocateTool(t *testing.T) {
	s := newTestServer(t, &stubRunner{}, domain.RequestOptions{})

	var info domain.RuntimeInfo
	require.NoError(t, json.Unmarshal([]byte(text(t, callTool(t, s, "ooxml_locate", nil))), &info))
	assert.Equal(t, domain.RuntimeLinuxX64, info.Runtime)
	require.NotNil(t, info.Handle)
	assert.True(t, info.Handle.Override)
	assert.Equal(t, "/opt/checker", info.Handle.Path)
}
