package normalize_test

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
	"github.com/xarsh/ooxml-validator-go/internal/domain/normalize"
)

func raw(file, stdout string) *domain.RawOutput {
	return &domain.RawOutput{File: file, Stdout: []byte(stdout)}
}

func TestNormalize_EnvelopeOK(t *testing.T) {
	res, err := normalize.Normalize(raw("report.docx", `{"file":"report.docx","ok":true,"errors":[]}`))
	require.NoError(t, err)

	assert.Equal(t, "report.docx", res.File)
	assert.True(t, res.OK)
	assert.NotNil(t, res.Errors)
	assert.Empty(t, res.Errors)
	assert.Nil(t, res.Extra)
}

func TestNormalize_LegacyBareArray(t *testing.T) {
	res, err := normalize.Normalize(raw("slide.pptx", `[{"Description":"bad element","ErrorType":"SchemaValidation"}]`))
	require.NoError(t, err)

	assert.Equal(t, "slide.pptx", res.File)
	assert.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "bad element", res.Errors[0].Description)
	assert.Equal(t, "SchemaValidation", res.Errors[0].ErrorType)
	assert.Nil(t, res.Errors[0].Extra)
}

func TestNormalize_LegacyEmptyArrayIsOK(t *testing.T) {
	res, err := normalize.Normalize(raw("a.xlsx", "[]\n"))
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Empty(t, res.Errors)
}

func TestNormalize_LegacyAndEnvelopeAreEqual(t *testing.T) {
	legacy, err := normalize.Normalize(raw("doc.docx",
		`[{"Description":"bad element","Path":"/word/document.xml","XPath":"/w:document[1]","ErrorType":"Schema","Id":"Sch_UnexpectedElement"}]`))
	require.NoError(t, err)

	modern, err := normalize.Normalize(raw("doc.docx",
		`{"file":"doc.docx","ok":false,"errors":[{"description":"bad element","path":"/word/document.xml","xpath":"/w:document[1]","errorType":"Schema","id":"Sch_UnexpectedElement"}]}`))
	require.NoError(t, err)

	assert.Equal(t, legacy, modern)
}

func TestNormalize_PascalCaseEnvelope(t *testing.T) {
	res, err := normalize.Normalize(raw("requested.docx",
		`{"File":"tool.docx","Ok":false,"Errors":[{"Description":"x","Path":"/word/document.xml","XPath":"/w:p","Id":null,"ErrorType":"Semantic"}]}`))
	require.NoError(t, err)

	assert.Equal(t, "tool.docx", res.File)
	assert.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	e := res.Errors[0]
	assert.Equal(t, "x", e.Description)
	assert.Equal(t, "/word/document.xml", e.Path)
	assert.Equal(t, "/w:p", e.XPath)
	assert.Equal(t, "Semantic", e.ErrorType)
	assert.Empty(t, e.ID)
	assert.Nil(t, e.Extra, "null Id must not be preserved as an extra")
}

func TestNormalize_ExplicitOKFlagIsAuthoritative(t *testing.T) {
	res, err := normalize.Normalize(raw("broken.docx", `{"file":"broken.docx","ok":false,"errors":[]}`))
	require.NoError(t, err)
	assert.False(t, res.OK, "explicit ok=false with zero errors must be kept")
	assert.Empty(t, res.Errors)

	res, err = normalize.Normalize(raw("odd.docx", `{"file":"odd.docx","ok":true,"errors":[{"description":"x"}]}`))
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Len(t, res.Errors, 1)
}

func TestNormalize_OKDerivedWhenMissing(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx", `{"file":"a.docx","errors":[{"description":"x"}]}`))
	require.NoError(t, err)
	assert.False(t, res.OK)

	res, err = normalize.Normalize(raw("a.docx", `{"errors":[]}`))
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "a.docx", res.File, "missing file falls back to the requested path")
}

func TestNormalize_SingleErrorObjectInsteadOfList(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx", `{"file":"a.docx","errors":{"Description":"only one"}}`))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "only one", res.Errors[0].Description)
	assert.False(t, res.OK)
}

func TestNormalize_NullErrors(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx", `{"file":"a.docx","ok":true,"errors":null}`))
	require.NoError(t, err)
	assert.NotNil(t, res.Errors)
	assert.Empty(t, res.Errors)
	assert.True(t, res.OK)
}

func TestNormalize_BareErrorObject(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx", `{"Description":"Unsupported extension: .txt","ErrorType":"Exception"}`))
	require.NoError(t, err)
	assert.Equal(t, "a.docx", res.File)
	assert.False(t, res.OK)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Exception", res.Errors[0].ErrorType)
}

func TestNormalize_PreservesUnknownFields(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx",
		`{"file":"a.docx","ok":false,"schemaVersion":2,"tool":{"name":"x"},"errors":[{"description":"d","severity":"high","line":12}]}`))
	require.NoError(t, err)

	require.NotNil(t, res.Extra)
	assert.Equal(t, json.Number("2"), res.Extra["schemaVersion"])
	assert.Equal(t, map[string]any{"name": "x"}, res.Extra["tool"])

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "high", res.Errors[0].Extra["severity"])
	assert.Equal(t, json.Number("12"), res.Errors[0].Extra["line"])

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"schemaVersion":2`)
	assert.Contains(t, string(out), `"severity":"high"`)
	assert.Contains(t, string(out), `"line":12`)
}

func TestNormalize_ConflictingCasingKeepsOriginal(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx",
		`[{"Description":"from pascal","description":"from camel","ErrorType":"Schema","errorType":"Schema"}]`))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)

	e := res.Errors[0]
	assert.Equal(t, "from camel", e.Description, "exact canonical spelling wins")
	assert.Equal(t, "from pascal", e.Extra["Description"], "different value is retained under its original key")
	assert.Equal(t, "Schema", e.ErrorType)
	_, dup := e.Extra["ErrorType"]
	assert.False(t, dup, "identical duplicate is dropped")
}

func TestNormalize_SnakeCaseKeys(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx", `[{"description":"d","error_type":"Schema","x_path":"/a"}]`))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Schema", res.Errors[0].ErrorType)
	assert.Equal(t, "/a", res.Errors[0].XPath)
}

func TestNormalize_KeysFoldOnWordBoundaries(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx",
		`[{"Error-Type":"Schema","xPath":"/w:p","XPATH":"/w:p","errortype":"kept","descriptionText":"also kept"}]`))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)

	e := res.Errors[0]
	assert.Equal(t, "Schema", e.ErrorType)
	assert.Equal(t, "/w:p", e.XPath)
	assert.Empty(t, e.Description)
	assert.Equal(t, "kept", e.Extra["errortype"], "one word is not errorType")
	assert.Equal(t, "also kept", e.Extra["descriptionText"])
	_, dup := e.Extra["XPATH"]
	assert.False(t, dup)
}

func TestNormalize_NonStringCanonicalValueIsKept(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx", `[{"description":"d","id":17}]`))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Empty(t, res.Errors[0].ID)
	assert.Equal(t, json.Number("17"), res.Errors[0].Extra["id"])
}

func TestNormalize_NonObjectArrayItems(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx", `["plain message", 3]`))
	require.NoError(t, err)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "plain message", res.Errors[0].Description)
	assert.Equal(t, "3", res.Errors[1].Description)
}

func TestNormalize_EmptyStdoutIsNotOK(t *testing.T) {
	for _, out := range []string{"", "   ", "\n\t\n"} {
		res, err := normalize.Normalize(raw("a.docx", out))
		require.NoError(t, err)
		assert.False(t, res.OK, "empty output must never be ok")
		assert.NotNil(t, res.Errors)
		assert.Empty(t, res.Errors)
		assert.Equal(t, "a.docx", res.File)
	}
}

func TestNormalize_ByteOrderMark(t *testing.T) {
	res, err := normalize.Normalize(raw("a.docx", "\xef\xbb\xbf{\"file\":\"a.docx\",\"ok\":true,\"errors\":[]}"))
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestNormalize_MalformedJSON(t *testing.T) {
	_, err := normalize.Normalize(raw("a.docx", `{"file": "a.docx", "ok": tru`))
	require.Error(t, err)

	var parseErr *domain.OutputParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Raw, `"ok": tru`)
	assert.Error(t, parseErr.Err)
}

func TestNormalize_TrailingData(t *testing.T) {
	_, err := normalize.Normalize(raw("a.docx", `{"ok":true} {"ok":false}`))
	var parseErr *domain.OutputParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestNormalize_ScalarTopLevel(t *testing.T) {
	_, err := normalize.Normalize(raw("a.docx", `"done"`))
	var parseErr *domain.OutputParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestNormalize_TruncatesLargeRawOutput(t *testing.T) {
	big := "not json " + strings.Repeat("x", normalize.MaxRawLen*2)
	_, err := normalize.Normalize(raw("a.docx", big))

	var parseErr *domain.OutputParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Less(t, len(parseErr.Raw), len(big))
	assert.Contains(t, parseErr.Raw, "truncated")
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		`{"file":"a.docx","ok":false,"meta":{"v":1},"errors":[{"Description":"x","description":"y","extra":[1,2]}]}`,
		`[{"Description":"bad element","ErrorType":"SchemaValidation"}]`,
		``,
	}
	for _, in := range inputs {
		first, err := normalize.Normalize(raw("a.docx", in))
		require.NoError(t, err)
		second, err := normalize.Normalize(raw("a.docx", in))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestNormalizer_ImplementsPort(t *testing.T) {
	var n domain.OutputNormalizer = normalize.New()
	res, err := n.Normalize(raw("a.docx", `[]`))
	require.NoError(t, err)
	assert.True(t, res.OK)
}
