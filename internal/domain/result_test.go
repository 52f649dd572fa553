package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

func TestNewValidationResult_DerivesOK(t *testing.T) {
	res := domain.NewValidationResult("a.docx", nil)
	assert.True(t, res.OK)
	assert.NotNil(t, res.Errors)

	res = domain.NewValidationResult("a.docx", []domain.ValidationError{{Description: "x"}})
	assert.False(t, res.OK)
}

func TestValidationResult_MarshalJSON(t *testing.T) {
	res := domain.ValidationResult{
		File: "report.docx",
		OK:   false,
		Errors: []domain.ValidationError{
			{
				Description: "bad element",
				XPath:       "/w:document[1]",
				ErrorType:   "Schema",
				Extra:       map[string]any{"severity": "high", "description": "shadowed"},
			},
		},
		Extra: map[string]any{"schemaVersion": 2, "ok": "shadowed"},
	}

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "report.docx", decoded["file"])
	assert.Equal(t, false, decoded["ok"], "canonical fields win over extras")
	assert.Equal(t, float64(2), decoded["schemaVersion"])

	errs, ok := decoded["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	e := errs[0].(map[string]any)
	assert.Equal(t, "bad element", e["description"])
	assert.Equal(t, "/w:document[1]", e["xpath"])
	assert.Equal(t, "Schema", e["errorType"])
	assert.Equal(t, "high", e["severity"])
	assert.NotContains(t, e, "path", "empty canonical fields are omitted")
}

func TestValidationResult_MarshalJSON_NilErrorsIsArray(t *testing.T) {
	data, err := json.Marshal(domain.ValidationResult{File: "a.docx"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"file":"a.docx","ok":false,"errors":[]}`, string(data))
}

func TestValidationResult_ErrorTypes(t *testing.T) {
	res := domain.NewValidationResult("a.docx", []domain.ValidationError{
		{ErrorType: "Schema"}, {ErrorType: "Schema"}, {ErrorType: "Semantic"}, {},
	})
	assert.Equal(t, map[string]int{"Schema": 2, "Semantic": 1, "Unknown": 1}, res.ErrorTypes())
}
