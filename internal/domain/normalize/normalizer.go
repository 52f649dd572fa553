// Package normalize turns the native validator's stdout into a canonical
// ValidationResult. It accepts every output shape the validator has shipped:
// the legacy bare array of errors, a single bare error object, and the
// {file, ok, errors} envelope, with either PascalCase or camelCase keys.
package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
	"github.com/goccy/go-json"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// MaxRawLen bounds the raw output carried by an OutputParseError.
const MaxRawLen = 4096

var utf8BOM = []byte("\xef\xbb\xbf")

// Envelope keys, in canonical spelling.
const (
	keyFile   = "file"
	keyOK     = "ok"
	keyErrors = "errors"
)

// keyAliases are spellings whose word split differs from the canonical key
// but which name the same field.
var keyAliases = map[string][]string{
	domain.KeyXPath: {"XPath"},
}

var errorFields = []string{
	domain.KeyDescription,
	domain.KeyPath,
	domain.KeyXPath,
	domain.KeyErrorType,
	domain.KeyID,
}

// Normalizer implements domain.OutputNormalizer.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer { return &Normalizer{} }

// Normalize implements domain.OutputNormalizer.
func (n *Normalizer) Normalize(raw *domain.RawOutput) (*domain.ValidationResult, error) {
	return Normalize(raw)
}

// Normalize parses raw.Stdout and reshapes it into a ValidationResult.
// Empty output is an inconclusive run and never yields OK.
func Normalize(raw *domain.RawOutput) (*domain.ValidationResult, error) {
	data := bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(raw.Stdout), utf8BOM))
	if len(data) == 0 {
		return &domain.ValidationResult{File: raw.File, OK: false, Errors: []domain.ValidationError{}}, nil
	}

	value, err := decode(data)
	if err != nil {
		return nil, &domain.OutputParseError{Err: err, Raw: truncate(string(data))}
	}

	switch v := value.(type) {
	case []any:
		return domain.NewValidationResult(raw.File, normalizeErrors(v)), nil
	case map[string]any:
		if isEnvelope(v) {
			return normalizeEnvelope(v, raw.File), nil
		}
		res := domain.NewValidationResult(raw.File, []domain.ValidationError{normalizeError(v)})
		return res, nil
	default:
		return nil, &domain.OutputParseError{
			Err: fmt.Errorf("expected a JSON array or object, got %T", value),
			Raw: truncate(string(data)),
		}
	}
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}

	var trailing any
	switch err := dec.Decode(&trailing); {
	case errors.Is(err, io.EOF):
		return value, nil
	case err != nil:
		return nil, err
	default:
		return nil, errors.New("unexpected data after the top-level JSON value")
	}
}

func isEnvelope(obj map[string]any) bool {
	for k := range obj {
		switch foldKey(k) {
		case keyFile, keyOK, keyErrors:
			return true
		}
	}
	return false
}

func normalizeEnvelope(obj map[string]any, requested string) *domain.ValidationResult {
	groups, extra := groupKeys(obj, []string{keyFile, keyOK, keyErrors})

	res := &domain.ValidationResult{File: requested}

	file, rest := pick(obj, keyFile, groups[keyFile], isString)
	if file != nil {
		res.File = file.(string)
	}
	keepVariants(obj, rest, file, extra)

	var errs []domain.ValidationError
	list, rest := pick(obj, keyErrors, groups[keyErrors], func(v any) bool { return v != nil })
	switch l := list.(type) {
	case []any:
		errs = normalizeErrors(l)
	case map[string]any:
		errs = []domain.ValidationError{normalizeError(l)}
	case nil:
		errs = []domain.ValidationError{}
	default:
		errs = []domain.ValidationError{{Description: scalarText(l)}}
	}
	keepVariants(obj, rest, list, extra)
	res.Errors = errs

	ok, rest := pick(obj, keyOK, groups[keyOK], isBool)
	if ok != nil {
		// An explicit flag from the validator is authoritative, even when it
		// disagrees with the error count.
		res.OK = ok.(bool)
	} else {
		res.OK = len(errs) == 0
	}
	keepVariants(obj, rest, ok, extra)

	if len(extra) > 0 {
		res.Extra = extra
	}
	return res
}

func normalizeErrors(items []any) []domain.ValidationError {
	errs := make([]domain.ValidationError, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			errs = append(errs, normalizeError(obj))
			continue
		}
		errs = append(errs, domain.ValidationError{Description: scalarText(item)})
	}
	return errs
}

func normalizeError(obj map[string]any) domain.ValidationError {
	groups, extra := groupKeys(obj, errorFields)

	var out domain.ValidationError
	targets := map[string]*string{
		domain.KeyDescription: &out.Description,
		domain.KeyPath:        &out.Path,
		domain.KeyXPath:       &out.XPath,
		domain.KeyErrorType:   &out.ErrorType,
		domain.KeyID:          &out.ID,
	}
	for _, field := range errorFields {
		val, rest := pick(obj, field, groups[field], isString)
		if val != nil {
			*targets[field] = val.(string)
		}
		keepVariants(obj, rest, val, extra)
	}

	if len(extra) > 0 {
		out.Extra = extra
	}
	return out
}

// groupKeys buckets the keys of obj by the canonical name they fold to.
// Keys that fold to none of canonical are returned as extras.
func groupKeys(obj map[string]any, canonical []string) (map[string][]string, map[string]any) {
	byFold := make(map[string]string, len(canonical))
	for _, c := range canonical {
		byFold[foldKey(c)] = c
		for _, alias := range keyAliases[c] {
			byFold[foldKey(alias)] = c
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make(map[string][]string)
	extra := make(map[string]any)
	for _, k := range keys {
		if c, ok := byFold[foldKey(k)]; ok {
			groups[c] = append(groups[c], k)
			continue
		}
		extra[k] = obj[k]
	}
	return groups, extra
}

// pick chooses the value for canonical among its spelling variants. The exact
// canonical spelling wins, then the first accepted variant in key order.
// It returns the chosen value and the keys that were not chosen.
func pick(obj map[string]any, canonical string, variants []string, accept func(any) bool) (any, []string) {
	chosen := ""
	for _, k := range variants {
		if k == canonical && accept(obj[k]) {
			chosen = k
			break
		}
	}
	if chosen == "" {
		for _, k := range variants {
			if accept(obj[k]) {
				chosen = k
				break
			}
		}
	}

	if chosen == "" {
		return nil, variants
	}
	rest := make([]string, 0, len(variants)-1)
	for _, k := range variants {
		if k != chosen {
			rest = append(rest, k)
		}
	}
	return obj[chosen], rest
}

// keepVariants moves unchosen spellings into extra unless they are null or
// repeat the chosen value.
func keepVariants(obj map[string]any, rest []string, chosen any, extra map[string]any) {
	for _, k := range rest {
		v := obj[k]
		if v == nil || sameScalar(v, chosen) {
			continue
		}
		extra[k] = v
	}
}

// foldKey reduces a key to its lower-case words joined by "_", splitting on
// case changes and dropping separators. "ErrorType", "errorType",
// "error_type" and "Error-Type" all fold to "error_type"; "errortype" has no
// word boundary and folds to itself.
func foldKey(key string) string {
	words := make([]string, 0, 4)
	for _, word := range camelcase.Split(key) {
		var b strings.Builder
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToLower(r))
			}
		}
		if b.Len() > 0 {
			words = append(words, b.String())
		}
	}
	return strings.Join(words, "_")
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func sameScalar(a, b any) bool {
	switch a.(type) {
	case string, bool, json.Number:
		return a == b
	}
	return false
}

func scalarText(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func truncate(s string) string {
	if len(s) <= MaxRawLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, %d bytes total)", s[:MaxRawLen], len(s))
}
