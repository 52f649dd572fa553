package domain

import "strings"

// OfficeVersion is the file-format version the native validator checks against.
type OfficeVersion string

const (
	Office2007   OfficeVersion = "Office2007"
	Office2010   OfficeVersion = "Office2010"
	Office2013   OfficeVersion = "Office2013"
	Office2016   OfficeVersion = "Office2016"
	Office2019   OfficeVersion = "Office2019"
	Office2021   OfficeVersion = "Office2021"
	Microsoft365 OfficeVersion = "Microsoft365"
)

// DefaultOfficeVersion is the most current supported version.
const DefaultOfficeVersion = Microsoft365

// ValidOfficeVersions enumerates the recognized version tags, most recent first.
var ValidOfficeVersions = []OfficeVersion{
	Microsoft365,
	Office2021,
	Office2019,
	Office2016,
	Office2013,
	Office2010,
	Office2007,
}

// ParseOfficeVersion matches s case-insensitively against the known tags.
// It returns DefaultOfficeVersion and false when s is not recognized.
func ParseOfficeVersion(s string) (OfficeVersion, bool) {
	s = strings.TrimSpace(s)
	for _, v := range ValidOfficeVersions {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	return DefaultOfficeVersion, false
}

// RequestOptions are the caller-facing knobs of a validation call.
type RequestOptions struct {
	OfficeVersion string `json:"office_version,omitempty" yaml:"office_version,omitempty"`
	Recursive     bool   `json:"recursive,omitempty"      yaml:"recursive,omitempty"`
	All           bool   `json:"all,omitempty"            yaml:"all,omitempty"`
	XMLOutput     bool   `json:"xml_output,omitempty"     yaml:"xml_output,omitempty"`
}

// ValidationRequest describes one validation of one target.
// Construct it with NewValidationRequest and treat it as a value.
type ValidationRequest struct {
	File          string
	OfficeVersion OfficeVersion // empty: let the validator apply its default
	Recursive     bool
	All           bool
	XMLOutput     bool
}

// NewValidationRequest builds a request for file. An unset version tag stays
// unset; an unparseable one falls back to DefaultOfficeVersion.
func NewValidationRequest(file string, opts RequestOptions) ValidationRequest {
	req := ValidationRequest{
		File:      file,
		Recursive: opts.Recursive,
		All:       opts.All,
		XMLOutput: opts.XMLOutput,
	}
	if strings.TrimSpace(opts.OfficeVersion) != "" {
		req.OfficeVersion, _ = ParseOfficeVersion(opts.OfficeVersion)
	}
	return req
}

// EffectiveOfficeVersion is the version the validator will actually apply.
func (r ValidationRequest) EffectiveOfficeVersion() OfficeVersion {
	if r.OfficeVersion == "" {
		return DefaultOfficeVersion
	}
	return r.OfficeVersion
}

// Args is the native validator argument list for this request, without any
// leading arguments contributed by the handle. Flags are only emitted when
// explicitly requested.
func (r ValidationRequest) Args() []string {
	args := []string{r.File}
	if r.OfficeVersion != "" {
		args = append(args, string(r.OfficeVersion))
	}
	if r.XMLOutput {
		args = append(args, "--xml")
	}
	if r.Recursive {
		args = append(args, "--recursive")
	}
	if r.All {
		args = append(args, "--all")
	}
	return args
}
