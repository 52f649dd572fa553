package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/tui"
	"github.com/xarsh/ooxml-validator-go/internal/application"
	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

const (
	formatJSON = "json"
	formatText = "text"
)

func newValidateCmd(st *state) *cobra.Command {
	var (
		opts   domain.RequestOptions
		format string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "validate <file> [file...]",
		Short: "Validate OOXML documents",
		Long: "Run the native validator against each file and print the normalized result.\n" +
			"Exit status is 0 when every file conforms, 1 when any file does not, and 2 when the validator could not run.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatText {
				return fmt.Errorf("unknown format %q (valid: json, text)", format)
			}
			if !cmd.Flags().Changed("office-version") {
				opts.OfficeVersion = st.cfg.OfficeVersion
			}
			if v := strings.TrimSpace(opts.OfficeVersion); v != "" {
				if _, ok := domain.ParseOfficeVersion(v); !ok {
					st.logger.Warn("Unknown office version, using the default",
						zap.String("office_version", v), zap.String("default", string(domain.DefaultOfficeVersion)))
				}
			}

			reqs := make([]domain.ValidationRequest, len(args))
			for i, file := range args {
				reqs[i] = domain.NewValidationRequest(file, opts)
			}

			svc := newServices(st.cfg, st.logger).validate
			outcomes := svc.ValidateAll(cmd.Context(), reqs, jobs)

			out := cmd.OutOrStdout()
			var err error
			if format == formatJSON {
				err = writeOutcomesJSON(out, outcomes)
			} else {
				writeOutcomesText(out, outcomes)
			}
			if err != nil {
				return err
			}

			if err := application.FirstError(outcomes); err != nil {
				return err
			}
			if application.Summarize(outcomes).Nonconforming > 0 {
				return ErrNonconformant
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.OfficeVersion, "office-version", "", "Office version to validate against (Office2007 ... Microsoft365)")
	cmd.Flags().BoolVar(&opts.Recursive, "recursive", false, "Validate a directory recursively")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Report every finding instead of stopping early")
	cmd.Flags().BoolVar(&opts.XMLOutput, "xml", false, "Ask the validator for XML detail in its findings")
	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format: json or text")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of files validated concurrently")

	return cmd
}

type failedTarget struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// writeOutcomesJSON prints a single result object for one target and an
// array for several, keeping the single-file output identical to the
// native validator's own envelope.
func writeOutcomesJSON(w io.Writer, outcomes []application.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if len(outcomes) == 1 {
		if outcomes[0].Err != nil {
			return nil
		}
		return enc.Encode(outcomes[0].Result)
	}

	items := make([]any, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			items[i] = failedTarget{File: o.Request.File, Error: o.Err.Error()}
			continue
		}
		items[i] = o.Result
	}
	return enc.Encode(items)
}

func writeOutcomesText(w io.Writer, outcomes []application.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprint(w, tui.RenderFailure(o.Request.File, o.Err))
			continue
		}
		fmt.Fprint(w, tui.RenderResult(o.Result))
	}
	if len(outcomes) > 1 {
		s := application.Summarize(outcomes)
		fmt.Fprint(w, tui.RenderSummary(s.Total, s.Conforming, s.Nonconforming, s.Failed))
	}
}
