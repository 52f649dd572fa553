package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/tui"
)

func newLocateCmd(st *state) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Show which validator would run",
		Long:  "Print the runtime identifier, the resolved validator command and whether the embedded binary is installed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := newServices(st.cfg, st.logger).locate.Describe()

			if jsonOutput {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderLocate(info))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
