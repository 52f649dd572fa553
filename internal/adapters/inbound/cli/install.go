package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/tui"
	"github.com/xarsh/ooxml-validator-go/internal/application"
	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

func newInstallCmd(st *state) *cobra.Command {
	var (
		releaseTag string
		force      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the native validator for this platform",
		Long: "Download the validator release binary for the current OS and architecture into the install root.\n" +
			"Installation is best-effort: a failure is reported but never fails the command.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("version") {
				releaseTag = st.cfg.Version
			}

			svc := newServices(st.cfg, st.logger).install
			report := svc.Install(cmd.Context(), application.InstallOptions{
				Version:     releaseTag,
				InstallRoot: st.cfg.InstallRoot,
				Force:       force,
			})

			if jsonOutput {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderInstall(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&releaseTag, "version", "", "Release tag to install (default from config or "+domain.EnvVersion+")")
	cmd.Flags().BoolVar(&force, "force", false, "Download even when this version is already installed")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the install report as JSON")

	return cmd
}
