package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/config"
	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		officeVersion string
		force         bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Generate a .ooxml-validator.yaml configuration file",
		Long:  "Create a .ooxml-validator.yaml with the default settings in dir (default: current directory).",
		Args:  cobra.MaximumNArgs(1),
		// init must work even when the existing config is broken
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := domain.DefaultConfig()
			cfg.InstallRoot = ""
			if officeVersion != "" {
				v, ok := domain.ParseOfficeVersion(officeVersion)
				if !ok {
					return fmt.Errorf("unknown office version %q", officeVersion)
				}
				cfg.OfficeVersion = string(v)
			}

			content, err := config.Render(cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dest, content, 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&officeVersion, "office-version", "", "Default Office version for validate")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .ooxml-validator.yaml")

	return cmd
}
