package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show ooxml-validate version",
		// version needs no config
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ooxml-validate %s (%s), validator release %s\n", version, commit, domain.DefaultVersion)
			return nil
		},
	}
}
