package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xarsh/ooxml-validator-go/internal/adapters/outbound/config"
	"github.com/xarsh/ooxml-validator-go/internal/domain"
	"github.com/xarsh/ooxml-validator-go/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
)

// state is loaded once per invocation before any subcommand runs.
type state struct {
	loader     domain.ConfigLoader
	configPath string
	logLevel   string
	logFormat  string

	cfg    domain.Config
	logger *zap.Logger
}

func (st *state) load(cmd *cobra.Command) error {
	var (
		cfg domain.Config
		err error
	)
	if st.configPath != "" {
		cfg, err = st.loader.LoadFile(st.configPath)
	} else {
		cfg, err = st.loader.Load(".")
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if st.logLevel != "" {
		cfg.Log.Level = st.logLevel
	}
	if st.logFormat != "" {
		cfg.Log.Format = st.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st.cfg = cfg
	st.logger = logger.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return nil
}

func newRootCmd() *cobra.Command {
	st := &state{loader: config.New()}

	cmd := &cobra.Command{
		Use:   "ooxml-validate",
		Short: "Validate OOXML documents (.docx, .pptx, .xlsx)",
		Long: "ooxml-validate checks Office Open XML packages against the schema and content model of a chosen Office version.\n" +
			"The checking is done by a native validator binary, downloaded per platform with `ooxml-validate install`\n" +
			"or supplied through " + domain.EnvValidatorCLI + ".",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&st.configPath, "config", "", "Path to a config file (default ./.ooxml-validator.yaml)")
	cmd.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&st.logFormat, "log-format", "", "Log format: console, json")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd(st))
	cmd.AddCommand(newInstallCmd(st))
	cmd.AddCommand(newLocateCmd(st))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(st))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI. Errors other than a nonconforming document are
// printed to stderr; use ExitCode to turn the result into a process status.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil && ExitCode(err) != ExitNonconformant {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}
