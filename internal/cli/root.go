package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macropower/tabula/pkg/log"
	"github.com/macropower/tabula/pkg/version"
)

const (
	cmdName = "tabula"
	cmdDesc = `Page through tabular datasets in the terminal.`
)

// RootArgs holds the flags shared by every command.
type RootArgs struct {
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&ra.LogLevel, "log-level", "info",
		"Log level, one of: "+strings.Join(log.AllLevels, ", "))
	pf.StringVar(&ra.LogFormat, "log-format", "text",
		"Log format, one of: "+strings.Join(log.AllFormats, ", "))
	pf.StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "",
		"Export fetch traces to this OTLP gRPC endpoint")

	for flag, values := range map[string][]string{
		"log-level":  log.AllLevels,
		"log-format": log.AllFormats,
	} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			panic(err)
		}
	}
}

// NewRootCmd returns the tabula command. Running it without a subcommand is
// the same as "tabula run".
func NewRootCmd() *cobra.Command {
	rootArgs := NewRootArgs()
	runArgs := NewRunArgs(rootArgs)
	runCmd := NewRunCmd(runArgs)

	cmd := &cobra.Command{
		Use:               cmdName + " [path]",
		Short:             cmdDesc,
		Example:           cmdExamples,
		Version:           version.GetVersion(),
		PersistentPreRunE: setupLogging(rootArgs),
		ValidArgsFunction: runCompletion,
		Args:              runCmd.Args,
		RunE:              runCmd.RunE,
	}

	rootArgs.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(runCmd)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		h, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(h))

		return nil
	}
}
