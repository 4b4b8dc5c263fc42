package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars lets every flag of cmd be set with a TABULA_ variable named
// after it, so --page-size reads TABULA_PAGE_SIZE. Command line arguments
// win over the environment, which wins over defaults. The variable is added
// to each flag's usage.
func bindEnvVars(cmd *cobra.Command) {
	cmd.Flags().VisitAll(bindEnv)
	cmd.PersistentFlags().VisitAll(bindEnv)
}

func bindEnv(f *pflag.Flag) {
	name := envName(f.Name)

	hint := "($" + name + ")"
	if !strings.HasSuffix(f.Usage, hint) {
		f.Usage = fmt.Sprintf("%s %s", f.Usage, hint)
	}

	if f.Changed {
		return
	}

	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}

	err := f.Value.Set(v)
	if err != nil {
		// The default stays in place.
		slog.Warn("ignore environment variable",
			slog.String("env", name),
			slog.String("value", v),
			slog.Any("err", err),
		)
	}
}

// envName returns the variable for a flag, e.g. "log-level" becomes
// "TABULA_LOG_LEVEL".
func envName(flag string) string {
	return strings.ToUpper(cmdName + "_" + strings.ReplaceAll(flag, "-", "_"))
}
