package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/tabula/pkg/config"
	"github.com/macropower/tabula/pkg/log"
	"github.com/macropower/tabula/pkg/pagination"
	"github.com/macropower/tabula/pkg/ui/table"
)

const (
	cmdExamples = `  # Page through a YAML or JSON dataset:
  tabula ./people.yaml

  # Only show some rows:
  tabula ./people.yaml --where 'row.age >= 18'

  # Reload whenever the file changes:
  tabula ./people.yaml --watch

  # Read from stdin:
  curl -s https://example.com/people.json | tabula -

  # Page through a database table on the server:
  tabula --driver postgres --dsn "$DATABASE_URL" --table people

  # Start on page 3, 25 rows at a time:
  tabula ./people.yaml --page 3 --page-size 25

  # Send output to a file (disables TUI, prints one page):
  tabula ./people.yaml --page 2 > page.txt`
)

var ErrInvalidArgs = errors.New("invalid arguments")

type RunArgs struct {
	*RootArgs

	Path        string
	ConfigPath  string
	Driver      string
	DSN         string
	Table       string
	OrderBy     string
	Where       string
	PageSize    int
	Page        int
	Watch       bool
	WriteConfig bool
	ShowConfig  bool
	ShowSchema  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the tabula configuration file")
	cmd.Flags().StringVar(&ra.Driver, "driver", "", "SQL driver, one of: postgres, sqlite3")
	cmd.Flags().StringVar(&ra.DSN, "dsn", "", "SQL data source name")
	cmd.Flags().StringVar(&ra.Table, "table", "", "SQL table to read")
	cmd.Flags().StringVar(&ra.OrderBy, "order-by", "", "SQL column to sort pages by")
	cmd.Flags().StringVar(&ra.Where, "where", "", "CEL expression selecting the rows of a dataset file")
	cmd.Flags().IntVar(&ra.PageSize, "page-size", 0, "Rows per page; setting it always paginates")
	cmd.Flags().IntVar(&ra.Page, "page", 1, "Page to start on")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the dataset file and reload on change")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")
	cmd.Flags().BoolVar(&ra.ShowSchema, "show-schema", false, "Print the configuration JSON schema and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("driver",
		cobra.FixedCompletions([]string{"postgres", "sqlite3"}, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

// Validate reports flag combinations that cannot work together.
func (ra *RunArgs) Validate() error {
	var errs []error

	if ra.Driver != "" {
		if ra.Path != "" {
			errs = append(errs, errors.New("a dataset path cannot be combined with --driver"))
		}
		if ra.Table == "" {
			errs = append(errs, errors.New("--driver requires --table"))
		}
		if ra.Where != "" {
			errs = append(errs, errors.New("--where only applies to dataset files"))
		}
		if ra.Watch {
			errs = append(errs, errors.New("--watch only applies to dataset files"))
		}
	} else if ra.Path == "" {
		errs = append(errs, errors.New("a dataset path or --driver is required"))
	}

	if ra.Path == "-" && ra.Watch {
		errs = append(errs, errors.New("--watch cannot be used with stdin"))
	}

	if ra.PageSize < 0 {
		errs = append(errs, fmt.Errorf("--page-size must not be negative, got %d", ra.PageSize))
	}

	if ra.Page < 1 {
		errs = append(errs, fmt.Errorf("--page must be at least 1, got %d", ra.Page))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidArgs, errors.Join(errs...))
	}

	return nil
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run [path]",
		Short:             "Default command, can be used explicitly if the path is ambiguous",
		Example:           cmdExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: runCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ra.Path = args[0]
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runCompletion(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []cobra.Completion{"yaml", "yml", "json"}, cobra.ShellCompDirectiveFilterFileExt
	}

	return nil, cobra.ShellCompDirectiveNoFileComp
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	err := config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if ra.WriteConfig {
		// Exit early after writing the default config.
		// Also, if there was an error, it should be fatal.
		return err
	}

	if ra.ShowSchema {
		schemaJSON, err := config.Schema()
		if err != nil {
			return err //nolint:wrapcheck // Already wrapped.
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schemaJSON))
		if err != nil {
			return fmt.Errorf("write schema: %w", err)
		}

		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		return showConfig(cmd.OutOrStdout(), configPath, cfg)
	}

	err = ra.Validate()
	if err != nil {
		return err
	}

	applyFlags(cfg, ra)

	shutdown, err := setupTracing(ctx, ra.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer shutdown()

	ds, err := openDataset(ctx, cmd.InOrStdin(), ra)
	if err != nil {
		return err
	}
	defer closeDataset(ds)

	// If stdout is not a terminal, print a single page and exit.
	if !isTerminal(cmd.OutOrStdout()) {
		return printPage(ctx, cmd.OutOrStdout(), ds.source, cfg, ra.Page)
	}

	logBuf := log.NewCircularBuffer(log.DefaultBufferCapacity)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	err = runUI(ctx, cmd, cfg, ds, ra)

	flushLogs(cmd.ErrOrStderr(), logBuf)

	if err != nil {
		return fmt.Errorf("ui program failure: %w", err)
	}

	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cl, err := config.NewLoaderFromFile(path, config.WithThemeFromData())
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))

		return config.New(), nil
	}

	err = cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}

func showConfig(w io.Writer, path string, cfg *config.Config) error {
	slog.Info("active configuration", slog.String("path", path))

	yamlBytes, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if !isTerminal(w) {
		_, err = w.Write(yamlBytes)
		if err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		return nil
	}

	t, err := cfg.RegisterThemes()
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	err = quick.Highlight(w, string(yamlBytes), "yaml", "terminal256", t.Name)
	if err != nil {
		return fmt.Errorf("highlight config: %w", err)
	}

	return nil
}

// applyFlags folds the pagination flags into cfg.
func applyFlags(cfg *config.Config, ra *RunArgs) {
	if ra.PageSize == 0 {
		return
	}

	override := pagination.Override{}
	if cfg.Pagination != nil {
		override = *cfg.Pagination
	}

	size := ra.PageSize
	override.PageSize = &size
	cfg.Pagination = &override
}

// pageSize returns the configured page size, before any row is counted.
func pageSize(cfg *config.Config) int {
	if cfg.Pagination != nil && cfg.Pagination.PageSize != nil {
		return *cfg.Pagination.PageSize
	}

	return *cfg.FallbackPageSize
}

func runUI(ctx context.Context, cmd *cobra.Command, cfg *config.Config, ds *dataset, ra *RunArgs) error {
	t, err := cfg.RegisterThemes()
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	tc := table.Config{
		Source:             ds.source,
		Theme:              t,
		KeyBinds:           cfg.UI.KeyBinds.Table,
		NavigationKeyBinds: cfg.UI.KeyBinds.Navigation,
		Pagination:         cfg.Pagination,
		Reloads:            ds.reloads,
		Title:              ds.title,
		FallbackPageSize:   *cfg.FallbackPageSize,
	}

	if ra.Page > 1 {
		tc.InitialState = &pagination.State{
			PageIndex: ra.Page - 1,
			PageSize:  pageSize(cfg),
		}
	}

	m, err := table.New(ctx, tc)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	defer func() {
		err := m.Close()
		if err != nil {
			slog.Error("close table", slog.Any("err", err))
		}
	}()

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(cmd.OutOrStdout()),
	}

	// Stdin was consumed by the dataset, so read keys from the terminal.
	if ra.Path == "-" {
		opts = append(opts, tea.WithInputTTY())
	} else {
		opts = append(opts, tea.WithInput(cmd.InOrStdin()))
	}

	p := tea.NewProgram(m, opts...)

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Size()),
		slog.Int("max", buf.Capacity()),
		slog.Bool("truncated", buf.IsFull()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}
