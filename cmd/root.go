// Package cmd implements the CLI command structure for todocard.
package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todocard-go/internal/api"
	"github.com/nibzard/todocard-go/internal/config"
	"github.com/nibzard/todocard-go/internal/i18n"
	"github.com/nibzard/todocard-go/internal/list"
	"github.com/nibzard/todocard-go/internal/logging"
	"github.com/nibzard/todocard-go/internal/parallel"
	"github.com/nibzard/todocard-go/internal/todo"
	"github.com/nibzard/todocard-go/internal/ui"
	"github.com/nibzard/todocard-go/internal/utils"
)

// Version is set via ldflags at build time.
var Version = "dev"

// stdout and stderr are swapped out by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

const previewWidth = 60

// Run executes the todocard CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todocard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	loaded, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	cfg := loaded.Config
	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "show":
		return showCommand(ctx, cfg, remainingArgs)
	case "done":
		return doneCommand(ctx, cfg, remainingArgs)
	case "ls":
		return lsCommand(ctx, cfg, remainingArgs)
	case "logs":
		return logsCommand(cfg, remainingArgs)
	case "config":
		return configCommand(loaded, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session bundles the collaborators every backend command needs.
type session struct {
	client *api.Client
	tr     *i18n.Translator
	logger *log.Logger
}

func newSession(cfg *config.Config, logger *log.Logger) (*session, error) {
	client, err := api.New(api.Options{
		BaseURL:            cfg.APIBaseURL,
		Timeout:            cfg.RequestTimeout(),
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	tr, err := i18n.New(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("loading translations: %w", err)
	}
	return &session{client: client, tr: tr, logger: logger}, nil
}

func logOptions(cfg *config.Config) logging.Options {
	return logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	}
}

// consoleLogger is used by the one-shot commands, which do not own the
// terminal.
func consoleLogger(cfg *config.Config) *log.Logger {
	opts := logOptions(cfg)
	opts.Prefix = "todocard"
	return logging.NewLogger(stderr, opts)
}

// tuiCommand launches the card board.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todocard tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	deleted := fs.Bool("deleted", cfg.DeletedView, "Start in the deleted-items view")
	altScreen := fs.Bool("alt-screen", true, "Use the alternate screen buffer")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	runLog, err := logging.NewRunLogger(cfg.LogDir, cfg.APIBaseURL, logOptions(cfg))
	if err != nil {
		return fmt.Errorf("creating run log: %w", err)
	}
	defer runLog.Close()

	s, err := newSession(cfg, runLog.Logger)
	if err != nil {
		return err
	}
	s.logger.Info("starting tui", "backend", s.client.BaseURL(), "language", s.tr.Language(), "deleted", *deleted, "run", runLog.RunID)

	store := list.NewStore(s.client, todo.Params{IsDeleted: *deleted}, s.logger)
	board := ui.NewBoard(ctx, store, s.client, s.tr, s.logger)
	if err := ui.RunTUI(ctx, board, ui.WithAltScreen(*altScreen), ui.WithIO(os.Stdin, stdout)); err != nil {
		s.logger.Error("tui exited", "err", err)
		return err
	}
	s.logger.Info("tui closed", "selected", len(board.Selected()))
	return nil
}

// showCommand prints one item's detail.
func showCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todocard show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print the detail as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := singleID(fs.Args())
	if err != nil {
		return err
	}

	s, err := newSession(cfg, consoleLogger(cfg))
	if err != nil {
		return err
	}
	detail, err := s.client.GetDetail(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", id, err)
	}

	if *asJSON {
		return writeJSON(detail)
	}
	fmt.Fprintf(stdout, "%s %s\n", doneMarker(detail.IsCompleted), detail.Summary(0).DisplayTitle(s.tr.T(i18n.KeyNoTitle)))
	if !detail.LastModificationTime.IsZero() {
		fmt.Fprintf(stdout, "%s: %s\n", s.tr.T(i18n.KeyLastModified), detail.LastModificationTime.Local().Format("2006-01-02 15:04"))
	}
	if detail.Content != "" {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, detail.Content)
	}
	return nil
}

// doneCommand sets the completion flag of one or more items.
func doneCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todocard done", flag.ContinueOnError)
	fs.SetOutput(stderr)
	undo := fs.Bool("undo", false, "Mark the items as not completed")
	jobs := fs.Int("jobs", parallel.DefaultWorkers, "Concurrent requests")
	failFast := fs.Bool("fail-fast", false, "Skip the remaining items after the first failure")

	if err := fs.Parse(args); err != nil {
		return err
	}
	ids := utils.SplitAndTrim(strings.Join(fs.Args(), ","), ",")
	if len(ids) == 0 {
		return fmt.Errorf("missing item id")
	}

	s, err := newSession(cfg, consoleLogger(cfg))
	if err != nil {
		return err
	}
	completed := !*undo
	results := parallel.Each(ctx, ids, *jobs, *failFast, func(ctx context.Context, id string) error {
		return s.client.SetCompleted(ctx, id, completed)
	})

	for _, r := range results {
		if r.Err != nil {
			s.logger.Error("completion update failed", "id", r.ID, "err", r.Err)
			continue
		}
		s.logger.Debug("completion updated", "id", r.ID, "completed", completed, "took", r.Duration)
		fmt.Fprintf(stdout, "%s %s\n", doneMarker(completed), r.ID)
	}
	if first, ok := parallel.FirstError(results); ok {
		return fmt.Errorf("updating %s: %w", first.ID, first.Err)
	}
	return nil
}

// lsCommand lists the summaries of one view.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todocard ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	deleted := fs.Bool("deleted", cfg.DeletedView, "List deleted items")
	asJSON := fs.Bool("json", false, "Print the list as JSON")
	pending := fs.Bool("pending", false, "Only show items that are not completed")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	s, err := newSession(cfg, consoleLogger(cfg))
	if err != nil {
		return err
	}
	store := list.NewStore(s.client, todo.Params{IsDeleted: *deleted}, s.logger)
	if err := store.Refresh(ctx); err != nil {
		return err
	}

	items := store.Items()
	if *pending {
		filtered := items[:0]
		for _, item := range items {
			if !item.IsCompleted {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	if *asJSON {
		return writeJSON(items)
	}
	printSummaries(stdout, s.tr, items)
	return nil
}

// logsCommand prints the latest TUI run log.
func logsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todocard logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 50, "Number of lines to show (0 = all)")
	pathOnly := fs.Bool("path", false, "Only print the log file path")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}
	if *pathOnly {
		fmt.Fprintln(stdout, logPath)
		return nil
	}

	fmt.Fprintf(stdout, "Log: %s\n\n", logPath)
	return logging.TailLog(stdout, logPath, *n)
}

// configCommand prints the effective configuration with value sources.
func configCommand(loaded *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todocard config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	cfg := loaded.Config
	values := map[string]string{
		"api_base_url":         cfg.APIBaseURL,
		"request_timeout_ms":   fmt.Sprint(cfg.RequestTimeoutMS),
		"insecure_skip_verify": fmt.Sprint(cfg.InsecureSkipVerify),
		"language":             cfg.Language,
		"deleted_view":         fmt.Sprint(cfg.DeletedView),
		"log_dir":              cfg.LogDir,
		"log_level":            cfg.LogLevel,
		"log_format":           cfg.LogFormat,
		"log_timestamps":       fmt.Sprint(cfg.LogTimestamps),
		"log_caller":           fmt.Sprint(cfg.LogCaller),
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, path := range loaded.Files {
		fmt.Fprintf(stdout, "# file: %s\n", path)
	}
	for _, k := range keys {
		source := loaded.Sources[k]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Fprintf(stdout, "%-22s = %-40q # %s\n", k, values[k], source)
	}
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todocard version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todocard - to-do cards for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todocard [global flags] [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui           Open the card board (default)")
	fmt.Fprintln(w, "  show <id>     Print one item")
	fmt.Fprintln(w, "  done <id>...  Mark items completed (--undo to reopen, --fail-fast)")
	fmt.Fprintln(w, "  ls            List items (--deleted, --pending, --json)")
	fmt.Fprintln(w, "  logs          Print the latest board log")
	fmt.Fprintln(w, "  config        Print the effective configuration")
	fmt.Fprintln(w, "  version       Print version")
	fmt.Fprintln(w, "  help          Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func singleID(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing item id")
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	id := strings.TrimSpace(args[0])
	if id == "" {
		return "", fmt.Errorf("missing item id")
	}
	return id, nil
}

func doneMarker(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func printSummaries(w io.Writer, tr *i18n.Translator, items []todo.Summary) {
	if len(items) == 0 {
		fmt.Fprintln(w, tr.T(i18n.KeyEmptyList))
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "%s %s  %s\n", doneMarker(item.IsCompleted), item.ID, item.DisplayTitle(tr.T(i18n.KeyNoTitle)))
		if item.Preview != "" {
			fmt.Fprintf(w, "      %s\n", utils.Truncate(item.Preview+"...", previewWidth))
		}
	}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
