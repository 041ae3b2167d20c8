package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stockhop/cli/internal/config"
	"github.com/stockhop/cli/internal/exchange"
	"github.com/stockhop/cli/internal/history"
	"github.com/stockhop/cli/internal/lookup"
	"github.com/stockhop/cli/internal/storage"
	"github.com/stockhop/cli/internal/tabs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// skipAppAnnotation marks commands that run without storage or an opener.
const skipAppAnnotation = "stockhop/skip-app"

var rootCmd = &cobra.Command{
	Use:   "stockhop [code]",
	Short: "Open research sites for a Taiwan stock code",
	Long: `Open research sites for a Taiwan stock code.

Given a 4-6 digit code, stockhop opens a fixed set of research pages
(ifa.ai, cnyes, goodinfo, statementdog, histock, findbillion, cmoney,
growin, fugle) plus the TradingView technicals page for the exchange the
code is listed on (TWSE or TPEx). The last five codes are kept in history.

Run without arguments for an interactive prompt.

Examples:
  stockhop 2330
  stockhop open 6488 --dry-run
  stockhop history
  stockhop history clear --yes`,
	Args:               cobra.MaximumNArgs(1),
	SilenceUsage:       true,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
	RunE:               runRoot,
}

var overrides struct {
	storage  storage.Kind
	dataDir  string
	opener   tabs.Kind
	cdpURL   string
	logLevel string
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Var(newEnumFlag(&overrides.storage, storage.Kinds), "storage", "History storage backend (file, sqlite, memory)")
	pf.StringVar(&overrides.dataDir, "data-dir", "", "Directory history is stored in")
	pf.Var(newEnumFlag(&overrides.opener, tabs.Kinds), "opener", "How tabs are opened (system, cdp, dry-run)")
	pf.StringVar(&overrides.cdpURL, "cdp-url", "", "DevTools HTTP endpoint used by --opener cdp")
	pf.Var(newEnumFlag(&overrides.logLevel, config.LogLevels), "log-level", "Log level (debug, info, warn, error, disabled)")

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(urlsCmd)
	rootCmd.AddCommand(exchangeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return fang.Execute(ctx, rootCmd, fang.WithVersion(version))
}

// App holds the dependencies shared by every command invocation.
type App struct {
	Config     *config.Config
	Classifier *exchange.Classifier
	Backend    storage.Backend
	Opener     tabs.Opener
	Lookup     *lookup.Service
	Logger     *pterm.Logger

	logFile io.Closer
}

type appKey struct{}

func getApp(cmd *cobra.Command) *App {
	app, _ := cmd.Context().Value(appKey{}).(*App)
	return app
}

func setupApp(cmd *cobra.Command, args []string) error {
	if skipsApp(cmd) {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logFile, err := setupLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger setup failed: %w", err)
	}

	classifier, err := exchange.Default()
	if err != nil {
		return err
	}

	backend, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		// History is not essential to opening tabs; degrade to memory.
		logger.Error("storage unavailable, history will not persist", logger.Args("backend", cfg.Storage, "error", err))
		pterm.Warning.Printf("History storage unavailable: %v\n", err)
		backend = storage.NewMemoryBackend()
	}

	var dryRunOut io.Writer = os.Stdout
	if output, err := cmd.Flags().GetString("output"); err == nil && output == "json" {
		dryRunOut = nil
	}
	opener, err := tabs.New(cfg.Opener, cfg.CDPURL, dryRunOut)
	if err != nil {
		_ = backend.Close()
		return err
	}

	logger.Debug("config loaded", logger.Args(
		"storage", cfg.Storage,
		"data_dir", cfg.DataDir,
		"opener", cfg.Opener,
		"cdp_url", cfg.CDPURL,
		"log_file", cfg.LogFile,
	))

	app := &App{
		Config:     cfg,
		Classifier: classifier,
		Backend:    backend,
		Opener:     opener,
		Lookup:     lookup.New(classifier, history.NewStore(backend), opener, logger),
		Logger:     logger,
		logFile:    logFile,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
	return nil
}

// skipsApp reports whether cmd or one of its parents runs without the
// App. Cobra's generated completion and help commands do.
func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipAppAnnotation] == "true" {
			return true
		}
		switch c.Name() {
		case "completion", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func teardownApp(cmd *cobra.Command, args []string) error {
	app := getApp(cmd)
	if app == nil {
		return nil
	}
	if err := app.Opener.Close(); err != nil {
		app.Logger.Warn("closing opener failed", app.Logger.Args("error", err))
	}
	if err := app.Backend.Close(); err != nil {
		app.Logger.Warn("closing storage failed", app.Logger.Args("error", err))
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
	return nil
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage = overrides.storage
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = overrides.dataDir
	}
	if flags.Changed("opener") {
		cfg.Opener = overrides.opener
	}
	if flags.Changed("cdp-url") {
		cfg.CDPURL = overrides.cdpURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = overrides.logLevel
	}
	if dry, err := flags.GetBool("dry-run"); err == nil && dry {
		cfg.Opener = tabs.KindDryRun
	}
}

// setupLogger configures pterm's default logger. Log lines go to stderr
// and, when a log file is configured, to a rotating file as well.
func setupLogger(cfg *config.Config) (*pterm.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, lj)
		closer = lj
	}

	logger := pterm.DefaultLogger.WithLevel(cfg.PtermLevel()).WithWriter(w)
	pterm.DefaultLogger = *logger
	return logger, closer, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	app := getApp(cmd)
	if len(args) == 1 {
		l := LookupCmd{svc: app.Lookup}
		return l.Open(cmd.Context(), OpenInput{Code: args[0]})
	}
	p := PopupCmd{svc: app.Lookup, prompt: ptermPrompter{}}
	return p.Run(cmd.Context())
}
