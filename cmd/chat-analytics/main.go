// Package main provides the CLI entrypoint for chat-analytics.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kazin-kharizma/chat-analytics/internal/browser"
	"github.com/kazin-kharizma/chat-analytics/internal/cards"
	"github.com/kazin-kharizma/chat-analytics/internal/cardsui"
	"github.com/kazin-kharizma/chat-analytics/internal/catalog"
	"github.com/kazin-kharizma/chat-analytics/internal/config"
	"github.com/kazin-kharizma/chat-analytics/internal/logger"
	"github.com/kazin-kharizma/chat-analytics/internal/model"
	"github.com/kazin-kharizma/chat-analytics/internal/render"
	"github.com/kazin-kharizma/chat-analytics/internal/report"
	"github.com/kazin-kharizma/chat-analytics/internal/store"
)

const blockTimeout = 30 * time.Second

var (
	rootVerbose bool
	rootConfig  string
	rootDB      string

	importTitle string

	reportID   string
	maxItems   int
	useColor   bool
	allowRegex bool

	topOptions []int
	topFilter  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chat-analytics",
		Short:         "Browse the top-N cards of a chat analytics report",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.SetVerbose(rootVerbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "print diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "config file (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&rootDB, "db", "", "report database (default: XDG data dir)")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newReportsCmd())
	rootCmd.AddCommand(newCardsCmd())
	rootCmd.AddCommand(newTopCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addViewFlags(cmd *cobra.Command) {
	defaults := config.Defaults()
	cmd.Flags().StringVar(&reportID, "report", "", "report ID (default: newest)")
	cmd.Flags().IntVar(&maxItems, "max", defaults.MaxItems, "maximum entries per card")
	cmd.Flags().BoolVar(&useColor, "color", defaults.Color, "colour bars by card hue")
	cmd.Flags().BoolVar(&allowRegex, "regex", defaults.AllowRegex, "accept /pattern/flags filters")
}

// loadSettings merges defaults, the config file and explicitly set flags.
func loadSettings(cmd *cobra.Command) (model.Config, error) {
	path := rootConfig
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := fileCfg.Apply(config.Defaults())
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = rootDB
	}
	if flags.Changed("max") {
		cfg.MaxItems = maxItems
	}
	if flags.Changed("color") {
		cfg.Color = useColor
	}
	if flags.Changed("regex") {
		cfg.AllowRegex = allowRegex
	}
	if cfg.MaxItems <= 0 {
		return model.Config{}, fmt.Errorf("--max must be > 0")
	}
	logger.Debug("settings: max=%d regex=%t color=%t db=%s", cfg.MaxItems, cfg.AllowRegex, cfg.Color, cfg.DBPath)
	return cfg, nil
}

func openStore(cfg model.Config) (*store.Store, func(), error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a report export (YAML or JSON)",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importTitle, "title", "", "report title (default: title in file, then file name)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	exp, err := report.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	switch {
	case importTitle != "":
		exp.Title = importTitle
	case exp.Title == "":
		exp.Title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	logger.Section("import " + exp.Title)
	id, err := st.InsertReport(cmd.Context(), exp, time.Now())
	if err != nil {
		return fmt.Errorf("failed to import report: %w", err)
	}
	logErrf("Imported %q with %d blocks\n", exp.Title, len(exp.Values()))
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List imported reports",
		Args:  cobra.NoArgs,
		RunE:  runReportsCmd,
	}
}

func runReportsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reports, err := st.ListReports(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(reports) == 0 {
		logErrln("No reports found. Import one with: chat-analytics import FILE")
		return nil
	}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{r.ID, r.ImportedAt.Local().Format("2006-01-02 15:04"), strconv.Itoa(r.Blocks), r.Title})
	}
	if err := render.Table(cmd.OutOrStdout(), []string{"ID", "Imported", "Blocks", "Title"}, rows, 2); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List cards and their options",
		Args:  cobra.NoArgs,
		RunE:  runCardsCmd,
	}
}

func runCardsCmd(cmd *cobra.Command, _ []string) error {
	rows := make([][]string, 0, len(cards.Definitions))
	for _, def := range cards.Definitions {
		rows = append(rows, []string{def.ID, def.Title, describeAxes(def.Axes)})
	}
	if err := render.Table(cmd.OutOrStdout(), []string{"Card", "Title", "Options"}, rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// describeAxes renders axes as "-o 0 group: Author|Channel".
func describeAxes(axes []cards.Axis) string {
	parts := make([]string, 0, len(axes))
	for i, axis := range axes {
		parts = append(parts, fmt.Sprintf("-o %d %s: %s", i, axis.Name, strings.Join(axis.Choices, "|")))
	}
	return strings.Join(parts, "  ")
}

func newTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top CARD",
		Short: "Print the ranked entries of one card",
		Args:  cobra.ExactArgs(1),
		RunE:  runTopCmd,
	}
	addViewFlags(cmd)
	cmd.Flags().IntSliceVarP(&topOptions, "option", "o", nil, "option choice per axis, in order (see: chat-analytics cards)")
	cmd.Flags().StringVar(&topFilter, "filter", "", "filter text, or /pattern/flags")
	return cmd
}

func runTopCmd(cmd *cobra.Command, args []string) error {
	def, ok := cards.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown card %q (run: chat-analytics cards)", args[0])
	}
	if len(topOptions) > len(def.Axes) {
		logger.Warn("card %s takes at most %d options, ignoring the rest", def.ID, len(def.Axes))
	}
	opts := def.Resolve(cards.Options(topOptions))
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	id, cat, err := openReport(ctx, st, reportID)
	if err != nil {
		return err
	}

	blocks := report.NewBlocks()
	errCh := make(chan error, 1)
	go func() {
		value, err := st.LoadBlock(ctx, id, def.Block)
		if err != nil {
			errCh <- err
		}
		blocks.Set(def.Block, value)
	}()
	waitCtx, cancel := context.WithTimeout(ctx, blockTimeout)
	defer cancel()
	if _, err := blocks.Wait(waitCtx, def.Block); err != nil {
		return fmt.Errorf("failed to load %s: %w", def.Block, err)
	}
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to load %s: %w", def.Block, err)
	default:
	}

	env := cards.Env{Catalog: cat, MaxItems: cfg.MaxItems, AllowRegex: cfg.AllowRegex}
	card := def.Build(blocks, opts, env)
	if card.Loading() {
		logErrf("Report %s has no %s data\n", id, def.Block)
		return nil
	}
	b := card.Browser()
	if topFilter != "" {
		if !b.Searchable() {
			return fmt.Errorf("card %s does not accept a filter", def.ID)
		}
		filter := catalog.Normalize(topFilter)
		if logger.IsVerbose() {
			p := browser.ParsePattern(filter, cfg.AllowRegex)
			logger.Debug("filter %q is a regex: %t", p.Text(), p.Kind() == browser.Regex)
		}
		b.SetFilter(filter)
	}
	renderOpts := render.Options{Width: render.TerminalWidth(), Color: cfg.Color}
	if err := render.Card(cmd.OutOrStdout(), card, b.Result(), cat, renderOpts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// openReport resolves id (newest when empty) and loads its entity tables.
func openReport(ctx context.Context, st *store.Store, id string) (string, *catalog.Catalog, error) {
	resolved, err := st.ResolveReport(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) && id == "" {
			logErrln("No reports found. Import one with: chat-analytics import FILE")
		}
		return "", nil, fmt.Errorf("failed to open report: %w", err)
	}
	db, err := st.LoadDatabase(ctx, resolved)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load report entities: %w", err)
	}
	return resolved, catalog.New(db), nil
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the cards of a report interactively",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
	addViewFlags(cmd)
	return cmd
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	id, cat, err := openReport(ctx, st, reportID)
	if err != nil {
		return err
	}
	info, err := st.GetReport(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}

	env := cards.Env{Catalog: cat, MaxItems: cfg.MaxItems, AllowRegex: cfg.AllowRegex}
	ui := cardsui.NewModel(st, id, info.Title, env, cfg.Color)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run card browser: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := rootConfig
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	defaults := config.Defaults()
	return fmt.Sprintf(`# chat-analytics configuration
# Uncomment a value to enable it. CLI flags override config values.

[cards]
# max-items = %d          # Maximum entries per card
# allow-regex = %t      # Accept /pattern/flags filters

[storage]
# db = %q

[ui]
# color = %t            # Colour bars by card hue
`,
		defaults.MaxItems,
		defaults.AllowRegex,
		defaults.DBPath,
		defaults.Color,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
