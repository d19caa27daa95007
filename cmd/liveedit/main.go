package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"liveedit/cmd/liveedit/ui"
	"liveedit/internal/authority"
	"liveedit/internal/config"
	"liveedit/internal/logging"
	"liveedit/internal/store"
)

var (
	cfgPath string
	admin   bool
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "liveedit",
	Short: "In-page editing toolkit demo",
	Long: `liveedit runs a demo storefront page wired to the in-page editing
toolkit: editable text regions with commit-on-blur, click-to-replace
images with drag resize, and a resizable promo box. Edit and resize
mode are gated on the admin flag; all edits persist to the local
key-value store and land in the activity log.

Keys: e toggles edit mode, r toggles resize mode, l shows the activity
log, Esc cancels, q quits. Mouse: click the headline to edit, click
the image to replace it, drag its bottom-right corner to resize, drag
any promo-box corner to resize it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logFile := cfg.Log.File
		if logFile == "" && !cmd.HasParent() {
			// Stderr would bleed into the alt-screen TUI.
			logFile = "data/liveedit.log"
		}
		logger, err = logging.New(level, cfg.Log.Format, logFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPage,
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the activity log",
	RunE:  showLog,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE:  showConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "liveedit.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&admin, "admin", false, "Run with admin privileges (enables edit/resize modes)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// staticIdentity is the demo's identity provider: admin comes from the
// command line and never changes while the process runs.
type staticIdentity bool

func (s staticIdentity) IsAdmin() bool { return bool(s) }

// envPicker stands in for a file dialog in the terminal: it reads the
// upload from the path in LIVEEDIT_UPLOAD, and cancels when unset.
type envPicker struct{}

func (envPicker) Pick() (string, []byte, bool, error) {
	path := os.Getenv("LIVEEDIT_UPLOAD")
	if path == "" {
		return "", nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, false, err
	}
	return path, data, true, nil
}

func runPage(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeKV := openStore()
	defer closeKV()

	activity, err := logging.OpenActivityLog(cfg.Log.ActivityFile, logger)
	if err != nil {
		logger.Warn("activity log unavailable", zap.Error(err))
		activity = nil
	} else {
		defer activity.Close()
	}

	auth := authority.New(staticIdentity(admin), kv, activity, logger)
	auth.Restore()

	page := ui.NewPage(ui.PageConfig{
		Authority: auth,
		Content:   store.NewContentStore(kv, logger),
		Geometry:  store.NewGeometryStore(kv, logger),
		Activity:  activity,
		Clamp:     cfg.Resize.Clamp(),
		Picker:    envPicker{},
		Prompter:  nil,
		Log:       logger,
		Styles:    ui.NewStyles(cfg.UI.Theme),
	})

	prog := tea.NewProgram(page, tea.WithAltScreen(), tea.WithMouseAllMotion())

	watcher, err := config.NewWatcher(cfgPath, func(next *config.Config) {
		logger.Info("config reloaded", zap.String("path", cfgPath))
		prog.Send(ui.ConfigReloadedMsg{Theme: next.UI.Theme})
	}, logger)
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
		watcher = nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if watcher != nil {
		if err := watcher.Start(gctx); err != nil {
			logger.Warn("config watcher failed to start", zap.Error(err))
		}
		defer watcher.Stop()
	}

	g.Go(func() error {
		defer stop()
		_, err := prog.Run()
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		prog.Quit()
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}

// openStore opens the sqlite key-value store, falling back to an
// in-memory store when the file cannot be opened.
func openStore() (store.KV, func()) {
	kv, err := store.NewSQLiteKV(cfg.Storage.Path)
	if err != nil {
		logger.Warn("sqlite store unavailable, edits will not survive restart",
			zap.String("path", cfg.Storage.Path), zap.Error(err))
		return store.NewMemKV(), func() {}
	}
	return kv, func() { _ = kv.Close() }
}

func showLog(cmd *cobra.Command, args []string) error {
	activity, err := logging.OpenActivityLog(cfg.Log.ActivityFile, logger)
	if err != nil {
		return fmt.Errorf("cannot open activity log: %w", err)
	}
	defer activity.Close()

	entries, err := activity.Entries()
	if err != nil {
		return fmt.Errorf("cannot read activity log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No activity recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-24s %-32s %s\n",
			e.UpdatedAt.Format("2006-01-02 15:04:05"),
			e.ComponentName, e.FilePath, e.Text)
	}
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot render config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
