package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flowbrowser/flowbar/internal/app"
	"github.com/flowbrowser/flowbar/internal/config"
	"github.com/flowbrowser/flowbar/internal/infrastructure/sqlite"
	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/reorder"
	"github.com/flowbrowser/flowbar/internal/tabs/application"
	"github.com/flowbrowser/flowbar/internal/tracing"
	"github.com/flowbrowser/flowbar/internal/watcher"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin, so the
	// OSC 11 reply cannot leak into the input loop.
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".flowbar/config.yaml"

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "flowbar",
	Short:   "A vertical tab sidebar for the terminal",
	Long:    `A terminal sidebar for browser tabs: pinned tabs and tab groups per space, reordered by dragging with the mouse or the keyboard.`,
	Version: version,
	RunE:    runApp,
	// Usage is noise for runtime errors.
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/flowbar/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "path to the tabs database")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write a debug log to flowbar-debug.log (also FLOWBAR_DEBUG=1)")
	rootCmd.Flags().String("profile", "", "only show spaces of this profile")
	rootCmd.Flags().String("space", "", "space to open")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable refreshing when the database changes")

	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("profile", rootCmd.Flags().Lookup("profile"))
	_ = viper.BindPFlag("space", rootCmd.Flags().Lookup("space"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .flowbar/config.yaml (current directory)
		// 2. ~/.config/flowbar/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			viper.AddConfigPath(userConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			defaultPath := filepath.Join(userConfigDir(), "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// Without a config file the defaults still apply.
		}
	}

	_ = viper.Unmarshal(&cfg)
	if cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
}

func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("auto_refresh", d.AutoRefresh)
	v.SetDefault("auto_refresh_debounce", d.AutoRefreshDebounce)
	v.SetDefault("ui.show_modes", d.UI.ShowModes)
	v.SetDefault("ui.show_counts", d.UI.ShowCounts)
	v.SetDefault("ui.title_width", d.UI.TitleWidth)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("sleep.navigate_delay", d.Sleep.NavigateDelay)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flowbar"
	}
	return filepath.Join(home, ".config", "flowbar")
}

// configPath is where SaveLastSpace writes.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(userConfigDir(), "config.yaml")
}

// setupLogging installs the file logger when --debug or FLOWBAR_DEBUG asks
// for it. The returned func closes the log.
func setupLogging(tui bool) (func(), error) {
	if !debug && !log.EnabledByEnv() {
		return func() {}, nil
	}
	if tui {
		return log.InitWithTeaLog("flowbar-debug.log", "flowbar")
	}
	return log.Init("flowbar-debug.log")
}

// backend is everything a command needs to talk to the tabs database.
type backend struct {
	db       *sqlite.DB
	service  *application.Service
	dropper  *reorder.Dropper
	shutdown func()
}

func openBackend(c config.Config) (*backend, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	provider, err := tracing.NewProvider(c.Tracing.Provider())
	if err != nil {
		return nil, fmt.Errorf("starting tracing: %w", err)
	}

	db, err := sqlite.NewDB(c.DBPath)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, fmt.Errorf("opening tabs database: %w", err)
	}

	svc := application.NewService(db.TabRepository(),
		application.WithCache(c.Cache.Enabled, c.Cache.TTL),
		application.WithSleepDelay(c.Sleep.NavigateDelay),
		application.WithTracer(provider.Tracer()),
	)

	rt := &backend{
		db:      db,
		service: svc,
		dropper: reorder.NewDropper(svc, reorder.WithTracer(provider.Tracer())),
	}
	rt.shutdown = func() {
		svc.Close()
		if err := db.Close(); err != nil {
			log.ErrorErr(log.CatDB, "close database", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "shutdown tracing", err)
		}
	}
	return rt, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(true)
	if err != nil {
		return err
	}
	defer closeLog()

	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	rt, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer rt.shutdown()

	var changes <-chan struct{}
	if cfg.AutoRefresh {
		w, err := watcher.New(watcher.Config{DBPath: rt.db.Path(), DebounceDur: cfg.AutoRefreshDebounce})
		if err == nil {
			changes, err = w.Start()
			if err != nil {
				log.ErrorErr(log.CatWatcher, "start watcher", err)
			}
			defer func() { _ = w.Stop() }()
		} else {
			// The sidebar still works without auto-refresh.
			log.ErrorErr(log.CatWatcher, "create watcher", err)
		}
	}

	zone.NewGlobal()

	model := app.New(rt.service, app.Options{
		Config:     cfg,
		ConfigPath: configPath(),
		Dropper:    rt.dropper,
		Changes:    changes,
		Debug:      debug || log.EnabledByEnv(),
	})
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
