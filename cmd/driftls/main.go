package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/spf13/cobra"

	"github.com/driftlint/driftls/pkg/config"
	"github.com/driftlint/driftls/pkg/lsp"
	"github.com/driftlint/driftls/pkg/settings"
	"github.com/driftlint/driftls/pkg/workspace"
)

// Config holds the application configuration
type Config struct {
	Debug      bool
	LogFile    string
	ConfigFile string
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "driftls",
		Short: "Driftlint language server",
		Long: `Driftls is the language server for the Driftlint analyzer.
It speaks the Language Server Protocol over stdio and tracks the
workspace folders the editor has open.`,
		Example: `  # Start the server (editors launch it like this)
  driftls

  # Start with debug logging to a file
  driftls --debug --log-file /tmp/driftls.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&cfg.LogFile, "log-file", "", "Path to log file (stderr if not specified)")
	rootCmd.Flags().StringVar(&cfg.ConfigFile, "config", "", "Path to driftls.toml (discovered by walking up from the working directory if not specified)")

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func runServe(ctx context.Context, cfg Config) error {
	// The protocol owns stdout, so logs go to stderr or a file.
	var logDest io.Writer
	if cfg.LogFile != "" {
		logFile, err := os.Create(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close() //nolint:errcheck
		logDest = logFile
	} else {
		logDest = os.Stderr
	}

	fileCfg, err := loadConfig(cfg)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if fileCfg != nil {
		level = parseLevel(fileCfg.LogLevel, level)
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(logDest, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	var defaults workspace.FolderSettings
	if fileCfg != nil {
		defaults = fileCfg.FolderDefaults()
	}

	logger.InfoContext(ctx, "starting LSP server")

	settingsMgr := settings.NewManager(defaults)
	manager := workspace.NewManager(settingsMgr)
	handler := lsp.NewHandler(manager, settingsMgr)

	srv := jrpc2.NewServer(handler, &jrpc2.ServerOptions{
		AllowPush: true,
		Logger:    func(text string) { logger.Debug(text) },
	})

	// The handler needs the server reference for pushes and callbacks.
	handler.SetServer(srv)

	srv.Start(channel.LSP(stdrwc{}, stdrwc{}))

	logger.InfoContext(ctx, "LSP server closed", "error", srv.Wait())
	return nil
}

func loadConfig(cfg Config) (*config.ServerConfig, error) {
	if cfg.ConfigFile != "" {
		fileCfg, err := config.Load(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		return fileCfg, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	_, fileCfg, err := config.Find(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading driftls.toml: %w", err)
	}
	return fileCfg, nil
}

func parseLevel(name string, fallback slog.Level) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "":
		return fallback
	default:
		fmt.Fprintf(os.Stderr, "warning: unknown log level %q, using default\n", name)
		return fallback
	}
}

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
