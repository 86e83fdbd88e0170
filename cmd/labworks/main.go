package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"labworks/internal/config"
	"labworks/internal/logger"
	"labworks/internal/shell"
	"labworks/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "labworks <file>",
		Short: "Interactive shell managing a collection of lab works",
		Long: `labworks loads lab works from the given file, then reads commands from
standard input until 'exit'. Type 'help' inside the shell for the command list.
Changes are written back only by the 'save' command.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoad(configPath)

			log := logger.SetupLogger(cfg.Env, errOut)
			slog.SetDefault(log)
			slog.Debug("config loaded",
				"env", cfg.Env,
				"history_size", cfg.Shell.HistorySize,
				"max_script_depth", cfg.Shell.MaxScriptDepth,
			)

			return run(cmd.Context(), cfg, args[0], in, out)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the yaml config (default $CONFIG_PATH or ./config/local.yaml)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, path string, in io.Reader, out io.Writer) error {
	mirrors := openMirrors(ctx, cfg)
	store := storage.NewStore(path, mirrors...)
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close mirrors", "err", err)
		}
	}()

	if err := store.Load(); err != nil {
		slog.Error("failed to load lab works, starting with an empty collection", "file", path, "err", err)
	}
	slog.Info("lab works ready", "file", path, "count", store.Len())

	sess := shell.New(store, shell.NewReaderSource("stdin", in, true), out, shell.Options{
		Prompt:         cfg.Shell.Prompt,
		HistorySize:    cfg.Shell.HistorySize,
		MaxScriptDepth: cfg.Shell.MaxScriptDepth,
		EnforceXBound:  !cfg.Shell.RelaxXBound,
	})
	if err := sess.Run(ctx); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	return nil
}

// openMirrors connects the configured snapshot mirrors. A mirror that cannot be opened
// is logged and left out.
func openMirrors(ctx context.Context, cfg *config.Config) []storage.Mirror {
	var mirrors []storage.Mirror

	if cfg.StorageDB.DSN != "" {
		pool, err := storage.NewStorage(ctx, cfg.StorageDB.DSN)
		if err != nil {
			slog.Error("failed to connect to storage db", "error", err)
		} else if m, err := storage.NewPostgresMirror(ctx, pool); err != nil {
			pool.Close()
			slog.Error("failed to prepare postgres mirror", "error", err)
		} else {
			mirrors = append(mirrors, m)
		}
	}

	if cfg.SQLite.Path != "" {
		m, err := storage.NewSQLiteMirror(ctx, cfg.SQLite.Path)
		if err != nil {
			slog.Error("failed to open sqlite mirror", "path", cfg.SQLite.Path, "error", err)
		} else {
			mirrors = append(mirrors, m)
		}
	}
	return mirrors
}
