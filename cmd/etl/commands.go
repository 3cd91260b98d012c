package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"stock_etl/internal/app/di"
	"stock_etl/internal/config"
	"stock_etl/internal/feature/quotes/usecase"
	infraredis "stock_etl/internal/platform/redis"
)

// newRootCmd creates the etl command tree.
func newRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "etl",
		Short: "Fetch daily quotes and store them as Parquet, in S3 and in Postgres",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), debug))
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newLoadParquetCmd())

	return rootCmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [SYMBOL...]",
		Short: "Fetch, normalize and store every configured symbol",
		Long: `Fetch the daily series of each symbol in SYMBOL (or the arguments), in order.
A fetch or Parquet failure aborts the run; S3 and Postgres failures are logged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Symbols = config.ParseSymbols(strings.Join(args, ","))
			}
			if err := cfg.ValidateRun(); err != nil {
				return err
			}

			rdb := optionalRedis(ctx, cfg.Redis)
			if rdb != nil {
				defer closeRedis(rdb)
			}

			pipeline, err := di.NewPipeline(ctx, cfg, rdb)
			if err != nil {
				return err
			}
			report, err := pipeline.Run(ctx, cfg.Symbols)
			printRunReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

func newLoadParquetCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "load-parquet [FILE...]",
		Short: "Insert the rows of existing Parquet files into Postgres",
		Long: `Read the given Parquet files, or every *.parquet in the output directory,
and insert their rows into Postgres. A failed insert is logged and the next file is loaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.OutputDir = dir
			}
			if err := cfg.ValidateReload(); err != nil {
				return err
			}

			rdb := optionalRedis(ctx, cfg.Redis)
			if rdb != nil {
				defer closeRedis(rdb)
			}

			reload, store := di.NewReload(cfg, rdb)
			paths := args
			if len(paths) == 0 {
				if paths, err = store.List(); err != nil {
					return err
				}
			}
			reports, err := reload.Reload(ctx, paths)
			printFileReports(cmd.OutOrStdout(), reports)
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to scan instead of OUTPUT_DIR")

	return cmd
}

// optionalRedis returns nil when Redis is not configured or unreachable.
func optionalRedis(ctx context.Context, cfg infraredis.Config) *redisv9.Client {
	if !cfg.Enabled() {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable. Cached quotes will not be invalidated.")
		return nil
	}
	return rdb
}

func closeRedis(rdb *redisv9.Client) {
	if err := rdb.Close(); err != nil {
		slog.Error("failed to close Redis client", "error", err)
	}
}

func printRunReport(w io.Writer, r usecase.RunReport) {
	fmt.Fprintf(w, "run %s\n", r.RunID)
	for _, s := range r.Symbols {
		fmt.Fprintf(w, "  %-10s records=%-5d stage=%-18s archive=%s relational=%s\n",
			s.Symbol, s.Records, s.ReachedStage, outcome(s.Archive), outcome(s.Relational))
	}
}

func printFileReports(w io.Writer, reports []usecase.FileReport) {
	for _, f := range reports {
		fmt.Fprintf(w, "  %s records=%d relational=%s\n", f.Path, f.Records, outcome(f.Relational))
	}
}

func outcome(r usecase.StageResult) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Failed():
		return "failed"
	case r.Stage == "":
		return "-"
	default:
		return "ok"
	}
}
