package main

import (
	"context"
	"elles-app/config"
	"elles-app/digest"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	var (
		envFile string
		daemon  bool
		at      string
		dryRun  bool
		output  string
	)

	cmd := &cobra.Command{
		Use:           "mail-reporter",
		Short:         "Mail yesterday's inbox digest to the report recipient",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			log, err := config.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync()

			reporter := digest.NewReporter(cfg.Mail, log)

			if dryRun {
				return reporter.DryRun(cmd.OutOrStdout(), output)
			}

			if daemon {
				schedule, err := digest.ParseAt(at)
				if err != nil {
					return err
				}
				log.Info("scheduling daily run", zap.String("at", at))
				return reporter.Daemon(cmd.Context(), schedule)
			}

			if err := reporter.RunOnce(cmd.Context()); err != nil {
				log.Error("run failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", os.Getenv("ENV_FILE"), "Path to the .env file")
	cmd.Flags().BoolVar(&daemon, "daemon", false, "Run forever and send the report every day at --at")
	cmd.Flags().StringVar(&at, "at", "07:00", "Local time of day HH:MM used with --daemon")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render synthetic data without network access")
	cmd.Flags().StringVar(&output, "output", "", "HTML file written in --dry-run mode")
	return cmd
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
