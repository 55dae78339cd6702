package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fadilmartias/career-coach/internal/config"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/fadilmartias/career-coach/internal/scheduler"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "career-coach",
		Short: "AI career coach API: industry insights, interview quizzes and bookmarks",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				fmt.Fprintln(os.Stderr, "Could not load .env file")
			}
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the weekly insight refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "refresh-all",
		Short: "Regenerate insights for every stored industry once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return refreshAll(cmd.Context())
		},
	})
	return root
}

func newLogger() (*logger.Logger, error) {
	log, err := logger.New(config.LoadAppConfig().Env)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

func serve(ctx context.Context) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := wire(ctx, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	appConfig := config.LoadAppConfig()
	sched := scheduler.New(appConfig.InsightRefreshCron, deps.Insights, deps.Locker, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	app := newApp(deps, log)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "port", appConfig.Port)
		errCh <- app.Listen(appConfig.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func refreshAll(ctx context.Context) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	deps, err := wire(ctx, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	sched := scheduler.New(config.LoadAppConfig().InsightRefreshCron, deps.Insights, deps.Locker, log)
	return sched.RunOnce(ctx)
}
