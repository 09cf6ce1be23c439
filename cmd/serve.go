package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	database "tamilvalam_backend/internals/databases"
	initiativeScheduler "tamilvalam_backend/internals/features/initiatives/scheduler"
	authScheduler "tamilvalam_backend/internals/features/users/auth/scheduler"
	"tamilvalam_backend/internals/helpers/cron"
	routes "tamilvalam_backend/internals/route"
	"tamilvalam_backend/internals/seeds"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		a, err := openApp(c)
		if err != nil {
			return err
		}
		defer a.Close()
		cfg, log := a.Config, a.Log

		if err := database.Migrate(a.DB, cfg.DB, log); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}
		if err := seeds.Run(c.Context(), a); err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		sched := cron.NewScheduler(log)
		if err := authScheduler.RegisterBlacklistCleanup(sched, a.Auth, log.Named("auth")); err != nil {
			return err
		}
		if cfg.Reconcile.Enabled {
			if err := initiativeScheduler.RegisterReconcile(sched, a.Images, cfg.Reconcile.Schedule, log.Named("reconcile")); err != nil {
				return fmt.Errorf("reconcile schedule %q: %w", cfg.Reconcile.Schedule, err)
			}
		}
		sched.Start()
		defer sched.Shutdown()

		server := routes.NewServer(a)

		lch := make(chan error, 1)
		go func() {
			log.Info("listening", zap.String("port", cfg.Port))
			lch <- server.Listen(":" + cfg.Port)
		}()

		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(done)

		select {
		case err := <-lch:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("server error: %w", err)
			}
		case <-done:
			log.Info("shutting down")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.ShutdownWithContext(ctx)
	},
}
