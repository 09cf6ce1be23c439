package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tamilvalam_backend/internals/app"
	"tamilvalam_backend/internals/configs"
	"tamilvalam_backend/internals/helpers/logger"
)

type ctxKey struct{}

var rootCmd = &cobra.Command{
	Use:          "tamilvalam",
	Short:        "Tamil Valam initiatives backend",
	SilenceUsage: true,
	PersistentPreRunE: func(c *cobra.Command, _ []string) error {
		configs.LoadEnv()
		cfg, err := configs.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err := logger.New(cfg.Log.Level, cfg.Log.Development || cfg.IsDevelopment())
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		c.SetContext(context.WithValue(c.Context(), ctxKey{}, &cliEnv{cfg: cfg, log: log}))
		return nil
	},
	// serve is the default command
	RunE: func(c *cobra.Command, args []string) error {
		return serveCmd.RunE(c, args)
	},
}

type cliEnv struct {
	cfg *configs.Config
	log *zap.Logger
}

func fromContext(c *cobra.Command) *cliEnv {
	rt, _ := c.Context().Value(ctxKey{}).(*cliEnv)
	return rt
}

// openApp connects the database and builds the service container.
func openApp(c *cobra.Command) (*app.App, error) {
	rt := fromContext(c)
	return app.New(rt.cfg, rt.log)
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, recomputeCmd, reindexCmd, seedCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
