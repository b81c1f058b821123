package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-onboarding/internal/app"
	"github.com/yungbote/neurobridge-onboarding/internal/config"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/shutdown"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the onboarding HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Env)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			ctx, stop := shutdown.NotifyContext(cmd.Context())
			defer stop()

			a, err := app.New(ctx, log, cfg)
			if err != nil {
				log.Error("Failed to init app", "error", err)
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				a.Close(closeCtx)
			}()

			if err := a.Run(ctx); err != nil {
				log.Error("Server exited", "error", err)
				return err
			}
			return nil
		},
	}
}
