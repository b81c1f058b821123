package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-onboarding/internal/app"
	"github.com/yungbote/neurobridge-onboarding/internal/config"
	"github.com/yungbote/neurobridge-onboarding/internal/http/middleware"
	"github.com/yungbote/neurobridge-onboarding/internal/onboarding"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/shutdown"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
	"github.com/yungbote/neurobridge-onboarding/internal/usercache"
	"github.com/yungbote/neurobridge-onboarding/internal/walk"
)

var (
	red  = color.New(color.FgRed, color.Bold).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
)

func newWalkCmd() *cobra.Command {
	var (
		token  string
		userID string
		output string
	)
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Take the onboarding assessment from the terminal",
		Long: `Drives the onboarding flow against the configured profiling and user
profile services, prompting for each question.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Keep the terminal for prompts.
			log, err := logger.New("production")
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			if token == "" {
				token = os.Getenv("NB_TOKEN")
			}
			uid, err := resolveUser(cfg, log, token, userID)
			if err != nil {
				return err
			}

			ctx, stop := shutdown.NotifyContext(cmd.Context())
			defer stop()
			ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: uid, Token: token})

			clients, err := app.WireClients(log, cfg)
			if err != nil {
				return err
			}
			users, err := usercache.New(log, clients.UserProfile, 1, cfg.Flow.UserCacheTTL)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			notifier := realtime.NotifierFunc(func(_ context.Context, msg realtime.SSEMessage) error {
				fmt.Fprintln(cmd.ErrOrStderr(), cyan("event: "+string(msg.Event)))
				return nil
			})
			flow, err := onboarding.NewController(onboarding.Deps{
				Log:      log,
				Profiler: clients.Profiler,
				Profiles: clients.UserProfile,
				Notifier: notifier,
				Users:    users,
				Settings: onboarding.Settings{
					NotifySettleDelay: cfg.Flow.NotifySettleDelay,
					ExitSettleDelay:   cfg.Flow.ExitSettleDelay,
					SyncTimeout:       cfg.Flow.SyncTimeout,
					BlueprintTimeout:  cfg.Flow.BlueprintTimeout,
				},
			})
			if err != nil {
				return err
			}

			w := &walk.Walker{Flow: flow, Prompt: walk.TerminalPrompter{}, Out: out}
			report, err := w.Run(ctx, uid)
			if errors.Is(err, walk.ErrAborted) {
				fmt.Fprintln(out, "Bye.")
				return nil
			}
			if err != nil {
				return err
			}
			return report.Write(out, output)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token (default $NB_TOKEN)")
	cmd.Flags().StringVar(&userID, "user-id", "", "user id; derived from the token subject when empty")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "result format: text or yaml")
	return cmd
}

// resolveUser verifies the token when a secret is configured; otherwise it
// trusts --user-id or the unverified subject, since the collaborators
// authenticate the token themselves.
func resolveUser(cfg *config.Config, log *logger.Logger, token, userID string) (uuid.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, errors.New("a token is required (--token or NB_TOKEN)")
	}
	if cfg.Auth.JWTSecret != "" {
		return middleware.NewAuthMiddleware(log, cfg.Auth.JWTSecret).ParseToken(token)
	}
	if userID != "" {
		return uuid.Parse(userID)
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return uuid.Nil, fmt.Errorf("read token: %w", err)
	}
	return uuid.Parse(claims.Subject)
}
