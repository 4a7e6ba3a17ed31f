// Package main implements the workprogress CLI: work sessions, tasks,
// reports and AI questions from the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/aigateway"
	"github.com/meetingscribe/workprogress/internal/auth"
	"github.com/meetingscribe/workprogress/internal/config"
	"github.com/meetingscribe/workprogress/internal/logging"
	"github.com/meetingscribe/workprogress/internal/postgrest"
	"github.com/meetingscribe/workprogress/internal/workprogress"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "workprogress",
	Short: "CLI for the MeetingScribe work and progress tracker",
	Long: `workprogress tracks work sessions, tasks, accomplishments and status
reports against the MeetingScribe backend, and answers questions about your
work history through the AI routes.

Credentials come from the environment: set WORKPROGRESS_EMAIL and
WORKPROGRESS_PASSWORD to sign in, or WORKPROGRESS_ACCESS_TOKEN together with
WORKPROGRESS_USER_ID to use an existing token.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/workprogress/config.yaml)")
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(stubCmd)
}

// app bundles everything a command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	source  auth.Source
	service *workprogress.Service
	gateway *aigateway.Client
}

// setup loads config, builds the logger and wires the clients. The auth
// source resolves from the environment; commands that need a signed-in
// identity fail later with an auth error rather than here.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	source, err := resolveSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := postgrest.NewClient(cfg.Store, source, logger.Named("store"))
	if err != nil {
		return nil, err
	}

	var api *workprogress.APIClient
	var gateway *aigateway.Client
	if cfg.API.URL != "" {
		if api, err = workprogress.NewAPIClient(cfg.API, source, logger.Named("api")); err != nil {
			return nil, err
		}
		if gateway, err = aigateway.NewClient(cfg.API, source, logger.Named("ai")); err != nil {
			return nil, err
		}
	}

	service, err := workprogress.NewService(store, api, source, cfg.Cache, logger.Named("workprogress"))
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, source: source, service: service, gateway: gateway}, nil
}

// resolveSource picks the identity source from the environment. Token pair
// first, then a password sign-in, then anonymous.
func resolveSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (auth.Source, error) {
	if token := os.Getenv("WORKPROGRESS_ACCESS_TOKEN"); token != "" {
		userID := os.Getenv("WORKPROGRESS_USER_ID")
		if userID == "" {
			return nil, fmt.Errorf("WORKPROGRESS_ACCESS_TOKEN requires WORKPROGRESS_USER_ID")
		}
		return auth.NewStaticSource(userID, os.Getenv("WORKPROGRESS_EMAIL"), token), nil
	}

	email := os.Getenv("WORKPROGRESS_EMAIL")
	password := os.Getenv("WORKPROGRESS_PASSWORD")
	if email != "" && password != "" {
		client, err := auth.NewClient(cfg.Store, logger.Named("auth"))
		if err != nil {
			return nil, err
		}
		if _, err := client.SignIn(ctx, email, password); err != nil {
			return nil, err
		}
		return client, nil
	}

	return auth.Anonymous{}, nil
}
