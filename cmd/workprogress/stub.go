package main

import (
	"github.com/spf13/cobra"

	"github.com/meetingscribe/workprogress/internal/config"
	"github.com/meetingscribe/workprogress/internal/logging"
	"github.com/meetingscribe/workprogress/internal/stubserver"
)

var (
	stubHost string
	stubPort int
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a local stand-in for the API server",
	Long: `Serve the work-progress and AI routes locally with in-memory state
and deterministic AI responses. Useful for development when the real backend
is not running; point api.url at it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}

		srv, err := stubserver.NewServer(logger, &stubserver.Config{Host: stubHost, Port: stubPort})
		if err != nil {
			return err
		}
		return srv.Start()
	},
}

func init() {
	stubCmd.Flags().StringVar(&stubHost, "host", "localhost", "listen host")
	stubCmd.Flags().IntVar(&stubPort, "port", 5000, "listen port")
}
