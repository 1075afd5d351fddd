// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pdiddy/websearch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search service",
	Long: `Serve exposes web.search, web.news and web.scrape as POST actions, plus
service.health, service.capabilities and Prometheus metrics, until
interrupted.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if cfg.Server.APIKey == "" {
		log.Warn("API_KEY is not set; authentication is disabled")
	}

	srv := server.New(server.Options{
		Backend:   rt,
		Metrics:   rt.Metrics(),
		Providers: rt.Registry.Names(),
		Config:    cfg.Server,
		Log:       log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default from HOST)")
	serveCmd.Flags().String("port", "", "listen port (default from PORT)")

	rootCmd.AddCommand(serveCmd)
}
