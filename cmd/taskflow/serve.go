package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Start the TaskFlow HTTP API.

The server listens on server.host:server.port from the configuration
and shuts down gracefully on SIGINT or SIGTERM, draining in-flight
requests first.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.store, a.sched, a.track, a.reports, server.Options{
		Addr:        cfg.Server.Addr(),
		CORSOrigins: cfg.Server.CORSOrigins,
		Debug:       cfg.Server.Debug,
	}, log.Named("http"))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
