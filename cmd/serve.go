package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/budgetdash/internal/server"

	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard views as a JSON API with live websocket updates",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, "+server.DefaultAddr+")")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := cfg.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr = flagAddr
	}

	result, err := loadData()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := server.New(result.Dataset, server.Config{Addr: addr}, logger)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Serving on http://%s (Ctrl+C to stop)\n", addr)
		fmt.Fprintf(os.Stderr, "  Live updates: ws://%s/v1/live\n", addr)
	}
	return svc.Run(ctx)
}
