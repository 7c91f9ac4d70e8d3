package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/floorplan-sandbox/internal/httpapi"
	"github.com/ironsheep/floorplan-sandbox/internal/server"
	"github.com/ironsheep/floorplan-sandbox/internal/store"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts the room analysis HTTP API.

Analyses are kept in memory as sessions so rooms can be edited and exported
as overlay images. At most FLOORPLAN_MAX_SESSIONS (default 1000) are kept;
the least recently updated session is dropped first.`,
		Example: `  # Listen on FLOORPLAN_ADDR (default :8888)
  floorplan-sandbox serve

  # Use a hosted segmentation model
  FLOORPLAN_SEGMENTER=remote FLOORPLAN_SEGMENT_URL=http://model:9000/segment floorplan-sandbox serve

  # Find wall-enclosed rooms locally, no model needed
  FLOORPLAN_SEGMENTER=regions floorplan-sandbox serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = rt.cfg.Addr
			}

			api := httpapi.New(rt.analyzer, store.NewWithLimit(rt.cfg.MaxSessions), rt.overlay, rt.logger)
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				rt.logger.Info("Floorplan API available", "addr", addr, "segmenter", rt.cfg.Segmenter)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				rt.logger.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					rt.logger.Error("Server shutdown failed", "error", err)
					return err
				}
				rt.logger.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides FLOORPLAN_ADDR)")

	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve room tools over MCP on stdin/stdout",
		Long: `Runs a Model Context Protocol server on stdin/stdout.

Configure it in an MCP client as a stdio server. Logs go to stderr since
stdout carries the protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			rt.logger.Debug("MCP server starting", "name", server.Name, "version", server.Version)
			srv := server.New(rt.analyzer, rt.overlay, rt.logger)
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
