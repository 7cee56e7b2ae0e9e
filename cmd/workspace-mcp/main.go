// ABOUTME: Entry point for the Workspace MCP server
// ABOUTME: Loads env config, wires the auth manager, serves MCP over stdio

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/workspace-mcp/pkg/auth"
	"github.com/harper/workspace-mcp/pkg/config"
	"github.com/harper/workspace-mcp/pkg/server"
)

func main() {
	// stdout carries the MCP transport; everything else goes to stderr
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	baseDir := os.Getenv("WORKSPACE_MCP_BASE_DIR")
	if err := config.LoadEnv(baseDir); err != nil {
		log.Fatalf("failed to load env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := auth.NewManager(auth.GetTokenPath())
	srv := server.New(manager)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		slog.Info("interrupt received, shutting down")
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
