package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"admitcast/internal/logging"
	"admitcast/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

// serveCmd runs the HTTP surface
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wizard over HTTP",
	Long: `Starts the HTTP API. Sessions are kept in memory and lost on restart.
Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, closeCache := buildDeps(ctx)
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	log := logging.Get(logging.CategoryServer)

	srv := server.New(addr, cfg.GetShutdownTimeout(), server.RouterConfig{
		Deps:         deps,
		AllowOrigins: cfg.Server.AllowOrigins,
		Logger:       log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return closeCache()
	})

	err := g.Wait()
	log.Infow("server stopped", "error", err)
	return err
}
