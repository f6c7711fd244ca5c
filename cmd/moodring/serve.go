package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mattt/moodring/mcp"
	"github.com/mattt/moodring/tools"
	"github.com/mattt/moodring/tools/letters"
	"github.com/mattt/moodring/tools/sentiment"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tool server",
	Long: `serve runs the tool server. By default it listens for HTTP connections
and speaks JSON-RPC over SSE; with --stdio it processes line-delimited
JSON-RPC requests from stdin and writes responses to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := newLogger()

		registry := tools.NewRegistry()
		for _, tool := range []tools.Tool{sentiment.Tool(), letters.Tool()} {
			if err := registry.Register(tool); err != nil {
				return fmt.Errorf("error registering %s: %w", tool.Name, err)
			}
		}

		server, err := mcp.NewServer(
			mcp.WithRegistry(registry),
			mcp.WithServerInfo("moodring", version),
			mcp.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("error creating server: %w", err)
		}

		if stdio {
			transport := mcp.NewStdioTransport(server, os.Stdin, os.Stdout, os.Stderr)
			return transport.Run(ctx)
		}

		httpServer := &http.Server{
			Addr:    listen,
			Handler: mcp.NewSSEHandler(server, logger).Router(),
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("listening", "addr", listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return httpServer.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

var (
	stdio  bool
	listen string
)

func init() {
	serveCmd.Flags().BoolVar(&stdio, "stdio", false, "Serve JSON-RPC over stdin/stdout instead of HTTP")
	serveCmd.Flags().StringVar(&listen, "listen", ":8080", "HTTP listen address")
}
