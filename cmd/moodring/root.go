package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moodring",
	Short: "Tool server, relay, and agent for the sentiment toolkit",
	Long: `moodring bundles the three sides of a tool-invocation exchange:

  serve   run the tool server (stdio or HTTP with SSE)
  relay   bridge local stdio to a remote SSE server
  agent   chat with a model that can invoke the served tools
  tools   list the tools a remote server publishes`,
	SilenceUsage: true,
}

var (
	verbose bool

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)

	rootCmd.AddCommand(serveCmd, relayCmd, agentCmd, toolsCmd)
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// newRetryClient builds the HTTP client used for request traffic against
// remote servers. Retries cover transient request failures only; the SSE
// stream itself is never silently reconnected.
func newRetryClient(logger *slog.Logger, retries int, timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 30 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = logger
	return client
}
