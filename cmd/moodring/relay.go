package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattt/moodring/internal"
	"github.com/mattt/moodring/relay"
)

var relayCmd = &cobra.Command{
	Use:   "relay [sse-url]",
	Short: "Bridge local stdio to a remote SSE server",
	Long: `relay connects to a remote server's SSE endpoint and bridges it to
stdin/stdout: JSON-RPC requests read from stdin are posted to the remote
message endpoint, and responses arriving on the event stream are written
to stdout, both in order. A client that only speaks stdio can reach a
remote server by running it through this command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := newLogger()

		retryClient := newRetryClient(logger, relayRetries, relayTimeout)
		if relayAuth != "" {
			retryClient.HTTPClient.Transport = internal.AuthTransport(retryClient.HTTPClient.Transport, relayAuth)
		}

		// The stream connection gets no timeout and no retries: it stays
		// open for the life of the session, and a drop must surface as an
		// error rather than reconnect silently.
		streamClient := &http.Client{}
		if relayAuth != "" {
			streamClient.Transport = internal.AuthTransport(nil, relayAuth)
		}

		r, err := relay.New(args[0], os.Stdin, os.Stdout,
			relay.WithClient(retryClient.StandardClient()),
			relay.WithStreamClient(streamClient),
			relay.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("error creating relay: %w", err)
		}

		return r.Run(ctx)
	},
}

var (
	relayAuth    string
	relayRetries int
	relayTimeout time.Duration
)

func init() {
	relayCmd.Flags().StringVar(&relayAuth, "auth", "", "Authorization header value (e.g. 'Bearer token123')")
	relayCmd.Flags().IntVar(&relayRetries, "retries", 3, "Maximum number of retries for failed requests")
	relayCmd.Flags().DurationVar(&relayTimeout, "timeout", 60*time.Second, "HTTP request timeout")
}
