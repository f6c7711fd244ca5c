package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattt/moodring/agent"
	"github.com/mattt/moodring/internal"
)

var toolsCmd = &cobra.Command{
	Use:   "tools [server-url]",
	Short: "List the tools a remote server publishes",
	Long: `tools fetches a remote server's published tool descriptors from its
schema endpoint and prints them, one per line, or as JSON with --json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		retryClient := newRetryClient(logger, 3, 30*time.Second)
		if toolsAuth != "" {
			retryClient.HTTPClient.Transport = internal.AuthTransport(retryClient.HTTPClient.Transport, toolsAuth)
		}

		descriptors, err := agent.Discover(cmd.Context(), retryClient.StandardClient(), args[0])
		if err != nil {
			return err
		}

		if toolsJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(descriptors)
		}

		for _, descriptor := range descriptors {
			fmt.Printf("%s\t%s\n", descriptor.Name, descriptor.Description)
		}
		return nil
	},
}

var (
	toolsAuth string
	toolsJSON bool
)

func init() {
	toolsCmd.Flags().StringVar(&toolsAuth, "auth", "", "Authorization header value (e.g. 'Bearer token123')")
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Print descriptors as JSON")
}
