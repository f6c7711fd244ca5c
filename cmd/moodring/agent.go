package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/mattt/moodring/agent"
	"github.com/mattt/moodring/internal/config"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Chat with a model that can invoke the served tools",
	Long: `agent reads a configuration file describing a chat model and a set of
tool servers, spawns the servers, discovers their tools, and runs an
interactive loop in which the model may invoke any discovered tool.
Type "exit" or "quit" to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := newLogger()

		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if len(cfg.Servers) == 0 {
			return fmt.Errorf("no tool servers configured")
		}

		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		clientConfig := openai.DefaultConfig(apiKey)
		if cfg.Endpoint != "" {
			clientConfig.BaseURL = cfg.Endpoint
		}
		client := openai.NewClientWithConfig(clientConfig)

		var sessions []*agent.Session
		defer func() {
			for _, session := range sessions {
				session.Close()
			}
		}()
		for _, server := range cfg.Servers {
			session, err := agent.Connect(ctx, server.Name, server.Command, server.Args, server.Env, logger)
			if err != nil {
				return fmt.Errorf("error connecting to %s: %w", server.Name, err)
			}
			sessions = append(sessions, session)
		}

		loop := agent.NewLoop(client, cfg.Model, sessions, logger)
		return loop.Run(ctx, os.Stdin, os.Stdout)
	},
}

var configPath string

func init() {
	agentCmd.Flags().StringVarP(&configPath, "config", "c", "agent.json", "Path to the agent configuration file")
}
