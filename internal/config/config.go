// Package config loads the agent configuration: which model to talk to,
// which endpoint serves it, and which tool servers to spawn.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mattt/moodring/internal"
)

// AgentConfig configures the agent: the model and its endpoint, plus the
// tool servers the agent connects to at startup.
type AgentConfig struct {
	// Model is the chat model identifier
	Model string `json:"model" yaml:"model"`

	// Endpoint is the base URL of the chat completions API. Empty means
	// the provider default.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// APIKey authenticates against the chat completions API. Supports
	// ${VAR} environment references.
	APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`

	// Servers lists the tool servers to spawn and connect to
	Servers []ServerConfig `json:"servers" yaml:"servers"`
}

// ServerConfig describes one tool server the agent spawns over stdio
type ServerConfig struct {
	// Name identifies the server in logs and error messages
	Name string `json:"name" yaml:"name"`

	// Type is the transport type; only "stdio" is supported
	Type string `json:"type" yaml:"type"`

	// Command is the executable to spawn
	Command string `json:"command" yaml:"command"`

	// Args are passed to the command
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`

	// Env holds extra environment variables for the command. Values
	// support ${VAR} environment references.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// DefaultConfig returns a configuration with no servers and the provider
// default endpoint
func DefaultConfig() *AgentConfig {
	return &AgentConfig{
		Model: "gpt-4o",
	}
}

// LoadFile loads configuration from a file. YAML is accepted for .yaml
// and .yml extensions; everything else is parsed as JSON.
func LoadFile(path string) (*AgentConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return load(f, yaml.Unmarshal)
	default:
		return load(f, json.Unmarshal)
	}
}

// Load loads a JSON configuration from an io.Reader
func Load(r io.Reader) (*AgentConfig, error) {
	return load(r, json.Unmarshal)
}

func load(r io.Reader, unmarshal func([]byte, interface{}) error) (*AgentConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data: %w", err)
	}

	config := DefaultConfig()
	if err := unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := config.expand(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// expand resolves ${VAR} environment references in the credential-bearing
// fields
func (c *AgentConfig) expand() error {
	var err error
	if c.APIKey, err = internal.ExpandEnv(c.APIKey); err != nil {
		return fmt.Errorf("apiKey: %w", err)
	}
	if c.Endpoint, err = internal.ExpandEnv(c.Endpoint); err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	for i := range c.Servers {
		for key, value := range c.Servers[i].Env {
			expanded, err := internal.ExpandEnv(value)
			if err != nil {
				return fmt.Errorf("server %s env %s: %w", c.Servers[i].Name, key, err)
			}
			c.Servers[i].Env[key] = expanded
		}
	}
	return nil
}

// Validate checks the configuration for internal consistency
func (c *AgentConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	seen := make(map[string]bool, len(c.Servers))
	for _, server := range c.Servers {
		if server.Name == "" {
			return fmt.Errorf("server name is required")
		}
		if seen[server.Name] {
			return fmt.Errorf("duplicate server name %q", server.Name)
		}
		seen[server.Name] = true

		if server.Type != "stdio" {
			return fmt.Errorf("server %s: unsupported transport type %q", server.Name, server.Type)
		}
		if server.Command == "" {
			return fmt.Errorf("server %s: command is required", server.Name)
		}
	}
	return nil
}

// Save writes the configuration to a file as JSON
func (c *AgentConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
