package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattt/moodring/internal"
)

func stubEnv(t *testing.T, env map[string]string) {
	t.Helper()
	original := internal.LookupEnv
	internal.LookupEnv = func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	t.Cleanup(func() { internal.LookupEnv = original })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Empty(t, cfg.Servers)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	stubEnv(t, map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"LOG_LEVEL":      "debug",
	})

	cfg, err := Load(strings.NewReader(`{
		"model": "gpt-4o-mini",
		"endpoint": "https://api.example.com/v1",
		"apiKey": "${OPENAI_API_KEY}",
		"servers": [
			{
				"name": "moodring",
				"type": "stdio",
				"command": "moodring",
				"args": ["serve", "--stdio"],
				"env": {"MOODRING_LOG": "${LOG_LEVEL}"}
			}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, "https://api.example.com/v1", cfg.Endpoint)
	assert.Equal(t, "sk-test", cfg.APIKey)

	require.Len(t, cfg.Servers, 1)
	server := cfg.Servers[0]
	assert.Equal(t, "moodring", server.Name)
	assert.Equal(t, "stdio", server.Type)
	assert.Equal(t, []string{"serve", "--stdio"}, server.Args)
	assert.Equal(t, "debug", server.Env["MOODRING_LOG"])
}

func TestLoadErrors(t *testing.T) {
	stubEnv(t, nil)

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "malformed JSON",
			input:   `{not json`,
			wantErr: "parsing config",
		},
		{
			name:    "missing model",
			input:   `{"model": ""}`,
			wantErr: "model is required",
		},
		{
			name:    "unset environment reference",
			input:   `{"model": "m", "apiKey": "${MISSING}"}`,
			wantErr: "MISSING",
		},
		{
			name: "duplicate server names",
			input: `{"model": "m", "servers": [
				{"name": "a", "type": "stdio", "command": "x"},
				{"name": "a", "type": "stdio", "command": "y"}
			]}`,
			wantErr: "duplicate server name",
		},
		{
			name: "unsupported transport",
			input: `{"model": "m", "servers": [
				{"name": "a", "type": "sse", "command": "x"}
			]}`,
			wantErr: "unsupported transport",
		},
		{
			name: "missing command",
			input: `{"model": "m", "servers": [
				{"name": "a", "type": "stdio"}
			]}`,
			wantErr: "command is required",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(test.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestLoadFileYAML(t *testing.T) {
	stubEnv(t, map[string]string{"OPENAI_API_KEY": "sk-test"})

	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: gpt-4o
apiKey: ${OPENAI_API_KEY}
servers:
  - name: moodring
    type: stdio
    command: moodring
    args: [serve, --stdio]
`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
	require.Len(t, cfg.Servers, 1)
	assert.Equal(t, []string{"serve", "--stdio"}, cfg.Servers[0].Args)
}

func TestSaveRoundTrip(t *testing.T) {
	stubEnv(t, nil)

	cfg := DefaultConfig()
	cfg.Servers = []ServerConfig{{Name: "moodring", Type: "stdio", Command: "moodring"}}

	path := filepath.Join(t.TempDir(), "nested", "agent.json")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
