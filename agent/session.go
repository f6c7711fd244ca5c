// Package agent implements the client side of the tool-invocation exchange:
// sessions against spawned stdio servers, descriptor discovery, and a
// conversation loop that lets a language model invoke the discovered tools.
package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mattt/moodring/jsonrpc"
	"github.com/mattt/moodring/mcp"
	"github.com/mattt/moodring/tools"
)

// clientInfo identifies this client during the initialize handshake
var clientInfo = mcp.ServerInfo{Name: "moodring", Version: "dev"}

// Session is one agent's connection to one tool server. The descriptor set
// is discovered once at connect time and cached for the life of the
// session; a tool name outside that set is rejected client-side without
// ever reaching the provider.
//
// One call is in flight at a time: Call blocks until the matching result
// arrives or the transport closes.
type Session struct {
	name    string
	scanner *bufio.Scanner
	encoder *json.Encoder
	closer  io.Closer
	logger  *slog.Logger

	mu     sync.Mutex
	nextID int

	server      mcp.ServerInfo
	descriptors []tools.Descriptor
	byName      map[string]tools.Descriptor
}

// Connect spawns a stdio server and performs the session handshake:
// initialize, the initialized notification, then tools/list for the
// descriptor set.
func Connect(ctx context.Context, name, command string, args []string, env map[string]string, logger *slog.Logger) (*Session, error) {
	transport, err := newStdioTransport(ctx, command, args, env)
	if err != nil {
		return nil, fmt.Errorf("server %s: %w", name, err)
	}

	session := newSession(name, transport.Reader(), transport.Writer(), transport, logger)
	if err := session.handshake(ctx); err != nil {
		transport.Close()
		return nil, fmt.Errorf("server %s: %w", name, err)
	}
	return session, nil
}

func newSession(name string, in io.Reader, out io.Writer, closer io.Closer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	return &Session{
		name:    name,
		scanner: scanner,
		encoder: json.NewEncoder(out),
		closer:  closer,
		logger:  logger,
	}
}

func (s *Session) handshake(ctx context.Context) error {
	params := map[string]interface{}{
		"protocolVersion": mcp.Version,
		"capabilities":    map[string]interface{}{},
		"clientInfo":      clientInfo,
	}
	response, err := s.roundTrip(ctx, "initialize", params)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if response.Error != nil {
		return fmt.Errorf("initialize: %w", response.Error)
	}

	var init mcp.InitializeResponse
	if err := decodeResult(response.Result, &init); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	s.server = init.ServerInfo

	if err := s.encoder.Encode(jsonrpc.NewNotification("notifications/initialized", nil)); err != nil {
		return fmt.Errorf("initialized notification: %w", err)
	}

	response, err = s.roundTrip(ctx, "tools/list", nil)
	if err != nil {
		return fmt.Errorf("tools/list: %w", err)
	}
	if response.Error != nil {
		return fmt.Errorf("tools/list: %w", response.Error)
	}

	var list mcp.ToolsListResponse
	if err := decodeResult(response.Result, &list); err != nil {
		return fmt.Errorf("tools/list: %w", err)
	}

	s.descriptors = list.Tools
	s.byName = make(map[string]tools.Descriptor, len(list.Tools))
	for _, descriptor := range list.Tools {
		s.byName[descriptor.Name] = descriptor
	}

	s.logger.Info("session established", "server", s.name, "tools", len(s.descriptors))
	return nil
}

// Name returns the configured server name
func (s *Session) Name() string {
	return s.name
}

// ServerInfo returns the identity the server reported on initialize
func (s *Session) ServerInfo() mcp.ServerInfo {
	return s.server
}

// Tools returns the descriptor set discovered at connect time. The set
// does not change for the life of the session.
func (s *Session) Tools() []tools.Descriptor {
	return s.descriptors
}

// Call invokes a discovered tool and returns its validated payload.
// Provider-side failures come back as classified errors; an undiscovered
// tool name is a client-side usage error and is never forwarded.
func (s *Session) Call(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, error) {
	if _, ok := s.byName[name]; !ok {
		return nil, tools.Errorf(tools.KindUsageError, "tool %q is not in the discovered descriptor set", name)
	}

	params := mcp.ToolCallParams{Name: name, Arguments: args}
	response, err := s.roundTrip(ctx, "tools/call", params)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		if response.Error.Code == jsonrpc.ErrTransportClosed {
			return nil, tools.Errorf(tools.KindTransportClosed, "server %s: %v", s.name, response.Error)
		}
		return nil, fmt.Errorf("server %s: %w", s.name, response.Error)
	}

	var result mcp.ToolCallResponse
	if err := decodeResult(response.Result, &result); err != nil {
		return nil, fmt.Errorf("server %s: %w", s.name, err)
	}
	if len(result.Content) == 0 {
		return nil, fmt.Errorf("server %s: empty tool result", s.name)
	}

	if result.IsError {
		return nil, decodeToolError(result.Content[0].Text)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(result.Content[0].Text), &payload); err != nil {
		return nil, fmt.Errorf("server %s: decoding tool payload: %w", s.name, err)
	}
	return payload, nil
}

// Close tears down the session and its server process
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// roundTrip sends one request and blocks until the response with the
// matching ID arrives. Stray messages, notifications from the server
// included, are skipped.
func (s *Session) roundTrip(ctx context.Context, method string, params interface{}) (jsonrpc.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return jsonrpc.Response{}, fmt.Errorf("encoding params: %w", err)
		}
		raw = data
	}

	s.nextID++
	id := s.nextID

	if err := s.encoder.Encode(jsonrpc.NewRequest(method, raw, id)); err != nil {
		return jsonrpc.Response{}, tools.Errorf(tools.KindTransportClosed, "server %s: writing request: %v", s.name, err)
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" {
			continue
		}

		var response jsonrpc.Response
		if err := json.Unmarshal([]byte(line), &response); err != nil {
			s.logger.Warn("skipping unparseable message", "server", s.name, "error", err)
			continue
		}

		if response.Error != nil && response.Error.Code == jsonrpc.ErrTransportClosed {
			return jsonrpc.Response{}, tools.Errorf(tools.KindTransportClosed, "server %s: remote endpoint disconnected", s.name)
		}
		if !response.ID.Equal(id) {
			s.logger.Debug("skipping message with foreign id", "server", s.name, "id", response.ID)
			continue
		}
		return response, nil
	}

	if err := s.scanner.Err(); err != nil {
		return jsonrpc.Response{}, tools.Errorf(tools.KindTransportClosed, "server %s: %v", s.name, err)
	}
	return jsonrpc.Response{}, tools.Errorf(tools.KindTransportClosed, "server %s closed the connection", s.name)
}

// decodeResult re-marshals an untyped JSON-RPC result into its typed form
func decodeResult(result jsonrpc.Result, v interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}
	return nil
}

// decodeToolError rebuilds a classified error from its wire descriptor
func decodeToolError(text string) error {
	var descriptor struct {
		Code    tools.Kind `json:"code"`
		Message string     `json:"message"`
	}
	if err := json.Unmarshal([]byte(text), &descriptor); err != nil || descriptor.Code == "" {
		return tools.Errorf(tools.KindExecutionError, "%s", text)
	}
	return &tools.Error{Kind: descriptor.Code, Message: descriptor.Message}
}
