package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mattt/moodring/jsonrpc"
	"github.com/mattt/moodring/tools"
)

// Server answers MCP JSON-RPC requests from a tool registry
type Server struct {
	registry     *tools.Registry
	info         ServerInfo
	instructions string
	logger       *slog.Logger
}

// ServerOption configures a Server
type ServerOption func(*Server) error

// WithRegistry sets the tool registry the server exposes
func WithRegistry(registry *tools.Registry) ServerOption {
	return func(s *Server) error {
		if registry == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		s.registry = registry
		return nil
	}
}

// WithServerInfo sets the name and version reported on initialize
func WithServerInfo(name, version string) ServerOption {
	return func(s *Server) error {
		s.info = ServerInfo{Name: name, Version: version}
		return nil
	}
}

// WithInstructions sets the usage instructions reported on initialize
func WithInstructions(instructions string) ServerOption {
	return func(s *Server) error {
		s.instructions = instructions
		return nil
	}
}

// WithLogger sets the logger used by the server
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// NewServer creates a new MCP server instance
func NewServer(opts ...ServerOption) (*Server, error) {
	s := &Server{
		info:   ServerInfo{Name: "moodring", Version: "dev"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.registry == nil {
		return nil, fmt.Errorf("a tool registry is required")
	}
	return s, nil
}

var _ jsonrpc.Handler = &Server{}

// Handle processes a single JSON-RPC request and returns a response
func (s *Server) Handle(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	s.logger.Debug("handling request", "method", request.Method, "id", request.Id)

	switch request.Method {
	case "initialize":
		return s.handleInitialize(request)
	case "ping":
		return jsonrpc.NewResponse(request.Id, struct{}{}, nil)
	case "tools/list":
		return s.handleToolsList(request)
	case "tools/call":
		return s.handleToolsCall(ctx, request)
	case "notifications/initialized":
		// Acknowledged implicitly; notifications get no response. A request
		// carrying an id to a notification method is malformed and must not
		// degrade into an empty frame.
		if !request.IsNotification() {
			return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidRequest, request.Method))
		}
		return jsonrpc.Response{}
	default:
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrMethodNotFound, request.Method))
	}
}

func (s *Server) handleInitialize(request jsonrpc.Request) jsonrpc.Response {
	result := InitializeResponse{
		ProtocolVersion: Version,
		Capabilities: ServerCapabilities{
			Tools: &struct {
				ListChanged bool `json:"listChanged"`
			}{ListChanged: false},
		},
		ServerInfo:   s.info,
		Instructions: s.instructions,
	}
	return jsonrpc.NewResponse(request.Id, result, nil)
}

func (s *Server) handleToolsList(request jsonrpc.Request) jsonrpc.Response {
	return jsonrpc.NewResponse(request.Id, ToolsListResponse{Tools: s.registry.Descriptors()}, nil)
}

func (s *Server) handleToolsCall(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	var params ToolCallParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err.Error()))
	}
	if params.Name == "" {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, "tool name is required"))
	}

	payload, err := s.registry.Invoke(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool call failed", "tool", params.Name, "kind", tools.KindOf(err), "error", err)
		return jsonrpc.NewResponse(request.Id, errorResult(err), nil)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInternal, err.Error()))
	}

	result := ToolCallResponse{
		Content: []Content{NewTextContent(string(data))},
	}
	return jsonrpc.NewResponse(request.Id, result, nil)
}

// errorResult serializes a classified tool error onto the result error path,
// so the failure reaches the client as data rather than as a transport fault
func errorResult(err error) ToolCallResponse {
	descriptor := map[string]interface{}{
		"code":    tools.KindOf(err),
		"message": err.Error(),
	}
	data, marshalErr := json.Marshal(descriptor)
	if marshalErr != nil {
		data = []byte(fmt.Sprintf("%q", err.Error()))
	}
	return ToolCallResponse{
		Content: []Content{NewTextContent(string(data))},
		IsError: true,
	}
}
