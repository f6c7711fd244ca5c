// Package mcp implements the provider side of the Model Context Protocol
// tool-invocation exchange: a JSON-RPC server over tools.Registry, plus the
// stdio framing it is usually spoken over.
package mcp

import "github.com/mattt/moodring/tools"

// Version is the Model Context Protocol version
const Version = "2024-11-05"

// Initialize
type (
	// ServerInfo identifies an MCP implementation
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	// ServerCapabilities represents the server's supported capabilities
	ServerCapabilities struct {
		Tools *struct {
			ListChanged bool `json:"listChanged"`
		} `json:"tools,omitempty"`
	}

	// InitializeResponse represents the server's response to an initialize request
	InitializeResponse struct {
		ProtocolVersion string             `json:"protocolVersion"`
		Capabilities    ServerCapabilities `json:"capabilities"`
		ServerInfo      ServerInfo         `json:"serverInfo"`
		Instructions    string             `json:"instructions,omitempty"`
	}
)

// Content represents a content block in a tool call response
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// NewTextContent creates a text content block
func NewTextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// Tools
type (
	// ToolsListResponse represents the response for the tools/list method.
	// The descriptor set is stable for the life of the server.
	ToolsListResponse struct {
		Tools []tools.Descriptor `json:"tools"`
	}

	// ToolCallParams represents the parameters for the tools/call method
	ToolCallParams struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments,omitempty"`
	}

	// ToolCallResponse represents the response from a tool call. Provider
	// failures are carried here with IsError set, never as raw JSON-RPC
	// faults.
	ToolCallResponse struct {
		Content []Content `json:"content"`
		IsError bool      `json:"isError,omitempty"`
	}
)
