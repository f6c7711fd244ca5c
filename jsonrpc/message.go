// Package jsonrpc implements the subset of JSON-RPC 2.0 framing used by the
// Model Context Protocol: single requests, responses, and notifications
// carried as line-delimited JSON.
package jsonrpc

import "encoding/json"

// Version is the JSON-RPC protocol version
const Version = "2.0"

// Request represents a JSON-RPC request object
type Request struct {
	Version string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	Id      interface{}     `json:"id,omitempty"`
}

// NewRequest creates a new Request object
func NewRequest(method string, params json.RawMessage, id interface{}) Request {
	return Request{
		Version: Version,
		Method:  method,
		Params:  params,
		Id:      id,
	}
}

// NewNotification creates a Request without an ID. Notifications are
// fire-and-forget: the receiving side must not answer them.
func NewNotification(method string, params json.RawMessage) Request {
	return Request{
		Version: Version,
		Method:  method,
		Params:  params,
	}
}

// IsNotification reports whether the request carries no ID
func (r Request) IsNotification() bool {
	return r.Id == nil
}

// Result represents the payload of a successful response
type Result interface{}

// Response represents a JSON-RPC response object
type Response struct {
	Version string `json:"jsonrpc"`
	Result  Result `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      ID     `json:"id"`
}

// NewResponse creates a new Response object. An id that is not a string or
// number yields an Internal error response with a null id, per the JSON-RPC
// rule for responses whose id cannot be determined, rather than a silently
// null-id success.
func NewResponse(id interface{}, result Result, err *Error) Response {
	respID, idErr := NewID(id)
	if idErr != nil {
		return Response{
			Version: Version,
			Error:   NewError(ErrInternal, idErr.Error()),
		}
	}

	return Response{
		Version: Version,
		ID:      respID,
		Result:  result,
		Error:   err,
	}
}
