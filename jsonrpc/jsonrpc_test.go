package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		id       interface{}
		expected string
	}{
		{name: "string id", id: "abc-123", expected: `"abc-123"`},
		{name: "numeric id", id: 42, expected: `42`},
		{name: "absent id", id: nil, expected: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewID(tt.id)
			require.NoError(t, err)

			data, err := json.Marshal(id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  interface{}
		expectErr bool
	}{
		{name: "string id", input: `"abc"`, expected: "abc"},
		{name: "numeric id", input: `7`, expected: 7},
		{name: "null id", input: `null`, expected: nil},
		{name: "object id", input: `{"a":1}`, expectErr: true},
		{name: "array id", input: `[1]`, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id.Value())
		})
	}
}

func TestID_Equal(t *testing.T) {
	id, err := NewID(3)
	require.NoError(t, err)

	assert.True(t, id.Equal(3))
	assert.False(t, id.Equal(4))
	assert.False(t, id.Equal("3"))

	other, err := NewID(3)
	require.NoError(t, err)
	assert.True(t, id.Equal(other))
}

func TestNewID_RejectsInvalidTypes(t *testing.T) {
	_, err := NewID(map[string]string{})
	assert.Error(t, err)
}

func TestRequest_IsNotification(t *testing.T) {
	req := NewRequest("tools/list", nil, 1)
	assert.False(t, req.IsNotification())

	note := NewNotification("notifications/initialized", nil)
	assert.True(t, note.IsNotification())

	data, err := json.Marshal(note)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"id"`)
}

func TestResponse_RoundTrip(t *testing.T) {
	resp := NewResponse(9, map[string]interface{}{"ok": true}, nil)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Version, decoded.Version)
	assert.True(t, decoded.ID.Equal(9))
	assert.Nil(t, decoded.Error)
}

func TestNewResponse_InvalidID(t *testing.T) {
	resp := NewResponse(map[string]string{}, map[string]interface{}{"ok": true}, nil)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrInternal, resp.Error.Code)
	assert.Nil(t, resp.Result)
	assert.True(t, resp.ID.IsNil())
}

func TestNewError(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		expected string
	}{
		{name: "method not found", code: ErrMethodNotFound, expected: "Method not found"},
		{name: "transport closed", code: ErrTransportClosed, expected: "Transport closed"},
		{name: "unnamed server error", code: -32050, expected: "Server error"},
		{name: "out of range", code: -1, expected: "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewError(tt.code, nil)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.expected, err.Message)
		})
	}
}
