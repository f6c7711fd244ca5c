package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattt/moodring/jsonrpc"
)

func newTestSSEServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler := NewSSEHandler(newTestServer(t), nil)
	ts := httptest.NewServer(handler.Router())
	t.Cleanup(ts.Close)
	return ts
}

// readEvent reads one "event:"/"data:" pair from an SSE stream
func readEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func postMessage(t *testing.T, url string, request jsonrpc.Request) *http.Response {
	t.Helper()
	body, err := json.Marshal(request)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestSSEHandler_Health(t *testing.T) {
	ts := newTestSSEServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSSEHandler_Schema(t *testing.T) {
	ts := newTestSSEServer(t)

	resp, err := http.Get(ts.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var descriptors []struct {
		Name        string                 `json:"name"`
		Description string                 `json:"description"`
		InputSchema map[string]interface{} `json:"inputSchema"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&descriptors))
	require.Len(t, descriptors, 2)
	assert.Equal(t, "sentiment_analysis", descriptors[0].Name)
	assert.Equal(t, "letter_counter", descriptors[1].Name)
	assert.Equal(t, "object", descriptors[0].InputSchema["type"])
}

func TestSSEHandler_UnknownSession(t *testing.T) {
	ts := newTestSSEServer(t)

	resp := postMessage(t, ts.URL+"/messages?session=nope", jsonrpc.NewRequest("ping", nil, 1))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSSEHandler_RoundTrip(t *testing.T) {
	ts := newTestSSEServer(t)

	stream, err := http.Get(ts.URL + "/sse")
	require.NoError(t, err)
	defer stream.Body.Close()
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	reader := bufio.NewReader(stream.Body)

	event, endpoint := readEvent(t, reader)
	require.Equal(t, "endpoint", event)
	require.True(t, strings.HasPrefix(endpoint, "/messages?session="), "unexpected endpoint %q", endpoint)

	messagesURL := ts.URL + endpoint

	// initialize
	resp := postMessage(t, messagesURL, jsonrpc.NewRequest("initialize", nil, 1))
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	event, data := readEvent(t, reader)
	require.Equal(t, "message", event)

	var initResponse jsonrpc.Response
	require.NoError(t, json.Unmarshal([]byte(data), &initResponse))
	assert.True(t, initResponse.ID.Equal(1))
	assert.Nil(t, initResponse.Error)

	// two calls in order: responses come back in request order
	params1, err := json.Marshal(ToolCallParams{
		Name:      "sentiment_analysis",
		Arguments: map[string]interface{}{"text": "I love this!"},
	})
	require.NoError(t, err)
	params2, err := json.Marshal(ToolCallParams{
		Name:      "letter_counter",
		Arguments: map[string]interface{}{"word": "strawberry", "letter": "r"},
	})
	require.NoError(t, err)

	postMessage(t, messagesURL, jsonrpc.NewRequest("tools/call", params1, 2))
	postMessage(t, messagesURL, jsonrpc.NewRequest("tools/call", params2, 3))

	for i, expectedID := range []int{2, 3} {
		event, data = readEvent(t, reader)
		require.Equal(t, "message", event, "event %d", i)

		var response jsonrpc.Response
		require.NoError(t, json.Unmarshal([]byte(data), &response))
		assert.True(t, response.ID.Equal(expectedID), "expected response %d, got %s", expectedID, response.ID)
		assert.Nil(t, response.Error)
	}
}

func TestSession_DeliverAfterTeardown(t *testing.T) {
	sess := &session{
		id:     newSessionID(),
		outbox: make(chan jsonrpc.Response, 1),
		done:   make(chan struct{}),
	}

	// fill the buffer, then tear the session down with nothing draining it
	sess.deliver(jsonrpc.NewResponse(1, "buffered", nil))
	close(sess.done)

	delivered := make(chan struct{})
	go func() {
		sess.deliver(jsonrpc.NewResponse(2, "dropped", nil))
		close(delivered)
	}()

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("deliver blocked after session teardown")
	}
}

func TestSSEHandler_PostAfterDisconnect(t *testing.T) {
	ts := newTestSSEServer(t)

	stream, err := http.Get(ts.URL + "/sse")
	require.NoError(t, err)

	reader := bufio.NewReader(stream.Body)
	_, endpoint := readEvent(t, reader)
	messagesURL := ts.URL + endpoint

	resp := postMessage(t, messagesURL, jsonrpc.NewRequest("ping", nil, 1))
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	// hang up the consumer; the session tears down and later posts 404
	stream.Body.Close()
	require.Eventually(t, func() bool {
		resp := postMessage(t, messagesURL, jsonrpc.NewRequest("ping", nil, 2))
		return resp.StatusCode == http.StatusNotFound
	}, time.Second, 10*time.Millisecond)
}

func TestSSEHandler_ParseErrorOnStream(t *testing.T) {
	ts := newTestSSEServer(t)

	stream, err := http.Get(ts.URL + "/sse")
	require.NoError(t, err)
	defer stream.Body.Close()

	reader := bufio.NewReader(stream.Body)
	_, endpoint := readEvent(t, reader)

	resp, err := http.Post(ts.URL+endpoint, "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	event, data := readEvent(t, reader)
	require.Equal(t, "message", event)

	var response jsonrpc.Response
	require.NoError(t, json.Unmarshal([]byte(data), &response))
	require.NotNil(t, response.Error)
	assert.Equal(t, jsonrpc.ErrParse, response.Error.Code)
}
