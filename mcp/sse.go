package mcp

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mattt/moodring/jsonrpc"
)

// SSEHandler exposes a Server over HTTP: a schema endpoint for discovery,
// an SSE stream carrying server-to-client messages, and a message endpoint
// accepting client-to-server JSON-RPC.
//
// Each SSE connection is one session. The first event on the stream is an
// "endpoint" event naming the session's message URL; every JSON-RPC response
// follows as a "message" event, in request order.
type SSEHandler struct {
	server *Server
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	id     string
	outbox chan jsonrpc.Response
	done   chan struct{}
}

// deliver queues a response onto the session stream. A message handler may
// still hold the session after its consumer disconnected; once the session
// is torn down the response is dropped instead of blocking on a channel
// nobody drains.
func (s *session) deliver(response jsonrpc.Response) {
	select {
	case s.outbox <- response:
	case <-s.done:
	}
}

// NewSSEHandler creates an HTTP handler for the given server
func NewSSEHandler(server *Server, logger *slog.Logger) *SSEHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SSEHandler{
		server:   server,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Router returns the chi router serving the provider endpoints
func (h *SSEHandler) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})
	r.Get("/schema", h.handleSchema)
	r.Get("/sse", h.handleSSE)
	r.Post("/messages", h.handleMessage)

	return r
}

// handleSchema serves the published descriptor set as JSON
func (h *SSEHandler) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.server.registry.Descriptors()); err != nil {
		h.logger.Error("encoding schema", "error", err)
	}
}

// handleSSE opens a session and streams its responses until the client
// disconnects. The session is owned by exactly one consumer; closing the
// stream tears it down.
func (h *SSEHandler) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sess := &session{
		id:     newSessionID(),
		outbox: make(chan jsonrpc.Response, 16),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.sessions[sess.id] = sess
	h.mu.Unlock()

	defer func() {
		close(sess.done)
		h.mu.Lock()
		delete(h.sessions, sess.id)
		h.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: endpoint\ndata: /messages?session=%s\n\n", sess.id)
	flusher.Flush()

	h.logger.Info("session opened", "session", sess.id)

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("session closed", "session", sess.id)
			return
		case response := <-sess.outbox:
			data, err := json.Marshal(response)
			if err != nil {
				h.logger.Error("encoding response", "session", sess.id, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// handleMessage accepts one JSON-RPC message for a session. The response is
// queued onto the session's stream; the POST itself only acknowledges
// receipt.
func (h *SSEHandler) handleMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")

	h.mu.Lock()
	sess, ok := h.sessions[sessionID]
	h.mu.Unlock()

	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "error reading body", http.StatusBadRequest)
		return
	}

	var request jsonrpc.Request
	if err := json.Unmarshal(body, &request); err != nil {
		sess.deliver(jsonrpc.NewResponse(nil, nil, jsonrpc.NewError(jsonrpc.ErrParse, err.Error())))
		w.WriteHeader(http.StatusAccepted)
		return
	}

	response := h.server.Handle(r.Context(), request)
	if !request.IsNotification() {
		sess.deliver(response)
	}

	w.WriteHeader(http.StatusAccepted)
}

func newSessionID() string {
	b := make([]byte, 16)
	rand.Read(b) //nolint:errcheck
	return hex.EncodeToString(b)
}
