// Package relay bridges a local stdio channel to a remote SSE endpoint: the
// mcp-remote pattern. A process-spawning client writes line-delimited
// JSON-RPC to the relay's stdin and reads responses from its stdout, while
// the remote side speaks HTTP POST plus a Server-Sent Events stream.
package relay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mattt/moodring/jsonrpc"
)

// Relay forwards messages between a local channel and a remote endpoint.
// Messages are forwarded in the order received on each side; there is no
// reordering or batching. If the remote connection drops, the relay writes
// a single transport-closed error to the local channel and terminates:
// recovery is a manual restart, never a silent reconnect.
type Relay struct {
	endpoint string
	in       io.Reader
	out      io.Writer
	client   *http.Client // request/response side
	stream   *http.Client // SSE side, must not time out mid-stream
	logger   *slog.Logger
}

// Option configures a Relay
type Option func(*Relay) error

// WithClient sets the HTTP client used to post messages to the remote side
func WithClient(client *http.Client) Option {
	return func(r *Relay) error {
		if client == nil {
			return fmt.Errorf("client cannot be nil")
		}
		r.client = client
		return nil
	}
}

// WithStreamClient sets the HTTP client used for the SSE stream
func WithStreamClient(client *http.Client) Option {
	return func(r *Relay) error {
		if client == nil {
			return fmt.Errorf("stream client cannot be nil")
		}
		r.stream = client
		return nil
	}
}

// WithLogger sets the logger used by the relay
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) error {
		r.logger = logger
		return nil
	}
}

// New creates a relay between a local reader/writer pair and the remote SSE
// endpoint URL
func New(endpoint string, in io.Reader, out io.Writer, opts ...Option) (*Relay, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint URL %q: %w", endpoint, err)
	}

	r := &Relay{
		endpoint: endpoint,
		in:       in,
		out:      out,
		client:   http.DefaultClient,
		stream:   &http.Client{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run connects to the remote endpoint and pumps messages both ways until
// the local input closes, the context is cancelled, or the remote
// connection drops. Only the last of these returns an error.
func (r *Relay) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messageURL, events, body, err := r.connect(ctx)
	if err != nil {
		return err
	}
	defer body.Close()

	r.logger.Info("connected", "endpoint", r.endpoint, "messages", messageURL)

	writer := &lineWriter{out: bufio.NewWriter(r.out)}

	// Unblock the stream pump when the context ends
	streamCtx := ctx
	go func() {
		<-streamCtx.Done()
		body.Close()
	}()

	var localEOF atomic.Bool

	g, ctx := errgroup.WithContext(ctx)

	// Local to remote: one POST per line, strictly in arrival order. The
	// read itself runs in its own goroutine because reads from a pipe or
	// stdin cannot be interrupted by context cancellation.
	g.Go(func() error {
		defer cancel()

		lines := make(chan []byte)
		scanErr := make(chan error, 1)
		go func() {
			scanner := bufio.NewScanner(r.in)
			buf := make([]byte, 0, 64*1024)
			scanner.Buffer(buf, 1024*1024)

			for scanner.Scan() {
				line := bytes.TrimSpace(scanner.Bytes())
				if len(line) == 0 {
					continue
				}
				message := make([]byte, len(line))
				copy(message, line)
				select {
				case lines <- message:
				case <-ctx.Done():
					return
				}
			}
			scanErr <- scanner.Err()
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case err := <-scanErr:
				if err != nil {
					return fmt.Errorf("reading local channel: %w", err)
				}
				localEOF.Store(true)
				return nil
			case line := <-lines:
				if err := r.post(ctx, messageURL, line); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
			}
		}
	})

	// Remote to local: one line per message event, strictly in stream order
	g.Go(func() error {
		for {
			ev, err := events.Next()
			if err != nil {
				if localEOF.Load() || ctx.Err() != nil {
					// Deliberate local shutdown, not a remote failure
					return nil
				}
				r.logger.Error("remote connection lost", "error", err)
				if werr := writer.write(transportClosed()); werr != nil {
					r.logger.Error("writing transport-closed error", "error", werr)
				}
				return fmt.Errorf("transport closed: %w", err)
			}

			if ev.Type != "message" {
				continue
			}
			if err := writer.write([]byte(ev.Data)); err != nil {
				return fmt.Errorf("writing local channel: %w", err)
			}
		}
	})

	return g.Wait()
}

// connect opens the SSE stream and waits for the endpoint event naming the
// session's message URL
func (r *Relay) connect(ctx context.Context) (string, *eventScanner, io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return "", nil, nil, fmt.Errorf("creating stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := r.stream.Do(req)
	if err != nil {
		return "", nil, nil, fmt.Errorf("connecting to %s: %w", r.endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return "", nil, nil, fmt.Errorf("connecting to %s: unexpected status %d", r.endpoint, resp.StatusCode)
	}

	events := newEventScanner(resp.Body)
	for {
		ev, err := events.Next()
		if err != nil {
			resp.Body.Close()
			return "", nil, nil, fmt.Errorf("waiting for endpoint event: %w", err)
		}
		if ev.Type != "endpoint" {
			continue
		}

		messageURL, err := r.resolve(ev.Data)
		if err != nil {
			resp.Body.Close()
			return "", nil, nil, err
		}
		return messageURL, events, resp.Body, nil
	}
}

// resolve interprets the endpoint event data against the stream URL, so
// both absolute and relative message URLs work
func (r *Relay) resolve(endpoint string) (string, error) {
	base, err := url.Parse(r.endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint URL: %w", err)
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing message URL %q: %w", endpoint, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (r *Relay) post(ctx context.Context, messageURL string, message []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, messageURL, bytes.NewReader(message))
	if err != nil {
		return fmt.Errorf("creating message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("forwarding message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("forwarding message: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// transportClosed is the one error the relay itself originates on the local
// channel
func transportClosed() []byte {
	response := jsonrpc.NewResponse(nil, nil, jsonrpc.NewError(jsonrpc.ErrTransportClosed, "remote endpoint disconnected"))
	data, err := json.Marshal(response)
	if err != nil {
		return []byte(`{"jsonrpc":"2.0","error":{"code":-32001,"message":"Transport closed"},"id":null}`)
	}
	return data
}

// lineWriter serializes line-delimited writes from the stream pump and the
// shutdown path
type lineWriter struct {
	mu  sync.Mutex
	out *bufio.Writer
}

func (w *lineWriter) write(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.out.Write(line); err != nil {
		return err
	}
	if err := w.out.WriteByte('\n'); err != nil {
		return err
	}
	return w.out.Flush()
}
