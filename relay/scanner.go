package relay

import (
	"bufio"
	"io"
	"strings"
)

// event is one Server-Sent Event
type event struct {
	Type string
	Data string
}

// eventScanner parses a Server-Sent Events stream. Events are delivered in
// stream order, one per Next call.
type eventScanner struct {
	scanner *bufio.Scanner
}

func newEventScanner(r io.Reader) *eventScanner {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	return &eventScanner{scanner: scanner}
}

// Next returns the next complete event, or io.EOF when the stream ends
func (s *eventScanner) Next() (event, error) {
	var ev event
	var data []string

	for s.scanner.Scan() {
		line := strings.TrimSuffix(s.scanner.Text(), "\r")

		switch {
		case line == "":
			// Dispatch boundary; fields without data still count
			if ev.Type != "" || len(data) > 0 {
				ev.Data = strings.Join(data, "\n")
				if ev.Type == "" {
					ev.Type = "message"
				}
				return ev, nil
			}
		case strings.HasPrefix(line, ":"):
			// Comment / keep-alive
		case strings.HasPrefix(line, "event:"):
			ev.Type = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := s.scanner.Err(); err != nil {
		return event{}, err
	}
	return event{}, io.EOF
}
