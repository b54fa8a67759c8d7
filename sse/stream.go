package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Event names sent while streaming a run.
const (
	// EventStarted opens a stream and carries the run's stage names.
	EventStarted = "started"
	// EventValue carries one value that reached the terminal.
	EventValue = "value"
	// EventReport closes a successful stream with the run report.
	EventReport = "report"
	// EventError closes a failed stream with the error body.
	EventError = "error"
)

// ErrStreamingUnsupported is returned by Open when w cannot flush.
var ErrStreamingUnsupported = errors.New("sse: response writer does not support flushing")

// Stream writes events to one client. It is not safe for concurrent use.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	sent    int
	err     error
}

// Open sets the event-stream headers on w. Nothing is written until the
// first Send.
func Open(w http.ResponseWriter) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	return &Stream{w: w, flusher: flusher}, nil
}

// Send writes one event with data encoded as JSON and flushes it. Events
// are numbered from 1 in the id field. After the first write error every
// Send returns that error.
func (s *Stream) Send(event string, data any) error {
	if s.err != nil {
		return s.err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: encoding %s event: %w", event, err)
	}

	s.sent++
	var b strings.Builder
	fmt.Fprintf(&b, "id: %d\nevent: %s\n", s.sent, event)
	for _, line := range strings.Split(string(payload), "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	if _, err := s.w.Write([]byte(b.String())); err != nil {
		s.err = err
		return err
	}
	s.flusher.Flush()
	return nil
}

// Sent returns the number of events written.
func (s *Stream) Sent() int {
	return s.sent
}
