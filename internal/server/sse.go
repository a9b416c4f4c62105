package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/futurotec/internal/portal"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteComplete tells the client the container reached its final content.
func (s *SSEWriter) WriteComplete(container string) {
	s.WriteEvent("complete", map[string]string{"container": container}) //nolint:errcheck
}

// sseContainer streams every replacement of a page container as a
// "section" event. After the first write error the rest are dropped.
type sseContainer struct {
	sse *SSEWriter
	id  string
	err error
}

type sectionEvent struct {
	Container string         `json:"container"`
	Section   portal.Section `json:"section"`
}

func (c *sseContainer) Replace(s portal.Section) {
	if c.err != nil {
		return
	}
	c.err = c.sse.WriteEvent("section", sectionEvent{Container: c.id, Section: s})
}
