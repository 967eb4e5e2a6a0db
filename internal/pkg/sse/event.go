package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Event is one server-sent event. Data is encoded once at publish time and
// shared by every subscriber.
type Event struct {
	Name string
	Data json.RawMessage
}

// NewEvent encodes v as the event payload.
func NewEvent(name string, v any) (Event, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode %s event: %w", name, err)
	}
	return Event{Name: name, Data: data}, nil
}

// WriteEvent writes ev in text/event-stream framing.
func WriteEvent(w io.Writer, ev Event) error {
	if strings.ContainsAny(ev.Name, "\r\n") {
		return fmt.Errorf("invalid event name %q", ev.Name)
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
	return err
}
