// Package ipc exposes commands and events to a front-end over JSON lines.
package ipc

import (
	"encoding/json"
	"io"
	"sync"
)

// Stream writes one JSON value per line. It is safe for concurrent use, so
// responses and events can share a single output.
type Stream struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStream creates a stream writing to w
func NewStream(w io.Writer) *Stream {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Stream{enc: enc}
}

// Write encodes v followed by a newline.
func (s *Stream) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(v)
}

// Event is the frame written for an emitted event.
type Event struct {
	Event   string `json:"event"`
	Window  string `json:"window"`
	Payload any    `json:"payload"`
}

// Request is one command invocation read from the front-end.
type Request struct {
	ID   uint64          `json:"id"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Response answers a Request. Exactly one of Result and Error is set.
type Response struct {
	ID     uint64 `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
