package docqa

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrSuperseded reports that a newer session took over the display.
	ErrSuperseded = errors.New("session superseded")
	// ErrNoSink reports a display without a sink.
	ErrNoSink = errors.New("no sink")
)

// Display owns one Sink and tracks which stream session may write to it.
// Starting a session supersedes the previous one; the superseded session's
// renders are dropped.
type Display struct {
	sink    Sink
	mu      sync.Mutex
	current uuid.UUID
}

// NewDisplay returns a Display writing to sink.
func NewDisplay(sink Sink) *Display {
	return &Display{sink: sink}
}

// Begin starts a session that supersedes any session begun before it.
func (d *Display) Begin() *Session {
	s := &Session{id: uuid.New(), display: d, dec: newTextDecoder()}
	d.mu.Lock()
	d.current = s.id
	d.mu.Unlock()
	return s
}

// Current returns the id of the session allowed to write, or uuid.Nil.
func (d *Display) Current() uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Show replaces the display content outside of any session, superseding
// whatever session was active.
func (d *Display) Show(markup string) error {
	if d.sink == nil {
		return ErrNoSink
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = uuid.Nil
	return d.sink.SetContent(markup)
}

// Session is one streaming answer: the accumulated text and the right to
// write to a display for as long as no newer session has begun.
type Session struct {
	id      uuid.UUID
	display *Display
	dec     *textDecoder
	buf     strings.Builder
	ended   bool
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Active reports whether the session still owns its display.
func (s *Session) Active() bool {
	d := s.display
	d.mu.Lock()
	defer d.mu.Unlock()
	return !s.ended && d.current == s.id
}

// Text returns the text accumulated so far.
func (s *Session) Text() string {
	return s.buf.String()
}

// append decodes chunk onto the buffer and reports whether text was added.
func (s *Session) append(chunk []byte) bool {
	text := s.dec.decode(chunk)
	s.buf.WriteString(text)
	return text != ""
}

func (s *Session) finish() bool {
	text := s.dec.flush()
	s.buf.WriteString(text)
	return text != ""
}

// show writes markup if the session still owns the display. The identity
// check and the write happen under the display lock.
func (s *Session) show(markup string) error {
	d := s.display
	if d.sink == nil {
		return ErrNoSink
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if s.ended || d.current != s.id {
		return ErrSuperseded
	}
	return d.sink.SetContent(markup)
}

// end releases the display if the session still holds it.
func (s *Session) end() {
	d := s.display
	d.mu.Lock()
	if d.current == s.id {
		d.current = uuid.Nil
	}
	s.ended = true
	d.mu.Unlock()
}
