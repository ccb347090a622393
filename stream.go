package docqa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

const defaultChunkSize = 4096

var discardLogger = slog.New(slog.DiscardHandler)

// Source yields the raw bytes of a streamed answer in arrival order.
type Source interface {
	// Next returns the next chunk or io.EOF once the stream has ended. The
	// returned slice is only valid until the following call.
	Next(ctx context.Context) ([]byte, error)
	// Close releases the underlying stream.
	Close() error
}

type readerSource struct {
	r      io.Reader
	buf    []byte
	err    error
	closed bool
}

// NewReaderSource returns a Source reading chunks of up to size bytes from r.
// A size of zero or less uses 4096. If r is an io.Closer, Close closes it.
func NewReaderSource(r io.Reader, size int) Source {
	if size <= 0 {
		size = defaultChunkSize
	}
	return &readerSource{r: r, buf: make([]byte, size)}
}

func (s *readerSource) Next(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed {
		return nil, io.ErrClosedPipe
	}
	for {
		n, err := s.r.Read(s.buf)
		if err != nil {
			s.err = err
		}
		if n > 0 {
			return s.buf[:n], nil
		}
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func (s *readerSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// StreamRequest configures Stream.
type StreamRequest struct {
	Source Source
	// Display receives the renders. When nil, a Display is created for Sink.
	Display  *Display
	Sink     Sink
	Renderer *Renderer
	Logger   *slog.Logger
}

// StreamResult summarises a stream session.
type StreamResult struct {
	SessionID uuid.UUID
	Chunks    int
	Bytes     int
	Text      string
	Markup    string
}

// TransportError reports a stream that failed while being delivered.
type TransportError struct {
	// Partial is set when some of the answer was displayed before the
	// failure; that output is left in place.
	Partial bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Partial {
		return fmt.Sprintf("stream: transport failed after partial answer: %v", e.Err)
	}
	return fmt.Sprintf("stream: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Stream consumes req.Source until it ends, rendering the whole accumulated
// text after every chunk and replacing the display content with the result.
//
// A transport error before anything was displayed replaces the display with
// an error message; after partial output the partial render stays. When ctx
// is cancelled Stream stops reading, closes the source and returns the
// context error. When another session begins on the same display, the
// pending render is dropped and Stream returns ErrSuperseded.
func Stream(ctx context.Context, req StreamRequest) (StreamResult, error) {
	if req.Source == nil {
		return StreamResult{}, fmt.Errorf("stream: source is nil")
	}
	defer func() { _ = req.Source.Close() }()
	display := req.Display
	if display == nil {
		if req.Sink == nil {
			return StreamResult{}, fmt.Errorf("stream: %w", ErrNoSink)
		}
		display = NewDisplay(req.Sink)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	renderer := req.Renderer
	if renderer == nil {
		renderer = defaultRenderer
	}
	log := req.Logger
	if log == nil {
		log = discardLogger
	}

	session := display.Begin()
	defer session.end()
	res := StreamResult{SessionID: session.ID()}
	log = log.With("session", res.SessionID.String())

	if err := session.show(""); err != nil {
		return res, fmt.Errorf("stream: %w", err)
	}
	shown := false
	publish := func() error {
		markup := renderer.Render(session.Text())
		if err := session.show(markup); err != nil {
			return err
		}
		res.Markup = markup
		shown = true
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			log.Debug("stream cancelled", "chunks", res.Chunks)
			res.Text = session.Text()
			return res, fmt.Errorf("stream: %w", err)
		}
		if !session.Active() {
			log.Debug("stream superseded", "by", display.Current().String())
			res.Text = session.Text()
			return res, fmt.Errorf("stream: %w", ErrSuperseded)
		}
		chunk, err := req.Source.Next(ctx)
		if len(chunk) > 0 {
			res.Chunks++
			res.Bytes += len(chunk)
			if session.append(chunk) {
				if perr := publish(); perr != nil {
					log.Debug("stream stopped", "reason", perr, "current", display.Current().String())
					res.Text = session.Text()
					return res, fmt.Errorf("stream: %w", perr)
				}
			}
			log.Debug("stream chunk", "n", len(chunk), "total", res.Bytes)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			if session.finish() {
				if perr := publish(); perr != nil {
					res.Text = session.Text()
					return res, fmt.Errorf("stream: %w", perr)
				}
			}
			res.Text = session.Text()
			log.Debug("stream complete", "chunks", res.Chunks, "bytes", res.Bytes)
			return res, nil
		}
		res.Text = session.Text()
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debug("stream cancelled", "chunks", res.Chunks)
			return res, fmt.Errorf("stream: %w", ctxErr)
		}
		terr := &TransportError{Partial: shown, Err: err}
		if !shown {
			if serr := session.show(ErrorMarkup(err)); serr != nil && !errors.Is(serr, ErrSuperseded) {
				log.Warn("display error message", "err", serr)
			}
		}
		log.Warn("stream transport error", "err", err, "partial", shown)
		return res, terr
	}
}
