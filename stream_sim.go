package docqa

import (
	"context"
	"fmt"
	"io"
	"time"
)

// SimulateRequest configures SimulateSource.
type SimulateRequest struct {
	Reader    io.Reader
	ChunkSize int
	Delay     time.Duration
}

type simulatedSource struct {
	src   Source
	delay time.Duration
	first bool
}

// SimulateSource replays Reader as a stream of ChunkSize-byte chunks with
// Delay before each chunk after the first. Chunks split on byte boundaries,
// so multi-byte runes may straddle chunks just as they do over the network.
// This is intended for previewing answers and for tests.
func SimulateSource(req SimulateRequest) (Source, error) {
	if req.Reader == nil {
		return nil, fmt.Errorf("stream simulate: Reader is nil")
	}
	if req.ChunkSize <= 0 {
		return nil, fmt.Errorf("stream simulate: ChunkSize must be > 0")
	}
	return &simulatedSource{
		// The caller owns Reader; hide any Close method from the source.
		src:   NewReaderSource(struct{ io.Reader }{req.Reader}, req.ChunkSize),
		delay: req.Delay,
		first: true,
	}, nil
}

func (s *simulatedSource) Next(ctx context.Context) ([]byte, error) {
	if !s.first && s.delay > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	s.first = false
	return s.src.Next(ctx)
}

func (s *simulatedSource) Close() error {
	return s.src.Close()
}
