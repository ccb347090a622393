package docqa

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPStatusError reports a streaming response with a non-2xx status.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("stream http: status %s", e.Status)
}

type httpSource struct {
	src Source
}

// NewHTTPSource returns a Source over the body of resp. Responses outside
// the 2xx range are closed and reported as *HTTPStatusError.
func NewHTTPSource(resp *http.Response) (Source, error) {
	if resp == nil || resp.Body == nil {
		return nil, fmt.Errorf("stream http: response has no body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return &httpSource{src: NewReaderSource(resp.Body, 0)}, nil
}

func (s *httpSource) Next(ctx context.Context) ([]byte, error) {
	chunk, err := s.src.Next(ctx)
	if err != nil && err != io.EOF {
		return chunk, fmt.Errorf("stream http: read: %w", err)
	}
	return chunk, err
}

// Close closes the body without reading the rest of the stream.
func (s *httpSource) Close() error {
	return s.src.Close()
}
