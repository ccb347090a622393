package docqa

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/net/html"
)

// Sink receives rendered markup. Every call replaces what the sink showed
// before.
type Sink interface {
	SetContent(markup string) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(markup string) error

// SetContent calls f(markup).
func (f SinkFunc) SetContent(markup string) error {
	return f(markup)
}

// MemorySink keeps the latest content in memory.
type MemorySink struct {
	mu      sync.Mutex
	content string
	writes  int
}

func (m *MemorySink) SetContent(markup string) error {
	m.mu.Lock()
	m.content = markup
	m.writes++
	m.mu.Unlock()
	return nil
}

// Content returns the latest markup.
func (m *MemorySink) Content() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content
}

// Writes returns how many times SetContent has been called.
func (m *MemorySink) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// WriterSink holds the latest content and writes it out on Flush. It suits
// destinations that can only be appended to, such as stdout.
type WriterSink struct {
	w      io.Writer
	mu     sync.Mutex
	latest string
	dirty  bool
}

// NewWriterSink returns a WriterSink flushing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) SetContent(markup string) error {
	s.mu.Lock()
	s.latest = markup
	s.dirty = true
	s.mu.Unlock()
	return nil
}

// Flush writes the latest content followed by a newline. Flushing twice
// without an update in between writes nothing.
func (s *WriterSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.latest == "" {
		return nil
	}
	s.dirty = false
	if _, err := io.WriteString(s.w, s.latest+"\n"); err != nil {
		return fmt.Errorf("writer sink: %w", err)
	}
	return nil
}

// FileSink rewrites an HTML page on every update. The page is written to a
// temporary file and renamed into place so readers never see a torn page.
type FileSink struct {
	Path  string
	Title string
	// Wrap decorates the markup before it is placed in the page body.
	Wrap func(markup string) string
}

// NewFileSink returns a FileSink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path, Title: "docqa"}
}

func (f *FileSink) SetContent(markup string) error {
	if f.Path == "" {
		return fmt.Errorf("file sink: path is required")
	}
	if f.Wrap != nil {
		markup = f.Wrap(markup)
	}
	dir := filepath.Dir(f.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("file sink: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return fmt.Errorf("file sink: %w", err)
	}
	name := tmp.Name()
	if _, err := io.WriteString(tmp, htmlPage(f.Title, markup)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("file sink: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("file sink: close: %w", err)
	}
	if err := os.Rename(name, f.Path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("file sink: rename: %w", err)
	}
	return nil
}

func htmlPage(title, body string) string {
	return "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>" +
		html.EscapeString(title) + "</title>\n</head>\n<body>\n" + body + "\n</body>\n</html>\n"
}
