package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type opener func(ctx context.Context) (io.ReadCloser, error)

// concatReader reads its inputs one after the other, opening each lazily and
// closing it at EOF.
type concatReader struct {
	ctx     context.Context
	openers []opener
	cur     io.ReadCloser
	closed  bool
}

func (c *concatReader) Read(p []byte) (int, error) {
	for {
		if c.closed {
			return 0, io.EOF
		}
		if c.cur == nil {
			if len(c.openers) == 0 {
				c.closed = true
				return 0, io.EOF
			}
			rc, err := c.openers[0](c.ctx)
			if err != nil {
				return 0, err
			}
			c.cur = rc
			c.openers = c.openers[1:]
		}
		n, err := c.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			_ = c.cur.Close()
			c.cur = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (c *concatReader) Close() error {
	c.closed = true
	if c.cur != nil {
		err := c.cur.Close()
		c.cur = nil
		return err
	}
	return nil
}

// openInputs returns stdin when args is empty, otherwise the concatenation
// of the named files, file:// URLs and http(s) URLs.
func openInputs(ctx context.Context, args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	openers := make([]opener, 0, len(args))
	for _, raw := range args {
		op, err := inputOpener(raw)
		if err != nil {
			return nil, nil, err
		}
		openers = append(openers, op)
	}
	r := &concatReader{ctx: ctx, openers: openers}
	return r, r, nil
}

func inputOpener(raw string) (opener, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty input argument")
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return func(ctx context.Context) (io.ReadCloser, error) {
				return fetchURL(ctx, raw)
			}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			return func(context.Context) (io.ReadCloser, error) {
				return os.Open(normalizePath(path))
			}, nil
		}
	}
	return func(context.Context) (io.ReadCloser, error) {
		return os.Open(normalizePath(raw))
	}, nil
}

func fetchURL(ctx context.Context, raw string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, nil
}

// normalizePath expands a leading ~ and makes path absolute.
func normalizePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
