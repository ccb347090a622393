package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/docqa"
)

func TestOpenInputFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.md")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	ctx := context.Background()
	reader, closer, err := openInputs(ctx, []string{path})
	if err != nil {
		t.Fatalf("openInputs file: %v", err)
	}
	defer func() { _ = closer.Close() }()
	buf, _ := io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file content: %q", string(buf))
	}

	reader, closer, err = openInputs(ctx, []string{"file://" + path})
	if err != nil {
		t.Fatalf("openInputs file URL: %v", err)
	}
	defer func() { _ = closer.Close() }()
	buf, _ = io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file URL content: %q", string(buf))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("stream"))
	}))
	defer srv.Close()
	reader, closer, err = openInputs(ctx, []string{srv.URL})
	if err != nil {
		t.Fatalf("openInputs http: %v", err)
	}
	defer func() { _ = closer.Close() }()
	buf, _ = io.ReadAll(reader)
	if string(buf) != "stream" {
		t.Fatalf("unexpected http content: %q", string(buf))
	}
}

func TestOpenInputsConcatenates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.md")
	second := filepath.Join(dir, "b.md")
	if err := os.WriteFile(first, []byte("one "), 0o644); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := os.WriteFile(second, []byte("two"), 0o644); err != nil {
		t.Fatalf("write second: %v", err)
	}
	reader, closer, err := openInputs(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("openInputs concat: %v", err)
	}
	defer func() { _ = closer.Close() }()
	buf, _ := io.ReadAll(reader)
	if string(buf) != "one two" {
		t.Fatalf("unexpected concatenated content: %q", string(buf))
	}
}

func TestOpenInputsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()
	reader, closer, err := openInputs(context.Background(), []string{srv.URL})
	if err != nil {
		t.Fatalf("openInputs: %v", err)
	}
	defer func() { _ = closer.Close() }()
	if _, err := io.ReadAll(reader); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestOpenInputsRejectsEmptyArgument(t *testing.T) {
	if _, _, err := openInputs(context.Background(), []string{" "}); err == nil {
		t.Fatalf("expected error for empty argument")
	}
}

func TestNormalizePathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got := normalizePath("~/answers/out.html")
	want := filepath.Join(home, "answers", "out.html")
	if got != want {
		t.Fatalf("normalizePath=%q want %q", got, want)
	}
	if !filepath.IsAbs(normalizePath("relative.html")) {
		t.Fatalf("expected absolute path")
	}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	cmd := a.root()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestThemesCommandListsThemes(t *testing.T) {
	out, _, err := runCLI(t, "themes")
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	got := strings.Fields(out)
	want := docqa.AvailableThemes()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("themes output %v want %v", got, want)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "pkt.systems/docqa") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestRenderCommandWritesFinalMarkup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answer.md")
	input := "# Title\n- one\n- two\n\nDone"
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out, _, err := runCLI(t, "render", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := docqa.Render(input) + "\n"; out != want {
		t.Fatalf("render output mismatch\n got: %q\nwant: %q", out, want)
	}
}

func TestRenderCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "answer.md")
	outPath := filepath.Join(dir, "out", "answer.html")
	if err := os.WriteFile(in, []byte("Hello **world**"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	stdout, _, err := runCLI(t, "render", "--simulate", "--simulate-delay", "0", "-o", outPath, in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected nothing on stdout, got %q", stdout)
	}
	page, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(page), docqa.Render("Hello **world**")) {
		t.Fatalf("page does not contain rendered answer: %q", page)
	}
}

func TestRenderCommandRejectsUnknownTheme(t *testing.T) {
	_, _, err := runCLI(t, "render", "--theme", "neon", os.DevNull)
	if err == nil || !strings.Contains(err.Error(), "unknown theme") {
		t.Fatalf("expected unknown theme error, got %v", err)
	}
}

func TestQueryCommandRendersAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/query" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["company_id"] != "acme" || body["query"] != "what now" {
			http.Error(w, `{"detail":"bad request"}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"response":     "**Answer**",
			"context_used": "ctx",
		})
	}))
	defer srv.Close()

	out, errOut, err := runCLI(t, "query", "--api-base-url", srv.URL, "-c", "acme", "what", "now")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := docqa.NewRenderer().RenderAnswer("**Answer**", "ctx") + "\n"
	if out != want {
		t.Fatalf("query output mismatch\n got: %q\nwant: %q", out, want)
	}
	if !strings.Contains(errOut, "Query successful!") {
		t.Fatalf("missing success banner in %q", errOut)
	}
}

func TestQueryCommandStreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/query/stream" {
			http.NotFound(w, r)
			return
		}
		flusher, _ := w.(http.Flusher)
		for _, part := range []string{"Hel", "lo **wor", "ld**"} {
			_, _ = w.Write([]byte(part))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	defer srv.Close()

	out, errOut, err := runCLI(t, "query", "--stream", "--api-base-url", srv.URL, "-c", "acme", "hi")
	if err != nil {
		t.Fatalf("query --stream: %v", err)
	}
	want := docqa.StreamContainer(docqa.Render("Hello **world**")) + "\n"
	if out != want {
		t.Fatalf("stream output mismatch\n got: %q\nwant: %q", out, want)
	}
	if !strings.Contains(errOut, "Streaming complete!") {
		t.Fatalf("missing completion banner in %q", errOut)
	}
}

func TestQueryCommandStreamErrorIsNotWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "query", "--stream", "--api-base-url", srv.URL, "-c", "acme", "hi")
	if err == nil || err.Error() != "Streaming query failed" {
		t.Fatalf("expected stream error, got %v", err)
	}
	if want := "<pre>Error: Streaming query failed</pre>\n"; out != want {
		t.Fatalf("stream error output mismatch\n got: %q\nwant: %q", out, want)
	}
}

func TestStreamWrap(t *testing.T) {
	if got, want := streamWrap("<p>a</p>"), docqa.StreamContainer("<p>a</p>"); got != want {
		t.Fatalf("streamWrap(answer)=%q want %q", got, want)
	}
	if got, want := streamWrap(""), docqa.StreamContainer(""); got != want {
		t.Fatalf("streamWrap(empty)=%q want %q", got, want)
	}
	errMarkup := docqa.ErrorMarkup(errors.New("boom"))
	if got := streamWrap(errMarkup); got != errMarkup {
		t.Fatalf("streamWrap(error)=%q want %q", got, errMarkup)
	}
	answer := docqa.Render("<pre>x")
	if got, want := streamWrap(answer), docqa.StreamContainer(answer); got != want {
		t.Fatalf("streamWrap(escaped answer)=%q want %q", got, want)
	}
}

func TestQueryCommandShowsAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"index missing"}`))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "query", "--api-base-url", srv.URL, "-c", "acme", "hi")
	if err == nil || err.Error() != "index missing" {
		t.Fatalf("expected api error, got %v", err)
	}
	if !strings.HasPrefix(out, "<pre>") || !strings.Contains(out, "index missing") {
		t.Fatalf("expected preformatted error body, got %q", out)
	}
}

func TestQueryCommandRequiresCompany(t *testing.T) {
	_, _, err := runCLI(t, "query", "--api-base-url", "http://127.0.0.1:1", "hi")
	if err == nil || !strings.Contains(err.Error(), "company ID") {
		t.Fatalf("expected company ID error, got %v", err)
	}
}
