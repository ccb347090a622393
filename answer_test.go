package docqa

import (
	"errors"
	"testing"
)

func TestRenderAnswer(t *testing.T) {
	r := plainRenderer()
	got := r.RenderAnswer("**Yes**", "")
	want := `<h3>Response:</h3><div class="response-text formatted-response"><p><strong>Yes</strong></p></div>`
	if got != want {
		t.Fatalf("unexpected answer\nwant: %q\n got: %q", want, got)
	}

	got = r.RenderAnswer("- a", "from *page 2*")
	want = `<h3>Response:</h3><div class="response-text formatted-response"><ul><li>a</li></ul></div>` +
		`<h3 style="margin-top: 25px;">Context Used:</h3><div class="context-text"><p>from <em>page 2</em></p></div>`
	if got != want {
		t.Fatalf("unexpected answer with context\nwant: %q\n got: %q", want, got)
	}

	got = r.RenderAnswer("", "")
	want = `<h3>Response:</h3><div class="response-text formatted-response"></div>`
	if got != want {
		t.Fatalf("unexpected empty answer %q", got)
	}
}

func TestStreamContainer(t *testing.T) {
	got := StreamContainer("<p>x</p>")
	want := `<h3>Response (Streaming):</h3><div class="response-text formatted-response"><p>x</p></div>`
	if got != want {
		t.Fatalf("unexpected container %q", got)
	}
}

func TestErrorMarkup(t *testing.T) {
	if ErrorMarkup(nil) != "" {
		t.Fatalf("nil error rendered")
	}
	if got := ErrorMarkup(errors.New(`bad <input> "x"`)); got != "<pre>Error: bad &lt;input&gt; &#34;x&#34;</pre>" {
		t.Fatalf("unexpected error markup %q", got)
	}
	if got := PreformattedMarkup("{\n  \"a\": 1\n}"); got != "<pre>{\n  &#34;a&#34;: 1\n}</pre>" {
		t.Fatalf("unexpected preformatted markup %q", got)
	}
}
