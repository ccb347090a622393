package docqa

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	answerHeader    = "<h3>Response:</h3>"
	contextHeader   = `<h3 style="margin-top: 25px;">Context Used:</h3>`
	streamingHeader = "<h3>Response (Streaming):</h3>"
)

// RenderAnswer lays out a complete, non-streamed answer: the rendered
// response followed by the supporting context when there is any. Empty
// fields render as empty sections.
func (r *Renderer) RenderAnswer(answer, contextUsed string) string {
	var b strings.Builder
	b.WriteString(answerHeader)
	b.WriteString(`<div class="response-text formatted-response">`)
	b.WriteString(r.Render(answer))
	b.WriteString("</div>")
	if contextUsed != "" {
		b.WriteString(contextHeader)
		b.WriteString(`<div class="context-text">`)
		b.WriteString(r.Render(contextUsed))
		b.WriteString("</div>")
	}
	return b.String()
}

// StreamContainer wraps the markup of a streaming answer in its header and
// container element.
func StreamContainer(markup string) string {
	return streamingHeader + `<div class="response-text formatted-response">` + markup + "</div>"
}

// ErrorMarkup renders err as a preformatted error message.
func ErrorMarkup(err error) string {
	if err == nil {
		return ""
	}
	return "<pre>Error: " + html.EscapeString(err.Error()) + "</pre>"
}

// PreformattedMarkup shows raw structured text, such as a JSON payload,
// verbatim.
func PreformattedMarkup(text string) string {
	return "<pre>" + html.EscapeString(text) + "</pre>"
}
