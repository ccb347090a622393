package docqa

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	inlineStrong  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	inlineEmStar  = regexp.MustCompile(`\*(.*?)\*`)
	inlineEmUnder = regexp.MustCompile(`_(.*?)_`)
	inlineCode    = regexp.MustCompile("`(.*?)`")
)

// span is a piece of a formatted line. Markup spans are wrapper tags and are
// written verbatim; text spans are escaped when the line is assembled.
type span struct {
	text   string
	markup bool
}

type inlineRule struct {
	re          *regexp.Regexp
	open, close string
}

// FormatInline applies the inline rules of the default renderer to one line.
func FormatInline(line string) string {
	return defaultRenderer.FormatInline(line)
}

// FormatInline converts one line of raw text into escaped HTML with strong,
// emphasis and inline code spans. Rules apply in a fixed order and a rule
// never matches across a tag produced by an earlier one, so the result is
// always balanced. Unterminated markers are left as text.
func (r *Renderer) FormatInline(line string) string {
	if line == "" {
		return ""
	}
	spans := []span{{text: line}}
	for _, rule := range r.inline {
		spans = applyInlineRule(spans, rule)
	}
	var b strings.Builder
	b.Grow(len(line) + len(line)/2)
	for _, s := range spans {
		if s.markup {
			b.WriteString(s.text)
			continue
		}
		b.WriteString(html.EscapeString(s.text))
	}
	return b.String()
}

func applyInlineRule(spans []span, rule inlineRule) []span {
	out := make([]span, 0, len(spans))
	for _, s := range spans {
		if s.markup {
			out = append(out, s)
			continue
		}
		matches := rule.re.FindAllStringSubmatchIndex(s.text, -1)
		if matches == nil {
			out = append(out, s)
			continue
		}
		last := 0
		for _, m := range matches {
			if m[0] > last {
				out = append(out, span{text: s.text[last:m[0]]})
			}
			out = append(out, span{text: rule.open, markup: true})
			if m[3] > m[2] {
				out = append(out, span{text: s.text[m[2]:m[3]]})
			}
			out = append(out, span{text: rule.close, markup: true})
			last = m[1]
		}
		if last < len(s.text) {
			out = append(out, span{text: s.text[last:]})
		}
	}
	return out
}

func inlineRules(styles Styles) []inlineRule {
	return []inlineRule{
		{re: inlineStrong, open: "<strong>", close: "</strong>"},
		{re: inlineEmStar, open: "<em>", close: "</em>"},
		{re: inlineEmUnder, open: "<em>", close: "</em>"},
		{re: inlineCode, open: startTag("code", styles.CodeInline), close: "</code>"},
	}
}

func startTag(name, style string) string {
	if style == "" {
		return "<" + name + ">"
	}
	return "<" + name + ` style="` + html.EscapeString(style) + `">`
}
