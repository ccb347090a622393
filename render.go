package docqa

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

const maxHeadingLevel = 4

// Renderer converts lightly formatted answer text into HTML. A Renderer holds
// only configuration and is safe for concurrent use.
type Renderer struct {
	cfg    renderConfig
	styles Styles
	inline []inlineRule
	ulOpen string
}

var defaultRenderer = NewRenderer()

// NewRenderer returns a Renderer configured by opts.
func NewRenderer(opts ...RenderOption) *Renderer {
	cfg := newRenderConfig(opts)
	styles := cfg.theme.Styles()
	return &Renderer{
		cfg:    cfg,
		styles: styles,
		inline: inlineRules(styles),
		ulOpen: startTag("ul", styles.List),
	}
}

// Theme returns the theme the renderer styles elements with.
func (r *Renderer) Theme() Theme {
	return r.cfg.theme
}

// Render renders text with the default renderer.
func Render(text string) string {
	return defaultRenderer.Render(text)
}

// Render converts the whole of text into HTML. The result depends only on
// text and the renderer options; text may be a truncated prefix of a larger
// answer and the output is still balanced.
func (r *Renderer) Render(text string) string {
	out, _ := r.render(text, false)
	return out
}

// renderPass is the state of one Render call.
type renderPass struct {
	r        *Renderer
	b        strings.Builder
	lines    []string
	listOpen bool
}

// render returns the markup for text and, when marks is set, the output
// offset reached after each input line.
func (r *Renderer) render(text string, marks bool) (string, []int) {
	if text == "" {
		return "", nil
	}
	p := renderPass{r: r, lines: strings.Split(text, "\n")}
	p.b.Grow(len(text) * 2)
	var offsets []int
	if marks {
		offsets = make([]int, 0, len(p.lines))
	}
	for i, line := range p.lines {
		trimmed := strings.TrimSpace(line)
		ruleFor(trimmed).emit(&p, i, trimmed)
		if marks {
			offsets = append(offsets, p.b.Len())
		}
	}
	p.closeList()
	return p.b.String(), offsets
}

func (p *renderPass) closeList() {
	if p.listOpen {
		p.b.WriteString("</ul>")
		p.listOpen = false
	}
}

func (p *renderPass) openList() {
	if !p.listOpen {
		p.b.WriteString(p.r.ulOpen)
		p.listOpen = true
	}
}

func (p *renderPass) heading(_ int, trimmed string) {
	p.closeList()
	level := strconv.Itoa(headingLevel(trimmed))
	text := headingMarker.ReplaceAllString(trimmed, "")
	p.b.WriteString(startTag("h"+level, p.r.styles.Heading))
	p.b.WriteString(html.EscapeString(text))
	p.b.WriteString("</h" + level + ">")
}

func (p *renderPass) strongParagraph(_ int, trimmed string) {
	p.closeList()
	text := strings.ReplaceAll(trimmed, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	p.b.WriteString(startTag("p", p.r.styles.StrongParagraph))
	p.b.WriteString("<strong>")
	p.b.WriteString(html.EscapeString(text))
	p.b.WriteString("</strong></p>")
}

func (p *renderPass) listItem(i int, trimmed string) {
	p.openList()
	style := p.r.styles.ListItem
	if indent := leadingSpace(p.lines[i]); indent > 0 {
		margin := "margin-left: " + strconv.Itoa(indent*p.r.cfg.indentUnit) + "px;"
		if style == "" {
			style = margin
		} else {
			style = margin + " " + style
		}
	}
	p.b.WriteString(startTag("li", style))
	p.b.WriteString(p.r.FormatInline(stripListMarker(trimmed)))
	p.b.WriteString("</li>")
}

func (p *renderPass) blank(i int, _ string) {
	next := ""
	if i+1 < len(p.lines) {
		next = strings.TrimSpace(p.lines[i+1])
	}
	if p.listOpen && !continuesList(next) {
		p.closeList()
	}
	p.b.WriteString("<br>")
}

func (p *renderPass) paragraph(_ int, trimmed string) {
	p.closeList()
	p.b.WriteString(startTag("p", p.r.styles.Paragraph))
	p.b.WriteString(p.r.FormatInline(trimmed))
	p.b.WriteString("</p>")
}
