package docqa

import (
	"sort"
	"strings"
)

// Styles groups the CSS declarations placed in the style attribute of each
// element the renderer emits. An empty value omits the attribute.
type Styles struct {
	Heading         string
	StrongParagraph string
	List            string
	ListItem        string
	Paragraph       string
	CodeInline      string
}

// Theme provides named styles for answer rendering.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func css(decls ...string) string {
	var b strings.Builder
	for _, d := range decls {
		if d == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d)
		b.WriteByte(';')
	}
	return b.String()
}

var builtinThemes = map[string]Theme{
	"default": theme{name: "default", styles: Styles{
		Heading:         css("margin-top: 20px", "margin-bottom: 10px", "color: #667eea", "font-weight: 600"),
		StrongParagraph: css("font-weight: 600", "margin: 10px 0", "color: #555"),
		List:            css("margin: 10px 0", "padding-left: 25px", "line-height: 1.8"),
		ListItem:        css("margin-bottom: 8px"),
		Paragraph:       css("margin: 10px 0", "line-height: 1.8"),
		CodeInline:      css("background: #f4f4f4", "padding: 2px 6px", "border-radius: 3px", "font-family: monospace"),
	}},
	"dark": theme{name: "dark", styles: Styles{
		Heading:         css("margin-top: 20px", "margin-bottom: 10px", "color: #a5b4fc", "font-weight: 600"),
		StrongParagraph: css("font-weight: 600", "margin: 10px 0", "color: #d4d4d8"),
		List:            css("margin: 10px 0", "padding-left: 25px", "line-height: 1.8", "color: #e4e4e7"),
		ListItem:        css("margin-bottom: 8px"),
		Paragraph:       css("margin: 10px 0", "line-height: 1.8", "color: #e4e4e7"),
		CodeInline:      css("background: #27272a", "color: #f4f4f5", "padding: 2px 6px", "border-radius: 3px", "font-family: monospace"),
	}},
	"plain": theme{name: "plain"},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}
