package docqa

// DefaultIndentUnit is the left margin in pixels added per leading whitespace
// character of an indented list item.
const DefaultIndentUnit = 20

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	theme      Theme
	indentUnit int
}

// WithTheme selects the theme used for style attributes. A nil theme keeps
// the default.
func WithTheme(t Theme) RenderOption {
	return func(cfg *renderConfig) {
		if t != nil {
			cfg.theme = t
		}
	}
}

// WithIndentUnit sets the per-character list indentation in pixels.
// Values below zero are treated as zero.
func WithIndentUnit(px int) RenderOption {
	return func(cfg *renderConfig) {
		if px < 0 {
			px = 0
		}
		cfg.indentUnit = px
	}
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{
		theme:      DefaultTheme(),
		indentUnit: DefaultIndentUnit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
