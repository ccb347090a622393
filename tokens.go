package docqa

// lineKind is the block-level classification of one input line.
type lineKind uint8

// LineKind is the exported alias of lineKind for tooling and tests.
type LineKind = lineKind

const (
	lineParagraph lineKind = iota
	lineHeading
	lineStrongParagraph
	lineListItem
	lineBlank
)

const (
	// LineParagraph is any non-empty line no other rule claims.
	LineParagraph lineKind = lineParagraph
	// LineHeading starts with one or more '#'.
	LineHeading lineKind = lineHeading
	// LineStrongParagraph is wholly wrapped in ** or __.
	LineStrongParagraph lineKind = lineStrongParagraph
	// LineListItem starts with a bullet or an ordinal marker.
	LineListItem lineKind = lineListItem
	// LineBlank is empty after trimming.
	LineBlank lineKind = lineBlank
)

func (k lineKind) String() string {
	switch k {
	case lineHeading:
		return "heading"
	case lineStrongParagraph:
		return "strong-paragraph"
	case lineListItem:
		return "list-item"
	case lineBlank:
		return "blank"
	default:
		return "paragraph"
	}
}
