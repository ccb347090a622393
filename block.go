package docqa

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	strongParaStars  = regexp.MustCompile(`^\*\*.*\*\*$`)
	strongParaUnders = regexp.MustCompile(`^__.*__$`)
	// Marker gaps also accept Unicode space separators such as U+00A0.
	headingMarker    = regexp.MustCompile(`^#+[\s\p{Zs}]*`)
	bulletMarker     = regexp.MustCompile(`^[*\-•][\s\p{Zs}]+`)
	ordinalMarker    = regexp.MustCompile(`^\d+\.[\s\p{Zs}]+`)
	listLookahead    = regexp.MustCompile(`^[*\-•\d]`)
)

// blockRule pairs a predicate on the trimmed line with the handler that
// emits its markup. Rules are evaluated in order; the first match wins and
// lines nothing claims are paragraphs.
type blockRule struct {
	kind  lineKind
	match func(trimmed string) bool
	emit  func(p *renderPass, i int, trimmed string)
}

var blockRules = [...]blockRule{
	{kind: lineHeading, match: isHeading, emit: (*renderPass).heading},
	{kind: lineStrongParagraph, match: isStrongParagraph, emit: (*renderPass).strongParagraph},
	{kind: lineListItem, match: isListItem, emit: (*renderPass).listItem},
	{kind: lineBlank, match: isBlank, emit: (*renderPass).blank},
}

var paragraphRule = blockRule{kind: lineParagraph, emit: (*renderPass).paragraph}

// ClassifyLine reports which block rule claims a line.
func ClassifyLine(line string) LineKind {
	return ruleFor(strings.TrimSpace(line)).kind
}

func ruleFor(trimmed string) blockRule {
	for _, rule := range blockRules {
		if rule.match(trimmed) {
			return rule
		}
	}
	return paragraphRule
}

func isHeading(s string) bool {
	return strings.HasPrefix(s, "#")
}

func isStrongParagraph(s string) bool {
	return strongParaStars.MatchString(s) || strongParaUnders.MatchString(s)
}

func isListItem(s string) bool {
	return bulletMarker.MatchString(s) || ordinalMarker.MatchString(s)
}

func isBlank(s string) bool {
	return s == ""
}

// continuesList reports whether the line after a blank keeps a list open.
// Only the first character is inspected.
func continuesList(next string) bool {
	return next != "" && listLookahead.MatchString(next)
}

func headingLevel(s string) int {
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n > maxHeadingLevel {
		n = maxHeadingLevel
	}
	return n
}

func stripListMarker(s string) string {
	if loc := bulletMarker.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	if loc := ordinalMarker.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	return s
}

func leadingSpace(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}
