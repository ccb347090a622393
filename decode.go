package docqa

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// textDecoder turns stream chunks into text. The encoding is fixed to UTF-8;
// a leading byte order mark is dropped once, a rune split across chunks is
// held back until the rest arrives and invalid bytes decode to U+FFFD, so
// decoding never fails. Every other rune, control runes included, passes
// through unchanged.
type textDecoder struct {
	t       transform.Transformer
	pending []byte
	dst     []byte
}

func newTextDecoder() *textDecoder {
	return &textDecoder{t: unicode.UTF8BOM.NewDecoder()}
}

// decode consumes chunk and returns the text it completes.
func (d *textDecoder) decode(chunk []byte) string {
	d.pending = append(d.pending, chunk...)
	return d.drain(false)
}

// flush decodes whatever is still pending at end of stream.
func (d *textDecoder) flush() string {
	return d.drain(true)
}

func (d *textDecoder) drain(atEOF bool) string {
	if len(d.pending) == 0 && !atEOF {
		return ""
	}
	var b strings.Builder
	src := d.pending
	for {
		// Each invalid byte expands to the three bytes of U+FFFD.
		if need := 3*len(src) + utf8.UTFMax; cap(d.dst) < need {
			d.dst = make([]byte, need)
		}
		nDst, nSrc, err := d.t.Transform(d.dst[:cap(d.dst)], src, atEOF)
		b.Write(d.dst[:nDst])
		src = src[nSrc:]
		if err == transform.ErrShortDst && (nDst > 0 || nSrc > 0) {
			continue
		}
		break
	}
	d.pending = append(d.pending[:0], src...)
	if atEOF {
		d.pending = d.pending[:0]
	}
	return b.String()
}

// DecodeText decodes a complete byte payload the same way a stream session
// decodes its chunks.
func DecodeText(p []byte) string {
	d := newTextDecoder()
	return d.decode(p) + d.flush()
}
