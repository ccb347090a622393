// Package docqa renders streamed document answers to HTML.
//
// This package is built for live answers: the text of a streaming query
// response grows chunk by chunk and the whole accumulated buffer is rendered
// again on every chunk. The renderer is a pure function of its input, so a
// partial buffer always produces well-formed markup and successive renders of
// a growing buffer agree on every completed line.
//
// Core properties:
//   - A small markdown subset: headings, bold paragraphs, flat lists,
//     paragraphs, bold, italic and inline code
//   - All input text is HTML-escaped; only fixed wrapper tags are emitted
//   - Full re-render per chunk with overwrite semantics on the sink
//   - Theme-driven inline CSS via RenderOptions
//
// Example:
//
//	display := docqa.NewDisplay(docqa.NewFileSink("answer.html"))
//	res, err := docqa.Stream(ctx, docqa.StreamRequest{
//		Source:  docqa.NewReaderSource(resp.Body, 0),
//		Display: display,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Chunks, "chunks")
//
// The renderer can also be used on its own:
//
//	html := docqa.Render("# Title\nSome *italic* and **bold** text.")
package docqa
