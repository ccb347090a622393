// Package client talks to the document question-answering API: it uploads
// documents, runs synchronous and streaming queries and fetches collection
// information for a company.
//
// Example:
//
//	c, err := client.New("http://localhost:8000")
//	if err != nil {
//		log.Fatal(err)
//	}
//	src, err := c.QueryStream(ctx, "acme", "What is the notice period?")
//	if err != nil {
//		log.Fatal(err)
//	}
//	_, err = docqa.Stream(ctx, docqa.StreamRequest{Source: src, Sink: sink})
//
// Errors returned for non-2xx responses are *APIError values carrying the
// server's detail message.
package client
