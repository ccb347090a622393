package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QueryRequest is the body of query and streaming query calls.
type QueryRequest struct {
	CompanyID string `json:"company_id"`
	Query     string `json:"query"`
}

// QueryResult is the answer of a synchronous query. Missing fields decode
// as empty strings.
type QueryResult struct {
	Response    string `json:"response"`
	ContextUsed string `json:"context_used,omitempty"`
}

// UploadResult is the outcome of processing a document.
type UploadResult struct {
	ChunksCount int             `json:"chunks_count"`
	Raw         json.RawMessage `json:"-"`
}

// APIError is returned for responses outside the 2xx range.
type APIError struct {
	StatusCode int
	// Detail is the server's detail message, or a generic message when the
	// body carries none.
	Detail string
	// Body is the raw response body.
	Body []byte
}

func (e *APIError) Error() string {
	return e.Detail
}

type errorBody struct {
	Detail any `json:"detail"`
}

// detailOf extracts the detail field of an error body. Validation errors
// carry a structured detail, which is rendered as compact JSON.
func detailOf(body []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Detail == nil {
		return fallback
	}
	switch d := eb.Detail.(type) {
	case string:
		if d == "" {
			return fallback
		}
		return d
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return fallback
		}
		return string(raw)
	}
}

// Indent pretty-prints a JSON payload for display. Payloads that are not
// valid JSON are returned unchanged.
func Indent(raw []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}

func requireCompany(companyID string) error {
	if companyID == "" {
		return fmt.Errorf("client: please enter a company ID")
	}
	return nil
}
