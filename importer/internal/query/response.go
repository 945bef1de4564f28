package query

import (
	"encoding/json"
	"net/url"
)

// Envelope status values of the Prometheus HTTP API.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Query is one range query. All fields are passed to the backend verbatim.
type Query struct {
	Query string
	Start string
	End   string
	Step  string
}

// Form returns the form-url-encoded request body fields.
func (q Query) Form() url.Values {
	return url.Values{
		"query": {q.Query},
		"start": {q.Start},
		"end":   {q.End},
		"step":  {q.Step},
	}
}

// Response is the raw query API envelope. Data is left undecoded.
type Response struct {
	Status    string          `json:"status"`
	Data      json.RawMessage `json:"data,omitempty"`
	ErrorType string          `json:"errorType,omitempty"`
	Error     string          `json:"error,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
}
