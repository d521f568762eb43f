package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mattermost-community/mattermost-api-go/internal/filter"
)

// Response is a successful (2xx) server response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body is only accepted
// on 204 No Content, where v is left untouched.
func (r *Response) Decode(v any) error {
	if v == nil {
		return nil
	}
	if len(bytes.TrimSpace(r.Body)) == 0 {
		if r.StatusCode == http.StatusNoContent {
			return nil
		}
		return fmt.Errorf("%w (empty body with status %d)", ErrUnexpectedResponse, r.StatusCode)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w (JSON decode failed): %v", ErrUnexpectedResponse, err)
	}
	return nil
}

// Data decodes the body into generic JSON values (maps, slices, numbers).
// A 204 No Content response yields nil.
func (r *Response) Data() (any, error) {
	var data any
	if err := r.Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}

// Query runs a jq expression against the decoded body. A single result is
// returned as-is; several results are returned as a slice.
func (r *Response) Query(expr string) (any, error) {
	data, err := r.Data()
	if err != nil {
		return nil, err
	}
	return filter.Apply(data, expr)
}

// QueryJSON runs a jq expression against the body and returns the result as
// indented JSON. An empty expression returns the body unchanged.
func (r *Response) QueryJSON(expr string) ([]byte, error) {
	return filter.ApplyToJSON(r.Body, expr)
}

// RequestID returns the server-assigned request ID.
func (r *Response) RequestID() string {
	return requestIDFromHeader(r.Header)
}

// StatusOK is the body of Mattermost endpoints that only acknowledge.
type StatusOK struct {
	Status string `json:"status"`
}

// OK reports whether the server acknowledged with "OK".
func (s *StatusOK) OK() bool {
	return s != nil && s.Status == "OK"
}
