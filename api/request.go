package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// MethodDel is accepted as an alias for DELETE.
const MethodDel = "DEL"

type bodyMode int

const (
	bodyNone bodyMode = iota
	bodyJSON
	bodyMultipart
)

type formPart struct {
	field    string
	filename string
	path     string
	content  []byte
	isFile   bool
	value    string
}

// Request is the staging area for a single API call. Fields, query
// parameters, headers and multipart parts are recorded here and consumed by
// Client.Do. A Request belongs to one call; build a new one (or Reset it)
// for the next.
type Request struct {
	Method string
	URL    string

	fields     map[string]any
	query      url.Values
	header     http.Header
	parts      []formPart
	payload    any
	hasPayload bool
	mode       bodyMode
	err        error
}

// NewRequest returns an empty Request for method and absolute url.
func NewRequest(method, rawURL string) *Request {
	r := &Request{Method: method, URL: rawURL}
	r.Reset()
	return r
}

// Reset clears every staged field, query parameter, header and part.
// Method and URL are kept.
func (r *Request) Reset() {
	r.fields = map[string]any{}
	r.query = url.Values{}
	r.header = http.Header{}
	r.parts = nil
	r.payload = nil
	r.hasPayload = false
	r.mode = bodyNone
	r.err = nil
}

func (r *Request) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// JSON marks the request as JSON-bodied. Content-Type is set at dispatch
// when a body is actually sent.
func (r *Request) JSON() *Request {
	if r.mode == bodyMultipart {
		r.fail(fmt.Errorf("%w: JSON requested after multipart staging", ErrMixedBody))
		return r
	}
	r.mode = bodyJSON
	return r
}

// Set stages a JSON field. The last write for a key wins.
func (r *Request) Set(key string, value any) *Request {
	if r.mode == bodyMultipart {
		r.fail(fmt.Errorf("%w: field %q staged on a multipart request", ErrMixedBody, key))
		return r
	}
	if r.mode == bodyNone {
		r.JSON()
	}
	r.fields[key] = value
	return r
}

// SetBody stages v as the whole JSON body, for endpoints that take an array
// or other non-object payload. It takes precedence over staged fields.
func (r *Request) SetBody(v any) *Request {
	if r.mode == bodyMultipart {
		r.fail(fmt.Errorf("%w: JSON body staged on a multipart request", ErrMixedBody))
		return r
	}
	if r.mode == bodyNone {
		r.JSON()
	}
	r.payload = v
	r.hasPayload = true
	return r
}

// Query stages a URL query parameter.
func (r *Request) Query(key, value string) *Request {
	r.query.Set(key, value)
	return r
}

// Header stages an extra request header.
func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// Multipart marks the request as multipart/form-data.
func (r *Request) Multipart() *Request {
	if r.mode == bodyJSON {
		r.fail(fmt.Errorf("%w: multipart requested after JSON staging", ErrMixedBody))
		return r
	}
	r.mode = bodyMultipart
	return r
}

// AddFile stages the file at path under field. The file is read when the
// request is dispatched.
func (r *Request) AddFile(field, path string) *Request {
	if r.Multipart(); r.err != nil {
		return r
	}
	r.parts = append(r.parts, formPart{field: field, filename: filepath.Base(path), path: path, isFile: true})
	return r
}

// AddFileContent stages in-memory content as a file part.
func (r *Request) AddFileContent(field, filename string, content []byte) *Request {
	if r.Multipart(); r.err != nil {
		return r
	}
	r.parts = append(r.parts, formPart{field: field, filename: filename, content: content, isFile: true})
	return r
}

// AddFormField stages a plain multipart form field.
func (r *Request) AddFormField(name, value string) *Request {
	if r.Multipart(); r.err != nil {
		return r
	}
	r.parts = append(r.parts, formPart{field: name, value: value})
	return r
}

// Fields returns a copy of the staged JSON fields.
func (r *Request) Fields() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Err returns the first staging error, if any.
func (r *Request) Err() error {
	return r.err
}

// IsMultipart reports whether the request carries multipart parts.
func (r *Request) IsMultipart() bool {
	return r.mode == bodyMultipart
}

func normalizeMethod(method string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case http.MethodGet:
		return http.MethodGet, nil
	case http.MethodPost:
		return http.MethodPost, nil
	case http.MethodPut:
		return http.MethodPut, nil
	case http.MethodPatch:
		return http.MethodPatch, nil
	case http.MethodDelete, MethodDel:
		return http.MethodDelete, nil
	default:
		return "", fmt.Errorf("unsupported request method %q", method)
	}
}

// fieldsInQuery reports whether staged fields travel in the query string.
func fieldsInQuery(method string) bool {
	return method == http.MethodGet || method == http.MethodDelete
}

// build resolves the final URL, body and content type for dispatch.
func (r *Request) build() (method, target string, body io.Reader, contentType string, err error) {
	if r.err != nil {
		return "", "", nil, "", r.err
	}
	method, err = normalizeMethod(r.Method)
	if err != nil {
		return "", "", nil, "", err
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return "", "", nil, "", fmt.Errorf("invalid request URL: %w", err)
	}
	q := u.Query()
	for k, vals := range r.query {
		for _, val := range vals {
			q.Add(k, val)
		}
	}

	switch {
	case r.mode == bodyMultipart:
		buf, ct, err := r.encodeMultipart()
		if err != nil {
			return "", "", nil, "", err
		}
		body, contentType = buf, ct
	case r.hasPayload:
		data, err := json.Marshal(r.payload)
		if err != nil {
			return "", "", nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	case fieldsInQuery(method):
		keys := make([]string, 0, len(r.fields))
		for k := range r.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			q.Set(k, queryValue(r.fields[k]))
		}
	case r.mode == bodyJSON:
		data, err := json.Marshal(r.fields)
		if err != nil {
			return "", "", nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	u.RawQuery = q.Encode()
	return method, u.String(), body, contentType, nil
}

func (r *Request) encodeMultipart() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, part := range r.parts {
		if !part.isFile {
			if err := writer.WriteField(part.field, part.value); err != nil {
				return nil, "", fmt.Errorf("failed to write field %s: %w", part.field, err)
			}
			continue
		}

		content := part.content
		if part.path != "" {
			data, err := os.ReadFile(part.path)
			if err != nil {
				return nil, "", fmt.Errorf("failed to read file %s: %w", part.path, err)
			}
			content = data
		}
		fw, err := writer.CreateFormFile(part.field, part.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", part.filename, err)
		}
		if _, err := fw.Write(content); err != nil {
			return nil, "", fmt.Errorf("failed to write file content %s: %w", part.filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}

// queryValue renders a staged field for the query string. Slices become
// comma-separated lists, which is how the server reads role filters.
func queryValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprint(val)
	}
}

// setIf stages key only when the caller supplied a value.
func setIf[T any](r *Request, key string, v *T) {
	if v != nil {
		r.Set(key, *v)
	}
}

// setSliceIf stages key when s is non-nil. An empty, non-nil slice is staged
// so callers can clear a list.
func setSliceIf[T any](r *Request, key string, s []T) {
	if s != nil {
		r.Set(key, s)
	}
}

// setMapIf stages key when m is non-nil.
func setMapIf[K comparable, V any](r *Request, key string, m map[K]V) {
	if m != nil {
		r.Set(key, m)
	}
}

// queryIf stages a query parameter only when the caller supplied a value.
func queryIf[T any](r *Request, key string, v *T) {
	if v != nil {
		r.Query(key, queryValue(*v))
	}
}

// String returns a pointer to s, for optional fields.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Int64 returns a pointer to i.
func Int64(i int64) *int64 { return &i }
