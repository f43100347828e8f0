// Package httpx holds the JSON conventions shared by the HTTP handlers:
// the error envelope, response writing, and strict request-body decoding.
package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MsgInternal is the body message for unexpected faults.
const MsgInternal = "Internal server error"

// ErrorBody is the error envelope: {"message": "...", "error": "Bad Request", "statusCode": 400}.
// Error is omitted for bearer-guard rejections and internal errors.
type ErrorBody struct {
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"statusCode"`
}

// WriteJSON writes v as the JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope with the status text in "error".
func WriteError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	WriteJSON(w, status, ErrorBody{Message: msg, Error: http.StatusText(status), StatusCode: status})
}

// WriteUnauthorized writes the bare 401 used by the bearer guard.
func WriteUnauthorized(w http.ResponseWriter) {
	WriteJSON(w, http.StatusUnauthorized, ErrorBody{Message: http.StatusText(http.StatusUnauthorized), StatusCode: http.StatusUnauthorized})
}

// WriteInternal writes a 500 without leaking err.
func WriteInternal(w http.ResponseWriter) {
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{Message: MsgInternal, StatusCode: http.StatusInternalServerError})
}

// BadRequestError is a client error whose Message is returned verbatim with status 400.
type BadRequestError struct {
	Message string
}

func (e BadRequestError) Error() string { return e.Message }

// ErrBodyTooLarge is returned by DecodeObject when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("request body too large")

// Object is a decoded JSON object that remembers its key order.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// DecodeObject reads a single JSON object from the request body, limited to maxBytes.
// An empty body decodes as {}.
func DecodeObject(w http.ResponseWriter, r *http.Request, maxBytes int64) (Object, error) {
	obj := Object{values: map[string]json.RawMessage{}}
	if r.Body == nil {
		return obj, nil
	}
	defer func() { _ = r.Body.Close() }()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return Object{}, ErrBodyTooLarge
		}
		return Object{}, BadRequestError{Message: http.StatusText(http.StatusBadRequest)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return obj, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return Object{}, BadRequestError{Message: "Request body must be a JSON object"}
	}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return Object{}, BadRequestError{Message: "Malformed JSON body"}
		}
		key, _ := kt.(string)

		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return Object{}, BadRequestError{Message: "Malformed JSON body"}
		}
		if _, dup := obj.values[key]; !dup {
			obj.keys = append(obj.keys, key)
		}
		obj.values[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return Object{}, BadRequestError{Message: "Malformed JSON body"}
	}
	// Ensure there is no extra data after the first JSON value.
	if _, err := dec.Token(); err != io.EOF {
		return Object{}, BadRequestError{Message: "Malformed JSON body"}
	}
	return obj, nil
}

// Only rejects the first key (in body order) that is not in allowed.
func (o Object) Only(allowed ...string) error {
	for _, k := range o.keys {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			return BadRequestError{Message: fmt.Sprintf("property %s should not exist", k)}
		}
	}
	return nil
}

// String returns the string value at key. It fails when the key is missing, null or not a string.
func (o Object) String(key string) (string, error) {
	p, err := o.OptionalString(key)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", mustBeString(key)
	}
	return *p, nil
}

// OptionalString returns nil for a missing or null key and fails for non-string values.
func (o Object) OptionalString(key string) (*string, error) {
	raw, ok := o.values[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, mustBeString(key)
	}
	return &s, nil
}

func mustBeString(key string) error {
	return BadRequestError{Message: key + " must be a string"}
}

// WriteDecodeError maps a DecodeObject/Object error to its response.
func WriteDecodeError(w http.ResponseWriter, err error) {
	var bre BadRequestError
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "request entity too large")
	case errors.As(err, &bre):
		WriteError(w, http.StatusBadRequest, bre.Message)
	default:
		WriteError(w, http.StatusBadRequest, "")
	}
}
