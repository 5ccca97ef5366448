package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// fallbackMessage is used when the error body is JSON but names no message.
const fallbackMessage = "API error"

// Error is a non-2xx response. Message is human-readable and safe to show.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func errorFromResponse(resp *http.Response) *Error {
	raw, _ := io.ReadAll(resp.Body)
	msg, ok := messageFromBody(raw)
	if !ok {
		msg = statusText(resp)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

// messageFromBody reports false when the body is not JSON.
func messageFromBody(raw []byte) (string, bool) {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", false
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return fallbackMessage, true
	}
	for _, key := range []string{"detail", "message", "msg", "error_description", "error"} {
		switch v := obj[key].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v, true
			}
		case []any:
			// FastAPI validation errors: {"detail": [{"msg": "..."}]}
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					if s, ok := m["msg"].(string); ok && s != "" {
						return s, true
					}
				}
			}
		}
	}
	return fallbackMessage, true
}

func statusText(resp *http.Response) string {
	// resp.Status is "404 Not Found"; keep only the reason phrase.
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	if t := http.StatusText(resp.StatusCode); t != "" {
		return t
	}
	return fallbackMessage
}
