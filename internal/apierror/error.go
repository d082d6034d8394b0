// Package apierror defines the single error shape every backend call fails with.
package apierror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Code classifies a failure. Transport and HTTP failures map to the first group; client-side
// precondition failures use the second.
type Code string

const (
	CodeTimeout          Code = "TIMEOUT"
	CodeNetwork          Code = "NETWORK_ERROR"
	CodeValidation       Code = "VALIDATION_FAILED"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeBadRequest       Code = "BAD_REQUEST"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodeServer           Code = "SERVER_ERROR"
	CodeHTTP             Code = "HTTP_ERROR"
	CodeUnknown          Code = "UNKNOWN"
	CodePasswordMismatch Code = "PASSWORD_MISMATCH"
	CodeInvalidOTP       Code = "INVALID_OTP"
	CodeResendNotAllowed Code = "RESEND_NOT_ALLOWED"
	CodeFlowState        Code = "FLOW_STATE"
	CodeRequestInFlight  Code = "REQUEST_IN_FLIGHT"
)

const (
	timeoutMessage = "The request timed out. Please try again."
	networkMessage = "Unable to reach the server. Check your connection."
	genericMessage = "Something went wrong. Please try again."
)

// Error is the normalized failure returned by every backend call.
type Error struct {
	Code    Code
	Message string
	Status  int // HTTP status; 0 when no response was received
	Raw     any // decoded response body, or the underlying error when there was no response
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the transport error, if any.
func (e *Error) Unwrap() error {
	if err, ok := e.Raw.(error); ok {
		return err
	}
	return nil
}

// Precondition returns a client-side failure in the same shape as a backend failure.
func Precondition(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// As returns the *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of the *Error in err's chain, CodeUnknown for other errors, "" for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeUnknown
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// FromTransport normalizes a failure where no response was received. A deadline (context or
// net.Error timeout) is TIMEOUT; everything else is NETWORK_ERROR.
func FromTransport(ctx context.Context, err error) *Error {
	if e, ok := As(err); ok {
		return e
	}
	if isTimeout(ctx, err) {
		return &Error{Code: CodeTimeout, Message: timeoutMessage, Raw: err}
	}
	return &Error{Code: CodeNetwork, Message: networkMessage, Raw: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// FromResponse normalizes a non-2xx response. body is the raw response payload.
func FromResponse(status int, statusText string, body []byte) *Error {
	raw := decodeBody(body)
	code := codeForStatus(status)
	msg := ""
	if status == http.StatusUnprocessableEntity {
		msg = validationMessage(raw)
	}
	if msg == "" {
		msg = messageFrom(raw)
	}
	if msg == "" {
		msg = strings.TrimSpace(statusText)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = genericMessage
	}
	return &Error{Code: code, Message: msg, Status: status, Raw: raw}
}

func codeForStatus(status int) Code {
	switch {
	case status == http.StatusBadRequest:
		return CodeBadRequest
	case status == http.StatusUnauthorized:
		return CodeUnauthorized
	case status == http.StatusForbidden:
		return CodeForbidden
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusConflict:
		return CodeConflict
	case status == http.StatusUnprocessableEntity:
		return CodeValidation
	case status >= 500:
		return CodeServer
	default:
		return CodeHTTP
	}
}

// decodeBody returns the JSON value of body, the trimmed text when it is not JSON, or nil when empty.
func decodeBody(body []byte) any {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return text
	}
	return v
}

// messageFrom walks string body, msg, message, error.
func messageFrom(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, key := range []string{"msg", "message", "error"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// validationMessage joins {errors:[{field,message}]} as "field: message; field: message".
func validationMessage(raw any) string {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	list, ok := obj["errors"].([]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		switch fe := item.(type) {
		case map[string]any:
			field, _ := fe["field"].(string)
			message, _ := fe["message"].(string)
			if message == "" {
				message, _ = fe["msg"].(string)
			}
			switch {
			case field != "" && message != "":
				parts = append(parts, field+": "+message)
			case message != "":
				parts = append(parts, message)
			}
		case string:
			if fe != "" {
				parts = append(parts, fe)
			}
		}
	}
	return strings.Join(parts, "; ")
}
