package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	cn "github.com/LerianStudio/lib-wrapi-go/constant"
	"github.com/tidwall/gjson"
)

// ResponseError is returned when the API answered with a non-2xx status.
// Body holds the response payload when it was valid JSON, nil otherwise.
type ResponseError struct {
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

func (e *ResponseError) Error() string {
	body := "none"
	if len(e.Body) > 0 {
		body = string(e.Body)
	}

	return fmt.Sprintf("API response error with status %d %s and body %s",
		e.StatusCode, http.StatusText(e.StatusCode), body)
}

// Is matches the cn.ErrResponse code.
func (e *ResponseError) Is(target error) bool {
	return target == cn.ErrResponse
}

// Field reads a value out of the JSON body using a gjson path, e.g. "error.code".
func (e *ResponseError) Field(path string) gjson.Result {
	if len(e.Body) == 0 {
		return gjson.Result{}
	}

	return gjson.GetBytes(e.Body, path)
}

// ClientError is a generic HTTP client failure: the request could not be built or sent.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string {
	if e.Err == nil {
		return "HTTP client error"
	}

	return "HTTP client error: " + e.Err.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Is matches the cn.ErrClient code.
func (e *ClientError) Is(target error) bool {
	return target == cn.ErrClient
}

// DecodeError is returned when a successful response could not be deserialized.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "HTTP client failed to decode response"
	}

	return "HTTP client failed to decode response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches the cn.ErrClientDecode code.
func (e *DecodeError) Is(target error) bool {
	return target == cn.ErrClientDecode
}

// StatusCode returns the HTTP status carried by a ResponseError anywhere in the chain.
func StatusCode(err error) (int, bool) {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode, true
	}

	return 0, false
}

// IsConnectionError checks if an error is likely related to network connectivity
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	// The server answered, so the connection was fine
	if _, ok := StatusCode(err); ok {
		return false
	}

	errStr := strings.ToLower(err.Error())

	connectionErrors := []string{
		"connection refused",
		"no such host",
		"host unreachable",
		"i/o timeout",
		"no route to host",
		"network is unreachable",
		"operation timed out",
		"eof",
		"connection reset by peer",
		"dial tcp",
		"tls handshake",
		"context deadline exceeded",
		"operation canceled",
	}

	for _, msg := range connectionErrors {
		if strings.Contains(errStr, msg) {
			return true
		}
	}

	// *url.Error is a net.Error too, so only timeouts and dial level failures count
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		return IsConnectionError(unwrapped)
	}

	return false
}

// IsServerError checks if an error carries a server error status (5xx)
func IsServerError(err error) bool {
	status, ok := StatusCode(err)

	return ok && status >= 500 && status < 600
}

// IsClientError checks if an error carries a client error status (4xx)
func IsClientError(err error) bool {
	status, ok := StatusCode(err)

	return ok && status >= 400 && status < 500
}
