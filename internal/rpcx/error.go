package rpcx

import (
	"fmt"
	"net/http"
)

// HTTPError represents a non-2xx HTTP response from the remote endpoint.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("rpcx: http error: status=%d body=%s", e.StatusCode, string(e.Body))
}

// Retryable reports whether the error should be considered transient.
func (e *HTTPError) Retryable() bool {
	if e == nil {
		return false
	}
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusRequestTimeout ||
		(e.StatusCode >= 500 && e.StatusCode <= 599)
}

// RPCError is a remote method rejection carried inside a JSON-RPC response
// envelope. It is surfaced verbatim and never retried.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
