package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBodySize bounds how much of a non-2xx body ends up in logs.
const maxErrorBodySize = 512

func ReadResponseBody(resp *http.Response) ([]byte, error) {
	respBody, err := io.ReadAll(resp.Body)
	if nil != err {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if len(respBody) == 0 {
		return nil, errors.New("unexpected empty response body")
	}

	return respBody, nil
}

// ErrorBodySnippet returns the leading part of the response body for diagnostics.
func ErrorBodySnippet(resp *http.Response) []byte {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	return b
}

func IsSuccessStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// IsRetryableStatus reports whether a failed request is worth repeating.
func IsRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusRequestTimeout,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}

	return code >= http.StatusInternalServerError
}
