package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for model calls.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrMalformedJSON indicates the model returned text that is not the expected JSON.
	ErrMalformedJSON = errors.New("malformed model JSON")

	// ErrRequestFailed indicates the request could not complete (network, HTTP status, provider error).
	ErrRequestFailed = errors.New("model request failed")

	// ErrFatalAPI marks failures that will not go away on their own:
	// bad credentials, exhausted quota, billing problems.
	ErrFatalAPI = errors.New("fatal API error")
)

var fatalMarkers = []string{
	"credit balance",
	"rate limit",
	"quota",
	"billing",
	"invalid api key",
	"authentication",
	"unauthorized",
	"401",
	"403",
}

// isFatalAPIError reports whether err looks like an account-level failure.
func isFatalAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range fatalMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// wrapFatalError tags account-level failures with ErrFatalAPI and passes others through.
func wrapFatalError(err error) error {
	if !isFatalAPIError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFatalAPI, err)
}

// requestFailed wraps a provider error as ErrRequestFailed, tagging fatal ones.
func requestFailed(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, ErrRequestFailed, wrapFatalError(err))
}
