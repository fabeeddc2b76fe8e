package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// ErrNoCredentials is returned by lookups that need an access token when none was configured.
var ErrNoCredentials = errors.New("no access token configured")

// forbiddenHint explains the usual cause of a 403 from the REST API.
const forbiddenHint = "GitHub rejects frequent anonymous requests from the same address. " +
	"Wait a while or set an access token."

// FetchError is returned when a request for a resource kind fails.
// StatusCode is 0 when the failure happened before any response was received.
type FetchError struct {
	Resource   string
	StatusCode int
	Message    string
	Hint       string
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetching %s failed", e.Resource)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, e.StatusCode)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Message)
	if e.Hint != "" {
		msg = fmt.Sprintf("%s\n%s", msg, e.Hint)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// newFetchError converts a go-github or transport error into a FetchError.
func newFetchError(resource string, err error) *FetchError {
	fe := &FetchError{Resource: resource, Message: err.Error(), Err: err}

	var (
		errResp   *github.ErrorResponse
		rateErr   *github.RateLimitError
		secondary *github.AbuseRateLimitError
	)
	switch {
	case errors.As(err, &errResp):
		fe.StatusCode = statusOf(errResp.Response)
		fe.Message = firstNonEmpty(errResp.Message, http.StatusText(fe.StatusCode))
	case errors.As(err, &rateErr):
		fe.StatusCode = statusOf(rateErr.Response)
		fe.Message = firstNonEmpty(rateErr.Message, fe.Message)
	case errors.As(err, &secondary):
		fe.StatusCode = statusOf(secondary.Response)
		fe.Message = firstNonEmpty(secondary.Message, fe.Message)
	}

	if fe.StatusCode == http.StatusForbidden {
		fe.Hint = forbiddenHint
	}
	return fe
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
