package google

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// Common Google API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("google: resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")
)

// Message fragments Spanner uses for the failures a search treats as false.
var (
	objectNotFoundMessages = []string{
		"Table not found",
		"Column not found",
		"Unrecognized name",
	}
	stalenessMessages = []string{
		"exceeded the maximum timestamp staleness",
		"garbage collected",
	}
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	return hasCode(err, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) {
		return true
	}
	return hasCode(err, http.StatusForbidden)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return hasCode(err, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	return hasCode(err, http.StatusTooManyRequests)
}

// IsSessionNotFound returns true if Spanner no longer knows the session a
// request ran on. The session must be recreated.
func IsSessionNotFound(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusNotFound && strings.Contains(gerr.Message, "Session not found")
}

// IsObjectNotFound returns true if the query referenced a table, column or
// view that does not exist at the read timestamp.
func IsObjectNotFound(err error) bool {
	return messageContains(err, objectNotFoundMessages)
}

// IsStalenessExceeded returns true if the read timestamp is older than the
// database can serve.
func IsStalenessExceeded(err error) bool {
	return messageContains(err, stalenessMessages)
}

// RetryAfter returns the Retry-After delay in seconds of a rate limited
// response, or 0 when the server sent none.
func RetryAfter(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil || secs < 0 {
		return 0
	}
	return secs
}

// WrapError converts a Google API error to a more specific error type.
// Object and staleness failures wrap the domain errors so the search can
// classify them. The service message is kept in the error text.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch {
	case IsObjectNotFound(err):
		return fmt.Errorf("%w: %s", domain.ErrObjectNotFound, gerr.Message)
	case IsStalenessExceeded(err):
		return fmt.Errorf("%w: %s", domain.ErrStalenessExceeded, gerr.Message)
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, gerr.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, gerr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, gerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, gerr.Message)
	default:
		return err
	}
}

func hasCode(err error, code int) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

func messageContains(err error, fragments []string) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	for _, f := range fragments {
		if strings.Contains(gerr.Message, f) {
			return true
		}
	}
	return false
}
