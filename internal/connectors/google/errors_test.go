package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

func apiErr(code int, message string) error {
	return fmt.Errorf("execute: %w", &googleapi.Error{Code: code, Message: message})
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		want      bool
	}{
		{"unauthorized code", apiErr(http.StatusUnauthorized, "bad token"), IsUnauthorized, true},
		{"unauthorized sentinel", ErrUnauthorized, IsUnauthorized, true},
		{"forbidden", apiErr(http.StatusForbidden, "denied"), IsForbidden, true},
		{"not found", apiErr(http.StatusNotFound, "Database not found"), IsNotFound, true},
		{"rate limited", apiErr(http.StatusTooManyRequests, "slow down"), IsRateLimited, true},
		{"session not found", apiErr(http.StatusNotFound, "Session not found: s1"), IsSessionNotFound, true},
		{"database not found is not a session", apiErr(http.StatusNotFound, "Database not found"),
			IsSessionNotFound, false},
		{"table not found", apiErr(http.StatusBadRequest, "Table not found: Orders"), IsObjectNotFound, true},
		{"unrecognized name", apiErr(http.StatusBadRequest, "Unrecognized name: x"), IsObjectNotFound, true},
		{"syntax error", apiErr(http.StatusBadRequest, "Syntax error"), IsObjectNotFound, false},
		{"staleness", apiErr(http.StatusBadRequest, "has exceeded the maximum timestamp staleness"),
			IsStalenessExceeded, true},
		{"plain error", errors.New("Table not found"), IsObjectNotFound, false},
		{"nil", nil, IsForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.predicate(tt.err))
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"object", apiErr(http.StatusBadRequest, "Table not found: Orders"), domain.ErrObjectNotFound},
		{"staleness", apiErr(http.StatusBadRequest, "version garbage collected"), domain.ErrStalenessExceeded},
		{"unauthorized", apiErr(http.StatusUnauthorized, "x"), ErrUnauthorized},
		{"forbidden", apiErr(http.StatusForbidden, "x"), ErrForbidden},
		{"not found", apiErr(http.StatusNotFound, "Instance not found"), ErrNotFound},
		{"rate limited", apiErr(http.StatusTooManyRequests, "x"), ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, WrapError(tt.err), tt.want)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, WrapError(nil))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		internal := apiErr(http.StatusInternalServerError, "backend")
		assert.Same(t, internal, WrapError(internal))

		plain := errors.New("dial tcp: refused")
		assert.Same(t, plain, WrapError(plain))
	})
}

func TestRetryAfter(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "7")

	assert.Equal(t, 7, RetryAfter(&googleapi.Error{Code: http.StatusTooManyRequests, Header: header}))
	assert.Equal(t, 0, RetryAfter(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.Equal(t, 0, RetryAfter(errors.New("x")))
}

func TestNormaliseEndpoint(t *testing.T) {
	assert.Equal(t, "http://localhost:9020/", NormaliseEndpoint("localhost:9020"))
	assert.Equal(t, "https://spanner.example.com/", NormaliseEndpoint("https://spanner.example.com"))
	assert.Equal(t, "http://127.0.0.1:1/", NormaliseEndpoint("http://127.0.0.1:1/"))
}
