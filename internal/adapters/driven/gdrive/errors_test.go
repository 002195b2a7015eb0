package gdrive

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "401", err: &googleapi.Error{Code: http.StatusUnauthorized}, want: domain.ErrUnauthorized},
		{name: "403", err: &googleapi.Error{Code: http.StatusForbidden}, want: domain.ErrUnauthorized},
		{name: "404", err: &googleapi.Error{Code: http.StatusNotFound}, want: domain.ErrNotFound},
		{name: "429", err: &googleapi.Error{Code: http.StatusTooManyRequests}, want: domain.ErrRateLimited},
		{
			name: "403 quota reason",
			err: &googleapi.Error{
				Code:   http.StatusForbidden,
				Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}},
			},
			want: domain.ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, WrapError(tt.err), tt.want)
		})
	}
}

func TestWrapError_PassThrough(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, WrapError(plain))

	server := &googleapi.Error{Code: http.StatusInternalServerError}
	assert.Equal(t, error(server), WrapError(server))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.True(t, IsRateLimited(domain.ErrRateLimited))
	assert.False(t, IsRateLimited(&googleapi.Error{Code: http.StatusForbidden}))
	assert.False(t, IsRateLimited(errors.New("other")))
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, RetryAfter(&googleapi.Error{Code: 429, Header: h}))

	assert.Zero(t, RetryAfter(&googleapi.Error{Code: 429}))
	assert.Zero(t, RetryAfter(errors.New("x")))

	bad := http.Header{}
	bad.Set("Retry-After", "soon")
	assert.Zero(t, RetryAfter(&googleapi.Error{Code: 429, Header: bad}))
}

func TestObserve_BacksOffOnRateLimit(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	l.now = func() time.Time { return now }

	h := http.Header{}
	h.Set("Retry-After", "30")
	err := observe(l, &googleapi.Error{Code: http.StatusTooManyRequests, Header: h})

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, now.Add(30*time.Second), l.retryAt)
	assert.False(t, l.Allow())
}

func TestObserve_NilError(t *testing.T) {
	assert.NoError(t, observe(NewRateLimiter(APIDrive), nil))
}
