package http_test

import (
	"context"
	gohttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/pkg/http"
)

func TestGetReturnsBody(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		w.Header().Set("Content-Type", "application/x-sqlite3")
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL).Send()
	require.NoError(t, err)
	require.NoError(t, resp.Throw())
	assert.Equal(t, []byte("payload"), resp.Raw)
	assert.Equal(t, "application/x-sqlite3", resp.Header("Content-Type"))
}

func TestThrowOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		w.WriteHeader(gohttp.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL).Send()
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Error(t, resp.Throw())
}

func TestLimitRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		_, _ = w.Write(make([]byte, 32))
	}))
	defer srv.Close()

	_, err := http.Get(srv.URL).Limit(16).Send()
	assert.ErrorIs(t, err, http.ErrBodyTooLarge)

	resp, err := http.Get(srv.URL).Limit(32).Send()
	require.NoError(t, err)
	assert.Len(t, resp.Raw, 32)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	var calls atomic.Int32
	http.DefaultClient.Transport = roundTripFunc(func(r *gohttp.Request) (*gohttp.Response, error) {
		calls.Add(1)
		return nil, context.DeadlineExceeded
	})
	defer http.ResetTransport()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := http.Get("http://seed.invalid/x").WithContext(ctx).Retry(3, time.Millisecond).Send()
	assert.Error(t, err)
	assert.LessOrEqual(t, calls.Load(), int32(1))
}

type roundTripFunc func(*gohttp.Request) (*gohttp.Response, error)

func (f roundTripFunc) RoundTrip(r *gohttp.Request) (*gohttp.Response, error) { return f(r) }
