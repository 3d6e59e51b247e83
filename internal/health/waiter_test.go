package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWaiter(t *testing.T) {
	w := NewWaiter(0, time.Second)
	assert.Equal(t, 1, w.maxAttempts)
	assert.Equal(t, DefaultProbeTimeout, w.httpClient.Timeout)

	w = NewWaiter(3, time.Second, WithProbeTimeout(time.Second))
	assert.Equal(t, time.Second, w.httpClient.Timeout)
}

func TestWaiter_Wait(t *testing.T) {
	t.Run("healthy on first attempt", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := NewWaiter(3, time.Millisecond).Wait(context.Background(), server.URL+"/health", "Gateway")
		assert.NoError(t, err)
	})

	t.Run("healthy after non-200 responses", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := NewWaiter(5, time.Millisecond).Wait(context.Background(), server.URL, "MindsDB")
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("only exactly 200 counts", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		err := NewWaiter(2, time.Millisecond).Wait(context.Background(), server.URL, "Gateway")
		require.Error(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("exhausted budget is UnavailableError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		start := time.Now()
		err := NewWaiter(3, 10*time.Millisecond).Wait(context.Background(), url, "Gateway")
		require.Error(t, err)

		var unavailable *UnavailableError
		require.True(t, errors.As(err, &unavailable))
		assert.Equal(t, "Gateway", unavailable.Name)
		assert.Equal(t, 3, unavailable.Attempts)
		assert.Error(t, unavailable.LastErr)
		// Two sleeps between three attempts.
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
		assert.ErrorIs(t, err, &UnavailableError{})
	})

	t.Run("context cancellation stops waiting", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := NewWaiter(1000, 5*time.Millisecond).Wait(ctx, server.URL, "Gateway")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
