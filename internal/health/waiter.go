// Package health blocks until a service answers its health probe.
package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"forgeseed/pkg/logging"
)

const (
	// DefaultProbeTimeout bounds a single health probe.
	DefaultProbeTimeout = 5 * time.Second
)

// UnavailableError is returned when a service never reported healthy
// within the attempt budget. Nothing downstream can succeed after it.
type UnavailableError struct {
	Name     string
	URL      string
	Attempts int
	Waited   time.Duration
	// LastErr is the last transport error, if the last attempt had one.
	LastErr error
}

// Error returns a user-friendly error message.
func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("%s not healthy after %d attempts (%s) at %s", e.Name, e.Attempts, e.Waited, e.URL)
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

// Unwrap returns the last transport error.
func (e *UnavailableError) Unwrap() error {
	return e.LastErr
}

// Is allows errors.Is() to work with wrapped errors.
func (e *UnavailableError) Is(target error) bool {
	_, ok := target.(*UnavailableError)
	return ok
}

// Waiter polls a URL at a fixed interval until it returns 200 OK.
type Waiter struct {
	httpClient  *http.Client
	maxAttempts int
	interval    time.Duration
}

// WaiterOption configures a Waiter.
type WaiterOption func(*Waiter)

// WithHTTPClient sets a custom HTTP client. Its timeout bounds each probe.
func WithHTTPClient(httpClient *http.Client) WaiterOption {
	return func(w *Waiter) {
		w.httpClient = httpClient
	}
}

// WithProbeTimeout sets the per-probe timeout of the default HTTP client.
func WithProbeTimeout(timeout time.Duration) WaiterOption {
	return func(w *Waiter) {
		if timeout > 0 {
			w.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewWaiter creates a Waiter that makes at most maxAttempts probes,
// sleeping interval between them.
func NewWaiter(maxAttempts int, interval time.Duration, opts ...WaiterOption) *Waiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	w := &Waiter{
		httpClient:  &http.Client{Timeout: DefaultProbeTimeout},
		maxAttempts: maxAttempts,
		interval:    interval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Wait returns nil the first time url answers with exactly 200. Transport
// errors and any other status count as "not yet ready". After maxAttempts
// failures it returns *UnavailableError.
func (w *Waiter) Wait(ctx context.Context, url, name string) error {
	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		ok, err := w.probe(ctx, url)
		if ok {
			logging.Info("Health", "%s is healthy", name)
			return nil
		}
		lastErr = err

		logging.Info("Health", "Waiting for %s... (%d/%d)", name, attempt, w.maxAttempts)
		if attempt == w.maxAttempts {
			break
		}
		if err := sleep(ctx, w.interval); err != nil {
			return err
		}
	}

	unavailable := &UnavailableError{
		Name:     name,
		URL:      url,
		Attempts: w.maxAttempts,
		Waited:   time.Since(start).Round(time.Millisecond),
		LastErr:  lastErr,
	}
	logging.Error("Health", lastErr, "%s not healthy after %d attempts", name, w.maxAttempts)
	return unavailable
}

func (w *Waiter) probe(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		logging.Debug("Health", "Probe %s failed: %v", url, err)
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		logging.Debug("Health", "Probe %s returned %d", url, resp.StatusCode)
		return false, nil
	}
	return true, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
