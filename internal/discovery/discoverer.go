package discovery

import (
	"context"
	"fmt"
	"time"

	"forgeseed/internal/controlplane"
	"forgeseed/pkg/logging"
)

const (
	// DefaultInterval is the pause between two tool listings.
	DefaultInterval = 2 * time.Second

	// progressEvery controls how often polling progress is logged.
	progressEvery = 5
)

// NotDiscoveredError is returned when the required tool did not appear
// before the discovery timeout.
type NotDiscoveredError struct {
	GatewayID  string
	Capability string
	Attempts   int
	Timeout    time.Duration
	// LastErr is the listing error of the final attempt, if any.
	LastErr error
}

// Error returns a user-friendly error message.
func (e *NotDiscoveredError) Error() string {
	msg := fmt.Sprintf("%s tool not discovered for gateway %s after %d attempts (%s)",
		e.Capability, e.GatewayID, e.Attempts, e.Timeout)
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

// Unwrap returns the last listing error.
func (e *NotDiscoveredError) Unwrap() error {
	return e.LastErr
}

// Is allows errors.Is() to work with wrapped errors.
func (e *NotDiscoveredError) Is(target error) bool {
	_, ok := target.(*NotDiscoveredError)
	return ok
}

// ToolSet holds the ids found by PollUntilFound. Optional is empty when the
// optional capability was not present yet.
type ToolSet struct {
	Required string
	Optional string
}

// IDs returns the non-empty ids, required first.
func (s ToolSet) IDs() []string {
	ids := make([]string, 0, 2)
	if s.Required != "" {
		ids = append(ids, s.Required)
	}
	if s.Optional != "" {
		ids = append(ids, s.Optional)
	}
	return ids
}

// Discoverer lists tools through the control plane.
type Discoverer struct {
	client *controlplane.Client
	now    func() time.Time
}

// DiscovererOption configures a Discoverer.
type DiscovererOption func(*Discoverer)

// WithClock overrides the clock used for elapsed time in progress logs.
func WithClock(now func() time.Time) DiscovererOption {
	return func(d *Discoverer) {
		d.now = now
	}
}

// NewDiscoverer creates a Discoverer backed by client.
func NewDiscoverer(client *controlplane.Client, opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Discoverer) gatewayTools(ctx context.Context, gatewayID string) (total int, owned []controlplane.Tool, err error) {
	tools, err := d.client.ListTools(ctx)
	if err != nil {
		return 0, nil, err
	}
	for _, tool := range tools {
		if tool.GatewayID == gatewayID {
			owned = append(owned, tool)
		}
	}
	return len(tools), owned, nil
}

// PollUntilFound lists tools every interval until one owned by gatewayID
// matches the required rule, making timeout/interval attempts at most.
// The optional capability is returned when it is already present but is
// never waited for.
//
// Listing errors are swallowed and retried. They are logged together with
// the progress line on the first attempt and every few attempts after.
// When the required tool never appears the result is *NotDiscoveredError;
// cancellation of ctx returns ctx.Err().
func (d *Discoverer) PollUntilFound(ctx context.Context, gatewayID string, classifier Classifier, timeout, interval time.Duration) (ToolSet, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	attempts := int(timeout / interval)
	if attempts < 1 {
		attempts = 1
	}

	logging.Info("Discovery", "Waiting for tool discovery (timeout: %s)...", timeout)

	start := d.now()
	var lastErr error
	for i := 1; i <= attempts; i++ {
		total, owned, err := d.gatewayTools(ctx, gatewayID)
		if err != nil && ctx.Err() != nil {
			return ToolSet{}, ctx.Err()
		}
		lastErr = err

		if err == nil {
			var set ToolSet
			for _, tool := range owned {
				switch classifier.Classify(tool.Name) {
				case RoleRequired:
					if set.Required == "" {
						set.Required = tool.ID
					}
				case RoleOptional:
					if set.Optional == "" {
						set.Optional = tool.ID
					}
				}
			}
			if set.Required != "" {
				logging.Info("Discovery", "Found %s tool: %s", classifier.Required.Label, set.Required)
				if set.Optional != "" {
					logging.Info("Discovery", "Found %s tool: %s", classifier.Optional.Label, set.Optional)
				}
				return set, nil
			}
		}

		if (i-1)%progressEvery == 0 {
			elapsed := d.now().Sub(start).Round(time.Second)
			if err != nil {
				logging.Warn("Discovery", "Polling error: %v (%s)", err, elapsed)
			} else {
				logging.Info("Discovery", "Polling: %d total tools, %d for gateway %s (%s)",
					total, len(owned), logging.TruncateID(gatewayID, 8), elapsed)
			}
		}

		if i == attempts {
			break
		}
		if err := sleep(ctx, interval); err != nil {
			return ToolSet{}, err
		}
	}

	return ToolSet{}, &NotDiscoveredError{
		GatewayID:  gatewayID,
		Capability: classifier.Required.Label,
		Attempts:   attempts,
		Timeout:    timeout,
		LastErr:    lastErr,
	}
}

// CheckOnce lists the tools owned by gatewayID a single time and returns
// their ids. A listing error is logged and yields an empty result. An empty
// result is reported as informational.
func (d *Discoverer) CheckOnce(ctx context.Context, gatewayID, label string) []string {
	_, owned, err := d.gatewayTools(ctx, gatewayID)
	if err != nil {
		logging.Warn("Discovery", "Tool check for %s failed: %v", label, err)
		return []string{}
	}

	if len(owned) == 0 {
		logging.Info("Discovery", "No tools yet for %s (expected, requires OAuth consent)", label)
		return []string{}
	}

	ids := make([]string, 0, len(owned))
	for _, tool := range owned {
		logging.Info("Discovery", "  %s (%s)", tool.Name, logging.TruncateID(tool.ID, 8))
		ids = append(ids, tool.ID)
	}
	logging.Info("Discovery", "%s: %d tools discovered", label, len(ids))
	return ids
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
