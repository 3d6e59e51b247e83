package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"forgeseed/internal/config"
	"forgeseed/internal/controlplane"
	"forgeseed/internal/discovery"
	"forgeseed/internal/health"
	"forgeseed/internal/registrar"
	"forgeseed/internal/token"
	"forgeseed/pkg/logging"
)

// Orchestrator runs plans with one immutable configuration.
type Orchestrator struct {
	cfg           config.Config
	httpClient    *http.Client
	minterOptions []token.MinterOption
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHTTPClient makes every component use httpClient for outbound calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *Orchestrator) {
		o.httpClient = httpClient
	}
}

// WithMinterOptions passes options to the token minter.
func WithMinterOptions(opts ...token.MinterOption) Option {
	return func(o *Orchestrator) {
		o.minterOptions = append(o.minterOptions, opts...)
	}
}

// New creates an Orchestrator for cfg.
func New(cfg config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{cfg: cfg}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) client() *http.Client {
	if o.httpClient != nil {
		return o.httpClient
	}
	return &http.Client{Timeout: o.cfg.ControlPlane.RequestTimeout}
}

// Run executes plan. The returned Summary is populated as far as the run
// got, also when a fatal error is returned.
func (o *Orchestrator) Run(ctx context.Context, plan Plan) (Summary, error) {
	summary := Summary{Integration: plan.Integration}
	state := newState()

	logging.Info("Orchestrator", "=== %s Registration ===", plan.Integration)

	if err := o.waitForHealth(ctx, plan.HealthChecks); err != nil {
		return summary, &FatalError{Stage: StageHealth, Reason: err}
	}

	logging.Info("Token", "Generating admin token...")
	adminToken, err := token.NewMinter(o.cfg.Token, plan.TokenName, o.minterOptions...).Mint()
	if err != nil {
		return summary, &FatalError{Stage: StageToken, Reason: err}
	}

	var sessionToken string
	if plan.Login != nil {
		logging.Info("Orchestrator", "Logging into %s...", plan.LoginName)
		sessionToken, err = plan.Login(ctx, o.client())
		if err != nil {
			return summary, &FatalError{Stage: StageLogin, Reason: err}
		}
		logging.Info("Orchestrator", "%s token obtained", plan.LoginName)
	}

	cpOpts := []controlplane.ClientOption{controlplane.WithTimeout(o.cfg.ControlPlane.RequestTimeout)}
	if o.httpClient != nil {
		cpOpts = append(cpOpts, controlplane.WithHTTPClient(o.httpClient))
	}
	client := controlplane.NewClient(o.cfg.ControlPlane.URL, adminToken, cpOpts...)

	gateways := registrar.NewGatewayRegistrar(client)
	for i, step := range plan.Gateways {
		logging.Info("Orchestrator", "Step 1.%d: Registering %s gateway...", i+1, step.Label)
		gs, err := o.registerGateway(ctx, gateways, step, sessionToken)
		if err != nil {
			return summary, &FatalError{Stage: StageGateway, Reason: err}
		}
		if gs.Result.ID != "" {
			state.Gateways[step.Key] = gs.Result
		}
		summary.Gateways = append(summary.Gateways, gs)
	}

	logging.Info("Orchestrator", "Step 2: Tool discovery...")
	discoverer := discovery.NewDiscoverer(client)
	for i := range summary.Gateways {
		gs := &summary.Gateways[i]
		if gs.Result.ID == "" {
			continue
		}
		switch gs.Mode {
		case DiscoverPoll:
			set, err := discoverer.PollUntilFound(ctx, gs.Result.ID, plan.Gateways[i].Classifier,
				o.cfg.Discovery.Timeout, o.cfg.Discovery.Interval)
			if err != nil {
				return summary, &FatalError{Stage: StageDiscovery, Reason: err}
			}
			gs.ToolSet = set
			gs.Tools = set.IDs()
			state.ToolSets[gs.Key] = set
		case DiscoverOnce:
			gs.Tools = discoverer.CheckOnce(ctx, gs.Result.ID, gs.Label)
		default:
			continue
		}
		state.Tools[gs.Key] = gs.Tools
	}

	if len(plan.Teams) > 0 {
		logging.Info("Orchestrator", "Step 3: Provisioning teams...")
		teams := registrar.NewTeamProvisioner(client)
		for _, desc := range plan.Teams {
			result := teams.Ensure(ctx, desc)
			state.Teams[desc.Slug] = result
			summary.Teams = append(summary.Teams, result)
		}
	}

	if plan.Servers != nil {
		logging.Info("Orchestrator", "Step 4: Creating virtual servers...")
		summary.Servers = registrar.NewServerComposer(client).Ensure(ctx, plan.Servers(state))
	}

	if plan.Notes != nil {
		summary.Notes = plan.Notes(state)
	}

	logging.Info("Orchestrator", "=== %s registration complete ===", plan.Integration)
	return summary, nil
}

func (o *Orchestrator) waitForHealth(ctx context.Context, checks []HealthCheck) error {
	opts := []health.WaiterOption{health.WithProbeTimeout(o.cfg.Health.ProbeTimeout)}
	if o.httpClient != nil {
		opts = append(opts, health.WithHTTPClient(o.httpClient))
	}
	waiter := health.NewWaiter(o.cfg.Health.MaxAttempts, o.cfg.Health.Interval, opts...)

	for _, check := range checks {
		if err := waiter.Wait(ctx, check.URL, check.Name); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) registerGateway(ctx context.Context, gateways *registrar.GatewayRegistrar, step GatewayStep, sessionToken string) (GatewaySummary, error) {
	gs := GatewaySummary{
		Key:   step.Key,
		Label: step.Label,
		Mode:  step.Discovery,
		Tools: []string{},
	}

	if step.SkipReason != "" {
		logging.Info("Gateway", "%s: Skipped (%s)", step.Label, step.SkipReason)
		gs.Result = registrar.GatewayResult{Name: step.Descriptor.Name, Outcome: registrar.OutcomeSkipped}
		gs.Reason = step.SkipReason
		return gs, nil
	}

	desc := step.Descriptor
	if step.UseLoginToken {
		desc.AuthToken = sessionToken
	}

	result, err := gateways.Ensure(ctx, desc)
	gs.Result = result
	if err == nil {
		return gs, nil
	}

	var missingID *registrar.MissingIDError
	if step.Optional && !errors.As(err, &missingID) {
		logging.Warn("Gateway", "%s gateway not registered, continuing without it: %v", step.Label, err)
		gs.Reason = strings.TrimSpace(err.Error())
		return gs, nil
	}
	return gs, err
}
