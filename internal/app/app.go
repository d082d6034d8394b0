// Package app wires the console's collaborators from a Config: persisted state, session,
// locale, telemetry, the route guard, the HTTP client with its interceptor chain, the auth flow
// and the resource repositories.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	auditrepo "admin-console/desktop/internal/audit/repository"
	"admin-console/desktop/internal/authflow"
	"admin-console/desktop/internal/config"
	"admin-console/desktop/internal/device"
	identityservice "admin-console/desktop/internal/identity/service"
	incidentrepo "admin-console/desktop/internal/incident/repository"
	"admin-console/desktop/internal/locale"
	"admin-console/desktop/internal/navigation"
	"admin-console/desktop/internal/policy/engine"
	rolerepo "admin-console/desktop/internal/role/repository"
	"admin-console/desktop/internal/session"
	statisticsrepo "admin-console/desktop/internal/statistics/repository"
	"admin-console/desktop/internal/storage"
	"admin-console/desktop/internal/telemetry"
	telemetrydomain "admin-console/desktop/internal/telemetry/domain"
	"admin-console/desktop/internal/telemetry/loki"
	oteladapter "admin-console/desktop/internal/telemetry/otel"
	"admin-console/desktop/internal/transport"
	"admin-console/desktop/internal/transport/interceptors"
	userrepo "admin-console/desktop/internal/user/repository"
	"admin-console/desktop/internal/version"
	workspacerepo "admin-console/desktop/internal/workspace/repository"
)

// ServiceName identifies the console to the telemetry backends.
const ServiceName = "admin-console"

// persistedDomains are the storage domains that survive a restart.
var persistedDomains = []string{"auth", "prefs"}

// Options overrides collaborators, mainly for tests. The zero value is production wiring.
type Options struct {
	// Devices supplies the IP/MAC headers. Nil means the local network interfaces.
	Devices device.Provider
	// Transport is the innermost round tripper. Nil means http.DefaultTransport.
	Transport http.RoundTripper
	// OnLogin is the navigation fallback when no UI is mounted. May be nil.
	OnLogin func(path string)
	// Clock replaces time.Now in the auth flow.
	Clock func() time.Time
	// Storage replaces the configured persistent backend.
	Storage storage.KV
}

// App holds the wired console.
type App struct {
	Config    *config.Config
	State     storage.KV
	Session   *session.Manager
	Locale    *locale.Resolver
	Navigator *navigation.Navigator
	Policy    *engine.OPAEvaluator
	Events    telemetry.EventEmitter
	Client    *transport.Client
	Auth      *identityservice.AuthService
	Flow      *authflow.Coordinator

	Users      userrepo.Repository
	Workspaces workspacerepo.Repository
	Roles      rolerepo.Repository
	AuditLogs  auditrepo.Repository
	Incidents  incidentrepo.Repository
	Statistics statisticsrepo.Repository

	closers []func(context.Context) error
}

// New builds an App from cfg. Close must be called when done.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config is nil")
	}
	a := &App{Config: cfg}

	persistent := opts.Storage
	if persistent == nil {
		kv, closeKV, err := storage.Open(storage.Options{
			Backend:     cfg.StateBackend,
			Path:        cfg.StatePath,
			Secret:      cfg.StateSecret,
			RedisAddr:   cfg.RedisAddr,
			RedisPrefix: cfg.RedisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("app: open state: %w", err)
		}
		persistent = kv
		a.closers = append(a.closers, func(context.Context) error { return closeKV() })
	}
	a.State = storage.NewAllowList(persistent, storage.NewMemoryKV(), persistedDomains...)

	a.Session = session.NewManager(a.State)
	if err := a.Session.Restore(ctx); err != nil {
		slog.Warn("app: restore session failed; starting signed out", "err", err)
	}
	a.Locale = locale.NewResolver(a.State, cfg.DefaultLocale)
	a.Navigator = navigation.NewNavigator(opts.OnLogin)

	providers, err := oteladapter.NewProviders(ctx, oteladapter.Options{
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
		ServiceName:    ServiceName,
		ServiceVersion: version.String(),
		Environment:    cfg.Env,
	})
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("app: telemetry: %w", err)
	}
	a.closers = append(a.closers, func(ctx context.Context) error {
		drainCtx, cancel := context.WithTimeout(ctx, telemetry.ShutdownDrainDuration)
		defer cancel()
		if err := telemetry.Drain(drainCtx); err != nil {
			slog.Warn("app: telemetry events still pending at shutdown", "err", err)
		}
		return providers.Shutdown(ctx)
	})
	emitters := []telemetry.EventEmitter{oteladapter.NewEventEmitter(providers.LoggerProvider)}
	if cfg.LokiURL != "" {
		lc, err := loki.NewClient(cfg.LokiURL, nil)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("app: loki: %w", err)
		}
		emitters = append(emitters, lc)
	}
	a.Events = telemetry.Multi(emitters...)
	a.Session.OnLogout(func() {
		telemetry.EmitAsync(a.Events, ctx, telemetrydomain.NewEvent(telemetrydomain.TypeSession, map[string]string{"transition": "logout"}))
	})

	modules, err := engine.LoadModules(cfg.PolicyDir)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("app: policy: %w", err)
	}
	a.Policy = engine.NewOPAEvaluator(ctx, modules)
	if err := a.Policy.HealthCheck(ctx); err != nil {
		slog.Warn("app: policy engine unhealthy", "err", err)
	}

	devices := opts.Devices
	if devices == nil {
		devices = device.NewLocalProvider()
	}
	client, err := transport.NewClient(transport.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.Timeout(),
		Transport: opts.Transport,
		Interceptors: []interceptors.Interceptor{
			interceptors.Telemetry(providers.TracerProvider, providers.MeterProvider),
			interceptors.Decorate(a.Session, a.Locale, devices),
			interceptors.Guard(a.Policy, a.Session.Role),
			interceptors.SessionExpiry(a.Session, a.Navigator),
		},
	})
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Client = client

	a.Auth = identityservice.NewAuthService(client, a.Session)
	flowOpts := []authflow.Option{authflow.WithWindow(cfg.OTPCountdown()), authflow.WithEvents(a.Events)}
	if opts.Clock != nil {
		flowOpts = append(flowOpts, authflow.WithClock(opts.Clock))
	}
	a.Flow = authflow.New(a.Auth, a.Navigator, flowOpts...)

	a.Users = userrepo.NewHTTPRepository(client)
	a.Workspaces = workspacerepo.NewHTTPRepository(client)
	a.Roles = rolerepo.NewHTTPRepository(client)
	a.AuditLogs = auditrepo.NewHTTPRepository(client)
	a.Incidents = incidentrepo.NewHTTPRepository(client)
	a.Statistics = statisticsrepo.NewHTTPRepository(client)

	slog.Debug("app: ready", "api", client.BaseURL(), "state_backend", cfg.StateBackend, "policy_compiled", a.Policy.Compiled())
	return a, nil
}

// Close flushes telemetry and releases the state backend, in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
