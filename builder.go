package goAuthFlow

import (
	"context"

	"github.com/MrEthical07/goAuthFlow/api"
	"github.com/MrEthical07/goAuthFlow/internal/flows"
	"github.com/MrEthical07/goAuthFlow/internal/schedule"
	"github.com/MrEthical07/goAuthFlow/jwt"
	"github.com/MrEthical07/goAuthFlow/session"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Builder assembles an Engine. A Builder is single use.
type Builder struct {
	config Config

	httpClient api.Doer
	store      session.Store
	redis      redis.UniversalClient
	navigator  Navigator
	auditSink  AuditSink
	logger     zerolog.Logger

	built bool
}

// New returns a Builder holding DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
		logger: zerolog.Nop(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the backend base URL.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient sets the transport of the API client, typically an
// *http.Client whose Transport carries the middleware package decorators.
func (b *Builder) WithHTTPClient(d api.Doer) *Builder {
	b.httpClient = d
	return b
}

// WithSessionStore sets the session store, overriding the configured backend.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithRedis supplies the client used by the redis session backend.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithNavigator sets who performs navigations.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithAuditSink sets the audit sink and enables the audit dispatcher.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithLogger sets the logger shared by the engine and the API client.
func (b *Builder) WithLogger(l zerolog.Logger) *Builder {
	b.logger = l
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	if !enabled {
		b.config.Metrics.EnableLatencyHistograms = false
	}
	return b
}

// Build validates the configuration and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoints, err := api.NewEndpoints(cfg.API.BaseURL)
	if err != nil {
		return nil, err
	}

	store, err := b.sessionStore(cfg.Session)
	if err != nil {
		return nil, err
	}

	navigator := b.navigator
	if navigator == nil {
		navigator = NavigatorFunc(nil)
	}

	engine := &Engine{
		config:       cloneConfig(cfg),
		store:        store,
		navigator:    navigator,
		logger:       b.logger,
		metrics:      NewMetrics(cfg.Metrics),
		newScheduler: func() schedule.Scheduler { return schedule.New() },
	}
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink, b.logger)

	clientOpts := []api.ClientOption{
		api.WithLogger(b.logger),
		api.WithObserver(engine.metrics),
		api.WithDefaultHeaders(cfg.API.Headers),
	}
	if b.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(b.httpClient))
	}
	engine.client = api.NewClient(endpoints, clientOpts...)
	engine.flows = flows.New(engine.flowDeps())

	b.built = true
	b.logger.Debug().
		Str("base_url", endpoints.Base()).
		Str("session_backend", cfg.Session.Backend).
		Bool("audit", engine.audit != nil).
		Msg("engine built")

	return engine, nil
}

func (b *Builder) sessionStore(cfg SessionConfig) (session.Store, error) {
	if b.store != nil {
		return b.store, nil
	}
	return NewSessionStore(cfg, b.redis)
}

// NewSessionStore opens the backend cfg selects. rdb is only used, and then
// required, by the redis backend.
func NewSessionStore(cfg SessionConfig, rdb redis.UniversalClient) (session.Store, error) {
	switch cfg.Backend {
	case SessionBackendRedis:
		if rdb == nil {
			return nil, ErrRedisRequired
		}
		return session.NewRedisStore(rdb, cfg.RedisPrefix, cfg.RedisNamespace, cfg.RedisTTL), nil
	case SessionBackendFile:
		return session.NewFileStore(cfg.FilePath), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

// flowDeps wires the flow dependency sets to the engine's resources.
func (e *Engine) flowDeps() flows.Deps {
	hooks := flows.Hooks{
		MetricInc: func(id int) { e.metricInc(MetricID(id)) },
		EmitAudit: e.emitAudit,
		Logger:    e.logger,
	}
	errs := flowErrors()
	outcome := func(success, rejected, invalid, failure MetricID) flows.OutcomeMetrics {
		return flows.OutcomeMetrics{
			Success:  int(success),
			Rejected: int(rejected),
			Invalid:  int(invalid),
			Failed:   int(failure),
		}
	}

	return flows.Deps{
		Register: flows.RegisterDeps{
			Register: func(ctx context.Context, req api.RegisterRequest) api.Result {
				return e.client.Call(ctx, api.EndpointRegister, req)
			},
			SetPendingEmail: func(ctx context.Context, email string) error {
				return session.SetPendingEmail(ctx, e.store, email)
			},
			Fallback: FallbackRegister,
			Event:    AuditEventRegister,
			Metrics:  outcome(MetricRegisterSuccess, MetricRegisterRejected, MetricRegisterInvalid, MetricRegisterFailure),
			Errors:   errs,
			Hooks:    hooks,
		},
		Login: flows.LoginDeps{
			Login: func(ctx context.Context, req api.LoginRequest) api.Result {
				return e.client.Call(ctx, api.EndpointLogin, req)
			},
			SaveLogin: func(ctx context.Context, s session.Session) error {
				return session.SaveLogin(ctx, e.store, s)
			},
			ExpirationFromToken: jwt.ExpirationString,
			Fallback:            FallbackLogin,
			Event:               AuditEventLogin,
			Metrics:             outcome(MetricLoginSuccess, MetricLoginRejected, MetricLoginInvalid, MetricLoginFailure),
			Errors:              errs,
			Hooks:               hooks,
		},
		VerifyEmail: flows.VerifyEmailDeps{
			VerifyEmail: func(ctx context.Context, req api.VerifyEmailRequest) api.Result {
				return e.client.Call(ctx, api.EndpointVerifyEmail, req)
			},
			ClearPendingEmail: func(ctx context.Context) error {
				return session.ClearPendingEmail(ctx, e.store)
			},
			Fallback: FallbackVerifyEmail,
			Event:    AuditEventVerifyEmail,
			Metrics:  outcome(MetricVerifyEmailSuccess, MetricVerifyEmailRejected, MetricVerifyEmailInvalid, MetricVerifyEmailFailure),
			Errors:   errs,
			Hooks:    hooks,
		},
		Resend: flows.ResendDeps{
			ResendVerification: func(ctx context.Context, email string) api.Result {
				return e.client.Call(ctx, api.EndpointResendVerification, api.EmailRequest{Email: email})
			},
			Fallback:        FallbackResend,
			SuccessFallback: NoticeCodeResent,
			Event:           AuditEventResendVerification,
			Metrics:         outcome(MetricResendSuccess, MetricResendRejected, MetricResendInvalid, MetricResendFailure),
			Errors:          errs,
			Hooks:           hooks,
		},
		ForgotPassword: flows.ForgotPasswordDeps{
			ForgotPassword: func(ctx context.Context, email string) api.Result {
				return e.client.Call(ctx, api.EndpointForgotPassword, api.EmailRequest{Email: email})
			},
			Fallback: FallbackForgotPassword,
			Event:    AuditEventForgotPassword,
			Metrics:  outcome(MetricForgotPasswordSuccess, MetricForgotPasswordRejected, MetricForgotPasswordInvalid, MetricForgotPasswordFailure),
			Errors:   errs,
			Hooks:    hooks,
		},
		ResetPassword: flows.ResetPasswordDeps{
			ResetPassword: func(ctx context.Context, req api.ResetPasswordRequest) api.Result {
				return e.client.Call(ctx, api.EndpointResetPassword, req)
			},
			Fallback: FallbackResetPassword,
			Event:    AuditEventResetPassword,
			Metrics:  outcome(MetricResetPasswordSuccess, MetricResetPasswordRejected, MetricResetPasswordInvalid, MetricResetPasswordFailure),
			Errors:   errs,
			Hooks:    hooks,
		},
		Logout: flows.LogoutDeps{
			ClearSession: func(ctx context.Context) error {
				return session.Clear(ctx, e.store)
			},
			Event:  AuditEventLogout,
			Metric: int(MetricLogout),
			Errors: errs,
			Hooks:  hooks,
		},
	}
}
