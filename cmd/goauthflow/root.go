package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	promexport "github.com/MrEthical07/goAuthFlow/metrics/export/prometheus"
	"github.com/MrEthical07/goAuthFlow/middleware"
	"github.com/MrEthical07/goAuthFlow/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// errReported marks failures whose message was already rendered.
var errReported = errors.New("reported")

// navigationGrace is how long a command waits past a screen's redirect delay.
const navigationGrace = 500 * time.Millisecond

// app is the state shared by the commands of one invocation.
type app struct {
	configFile string
	// environ replaces the process environment in tests.
	environ map[string]string
	// transport replaces http.DefaultTransport in tests.
	transport http.RoundTripper

	cfg    cliConfig
	logger zerolog.Logger
	out    *printer

	engine *goAuthFlow.Engine
	rdb    *redis.Client
	navs   chan goAuthFlow.Navigation
}

// NewRootCmd creates the root command for the goauthflow CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goauthflow",
		Short: "goauthflow - account flows against a PHP-style auth backend",
		Long: `goauthflow drives the register, login, email verification and
password recovery screens from the terminal. The login session is kept in
the configured store between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.OutOrStdout())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file path (YAML)")
	pf.String("base-url", "", "backend base URL")
	pf.String("session-backend", "", "session store: memory, file or redis")
	pf.String("session-file", "", "session file for the file backend")
	pf.String("redis-addr", "", "redis address for the redis backend")
	pf.String("redis-prefix", "", "redis key prefix")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (console or json)")
	pf.Bool("metrics", false, "print metrics in Prometheus text format on exit")
	pf.Bool("audit", false, "log audit events")
	pf.Bool("no-color", false, "disable colored output")

	cmd.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newVerifyCmd(a),
		newResendCmd(a),
		newForgotPasswordCmd(a),
		newResetPasswordCmd(a),
		newSessionCmd(a),
		newLogoutCmd(a),
		newMockServerCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configFile, cmd.Flags(), a.environ)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.out = newPrinter(cmd.OutOrStdout(), cfg.NoColor)
	return nil
}

// open builds the engine on first use.
func (a *app) open() (*goAuthFlow.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}

	cfg := a.cfg.engineConfig()
	if cfg.Session.Backend == goAuthFlow.SessionBackendRedis {
		a.rdb = redis.NewClient(&redis.Options{Addr: a.cfg.Session.RedisAddr})
	}
	var rdb redis.UniversalClient
	if a.rdb != nil {
		rdb = a.rdb
	}
	store, err := goAuthFlow.NewSessionStore(cfg.Session, rdb)
	if err != nil {
		return nil, err
	}

	a.navs = make(chan goAuthFlow.Navigation, 4)
	httpClient := middleware.NewHTTPClient(a.transport,
		middleware.RequestID(),
		middleware.Logging(a.logger),
		middleware.Bearer(store),
	)

	b := goAuthFlow.New().
		WithConfig(cfg).
		WithHTTPClient(httpClient).
		WithSessionStore(store).
		WithLogger(a.logger).
		WithNavigator(goAuthFlow.NavigatorFunc(func(n goAuthFlow.Navigation) {
			select {
			case a.navs <- n:
			default:
			}
		}))
	if a.cfg.Audit {
		b = b.WithAuditSink(goAuthFlow.NewLogSink(a.logger))
	}
	engine, err := b.Build()
	if err != nil {
		return nil, err
	}
	a.engine = engine
	return engine, nil
}

func (a *app) teardown(w io.Writer) error {
	if a.engine == nil {
		return nil
	}
	a.engine.Close()
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.cfg.Metrics {
		return writeMetrics(w, a.engine)
	}
	return nil
}

// awaitNavigation waits for the screen's next navigation and prints it. A
// delay of zero covers the immediate navigations.
func (a *app) awaitNavigation(ctx context.Context, delay time.Duration) (goAuthFlow.Navigation, bool) {
	timer := time.NewTimer(delay + navigationGrace)
	defer timer.Stop()
	select {
	case n := <-a.navs:
		a.out.navigation(n)
		return n, true
	case <-timer.C:
		return goAuthFlow.Navigation{}, false
	case <-ctx.Done():
		return goAuthFlow.Navigation{}, false
	}
}

// report renders the screen and turns a submit error into errReported.
func (a *app) report(screen goAuthFlow.Screen, s goAuthFlow.State, err error) error {
	a.out.state(screen, s)
	if err == nil {
		return nil
	}
	if s.Error == "" {
		return err
	}
	return errors.Join(errReported, err)
}

func writeMetrics(w io.Writer, engine *goAuthFlow.Engine) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(promexport.NewCollector(engine)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}

func sessionSummary(p *printer, sess session.Session) {
	p.field("token", abbreviate(sess.Token))
	if len(sess.User) > 0 {
		p.field("user", string(sess.User))
	}
	if sess.Expiration != "" {
		p.field("expires", sess.Expiration)
	}
}

func abbreviate(s string) string {
	if len(s) <= 16 {
		return s
	}
	return s[:8] + "..." + s[len(s)-8:]
}
