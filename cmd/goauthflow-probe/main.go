// Command goauthflow-probe measures backend and session store latency under
// concurrency. Without --base-url it probes an in-process mock backend, and
// without --redis-addr an in-process miniredis.
package main

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"time"

	"github.com/MrEthical07/goAuthFlow/api"
	"github.com/MrEthical07/goAuthFlow/internal/mockapi"
	"github.com/MrEthical07/goAuthFlow/middleware"
	"github.com/MrEthical07/goAuthFlow/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

type options struct {
	baseURL     string
	email       string
	password    string
	redisAddr   string
	prefix      string
	concurrency int
	ops         int
	verbose     bool
}

func main() {
	var opts options
	fs := pflag.NewFlagSet("goauthflow-probe", pflag.ExitOnError)
	fs.StringVar(&opts.baseURL, "base-url", "", "backend base URL; empty probes an in-process mock")
	fs.StringVar(&opts.email, "email", "probe@example.com", "account used by the login phase")
	fs.StringVar(&opts.password, "password", "probe-secret", "password of --email")
	fs.StringVar(&opts.redisAddr, "redis-addr", "", "redis address; if empty, GOAUTHFLOW_REDIS_ADDR or miniredis is used")
	fs.StringVar(&opts.prefix, "prefix", "probe", "session key prefix")
	fs.IntVar(&opts.concurrency, "concurrency", 32, "number of concurrent workers")
	fs.IntVar(&opts.ops, "ops", 2000, "operations per phase")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log every backend call")
	_ = fs.Parse(os.Args[1:])

	if opts.concurrency <= 0 || opts.ops <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency and ops must be > 0")
		os.Exit(2)
	}

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	baseURL := opts.baseURL
	if baseURL == "" {
		mock := mockapi.New(mockapi.Options{})
		if err := mock.Seed("Probe", opts.email, "900000000", opts.password); err != nil {
			return err
		}
		srv := httptest.NewServer(mock)
		defer srv.Close()
		baseURL = srv.URL
		fmt.Printf("using in-process mock backend at %s\n", baseURL)
	}

	endpoints, err := api.NewEndpoints(baseURL)
	if err != nil {
		return err
	}
	client := api.NewClient(endpoints,
		api.WithLogger(logger),
		api.WithHTTPClient(middleware.NewHTTPClient(nil, middleware.RequestID())),
	)

	rdb, cleanup, err := openRedis(opts.redisAddr)
	if err != nil {
		return err
	}
	defer cleanup()
	store := session.NewRedisStore(rdb, opts.prefix, "probe", time.Hour)

	loginStats, token := runLoginPhase(ctx, client, opts)
	sessionStats := runSessionPhase(ctx, store, token, opts)

	fmt.Println("---- results ----")
	printStats("login", loginStats)
	printStats("session", sessionStats)
	return nil
}

func openRedis(addr string) (redis.UniversalClient, func(), error) {
	if addr == "" {
		addr = os.Getenv("GOAUTHFLOW_REDIS_ADDR")
	}
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		fmt.Printf("using redis at %s\n", addr)
		return client, func() { _ = client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	fmt.Printf("using miniredis at %s\n", mr.Addr())
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}
