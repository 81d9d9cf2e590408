// Command catalogd runs the catalog HTTP API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/catalogapi/api"
	"github.com/jonwraymond/catalogapi/auth"
	"github.com/jonwraymond/catalogapi/cache"
	"github.com/jonwraymond/catalogapi/catalog"
	"github.com/jonwraymond/catalogapi/config"
	"github.com/jonwraymond/catalogapi/health"
	"github.com/jonwraymond/catalogapi/observe"
	"github.com/jonwraymond/catalogapi/resilience"
)

// version is stamped by the build; "dev" otherwise.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "catalogd:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		return err
	}

	obs, err := observe.NewObserver(ctx, cfg.ObserverConfig(version))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()
	logger := obs.Logger()

	creds := auth.NewMemoryCredentialStore()
	seeded, err := cfg.Credentials()
	if err != nil {
		return err
	}
	for i := range seeded {
		if err := creds.Add(&seeded[i]); err != nil {
			return fmt.Errorf("seed credentials: %w", err)
		}
	}

	authCfg := cfg.IssuerConfig()
	if err := authCfg.Validate(); err != nil {
		return err
	}

	store := catalog.NewMemoryStore()

	agg := health.NewAggregator()
	agg.Register("store", health.NewStoreChecker(store))
	agg.Register("credentials", health.NewCredentialChecker(creds))

	opts := api.Options{
		Handlers:      api.NewHandlers(store, auth.NewIssuer(authCfg, creds)),
		Authenticator: auth.NewBearerAuthenticator(authCfg),
		Authorizer:    auth.NewPolicyAuthorizer(),
		Health:        agg,
	}

	if mw, err := observe.MiddlewareFromObserver(obs); err == nil {
		opts.Observe = mw
	} else {
		return err
	}
	if cfg.Cache.Enabled {
		opts.Cache = cache.NewMiddleware(cache.NewMemoryCache(), cache.NewRequestKeyer(), cfg.Cache.TTL)
	}
	if cfg.RateLimit.Enabled {
		opts.LoginLimiter = resilience.NewClientLimiter(resilience.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		})
	}

	router, err := api.NewRouter(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "server listening",
			observe.Field{Key: "addr", Value: cfg.Server.Addr},
			observe.Field{Key: "version", Value: version},
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
