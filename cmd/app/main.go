// File: cmd/app/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interkassa-merchant/internal/config"
	"interkassa-merchant/internal/domain/ports/adapter"
	"interkassa-merchant/internal/infra/api"
	"interkassa-merchant/internal/infra/interkassa"
	"interkassa-merchant/internal/infra/logging"
	"interkassa-merchant/internal/infra/memstore"
	"interkassa-merchant/internal/infra/metrics"
	red "interkassa-merchant/internal/infra/redis"
	"interkassa-merchant/internal/infra/sched"
	"interkassa-merchant/internal/infra/signature"
	"interkassa-merchant/internal/usecase"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "use the test key and verbose console logs")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] signing with the test key")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit, cfg.Interkassa.SignAlgo)

	// ---- Cache (Redis when configured, in-process otherwise) ----
	var (
		cache   adapter.Cache
		limiter api.Limiter
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		cache = red.NewCache(redisClient)
		if cfg.HTTP.WithdrawLimit > 0 {
			limiter = red.NewRateLimiter(redisClient, cfg.HTTP.WithdrawLimit, cfg.HTTP.WithdrawWindow)
		}
		logger.Info().Str("addr", cfg.Redis.URL).Msg("cache: redis")
	} else {
		store := memstore.New()
		store.StartSweeper(ctx, 10*time.Minute)
		cache = store
		logger.Info().Msg("cache: in-process")
	}

	// ---- Signing & payments ----
	signer, err := signature.NewSigner(cfg.Interkassa.SecretKey, cfg.Interkassa.TestKey, cfg.Interkassa.SignAlgo, cfg.Runtime.Dev)
	if err != nil {
		logger.Fatal().Err(err).Msg("signer")
	}
	paymentUC := usecase.NewPaymentUseCase(signer, cfg.Interkassa.CoID, cfg.Interkassa.SCIURL, logger)

	// ---- Gateway API (optional) ----
	var (
		withdrawalUC usecase.WithdrawalUseCase
		resources    adapter.ResourceGateway
	)
	if cfg.APIEnabled() {
		client, err := interkassa.NewClient(
			cfg.Interkassa.APIURL,
			cfg.Interkassa.APIUserID,
			cfg.Interkassa.APIUserKey,
			&http.Client{Timeout: cfg.Interkassa.Timeout},
			cfg.Interkassa.Timeout,
			logger,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("interkassa client")
		}
		accounts := interkassa.NewAccountResolver(client, cache, logger, cfg.Runtime.Dev)
		gateway := interkassa.NewGateway(client, accounts, cache, logger)
		withdrawalUC = usecase.NewWithdrawalUseCase(gateway, logger, cfg.Runtime.Dev)
		resources = gateway

		warmer := sched.NewCacheWarmer(cfg.Interkassa.WarmInterval, logger,
			sched.WarmTask{Name: "account", Load: func(ctx context.Context) error {
				_, err := accounts.BusinessAccountID(ctx)
				return err
			}},
			sched.WarmTask{Name: "currency", Load: discard(gateway.Currencies)},
			sched.WarmTask{Name: "paysystem-input", Load: discard(gateway.InputPayways)},
			sched.WarmTask{Name: "paysystem-output", Load: discard(gateway.OutputPaywaysRaw)},
		)
		go func() { _ = warmer.Run(ctx) }()
		logger.Info().Str("api_url", cfg.Interkassa.APIURL).Msg("gateway API enabled")
	} else {
		logger.Warn().Msg("interkassa.api_user_id not set; withdrawal and listing routes are disabled")
	}

	// ---- HTTP server ----
	srv := api.NewServer(paymentUC, withdrawalUC, resources, logger, api.Options{
		APIKey:         cfg.HTTP.APIKey,
		Limiter:        limiter,
		RequestTimeout: cfg.Interkassa.Timeout + 5*time.Second,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
		os.Exit(1)
	}
}

func discard(load func(context.Context) (json.RawMessage, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := load(ctx)
		return err
	}
}
