package service

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/aggregator"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/api/handlers"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/chain"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/config"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/idparse"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/marketplace"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/priceoracle"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/router"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/scanner"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/utils/logger"
)

func initService(log *slog.Logger) (*chi.Mux, string) {
	cfg := config.NewBuilder(log).
		FromEnv().
		FromFlags().
		GetConfig()

	const connectTO = 5 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), connectTO)
	defer cancel()
	reader, err := chain.Dial(ctx,
		cfg.RPCEndpoint, cfg.DistributorAddress, cfg.ReadTimeout)
	if err != nil {
		log.LogAttrs(context.Background(),
			slog.LevelError,
			"failed to start service: RPC connection error",
			slog.Any(model.KeyLoggerError, err),
		)
		return nil, ""
	}

	threshold, err := decimal.NewFromString(cfg.ReadyThreshold)
	if err != nil {
		log.LogAttrs(context.Background(),
			slog.LevelError,
			"failed to start service: bad ready threshold",
			slog.Any(model.KeyLoggerError, err),
		)
		return nil, ""
	}

	agg := aggregator.New(
		reader,
		marketplace.New(cfg.MarketplaceAddr),
		priceoracle.New(cfg.PriceFeedAddr),
		aggregator.Config{
			CollectionKey:      cfg.CollectionKey,
			RewardTokenAddress: cfg.RewardTokenAddress,
			MaxConcurrentReads: cfg.MaxConcurrentReads,
			RetryAttempts:      cfg.RetryAttempts,
		})
	sc := scanner.New(idparse.New(idparse.DefaultDelimiter), agg)

	rr := router.New(cfg, log)
	rr.SetRouter(&struct {
		*handlers.CheckHandler
		*handlers.HealthHandler
	}{
		CheckHandler:  handlers.NewCheckHandler(sc, threshold, log),
		HealthHandler: handlers.NewHealthHandler(),
	})

	return rr.GetRouter(), cfg.RunAddr
}

func RunServer() {
	_ = godotenv.Load()
	log := logger.New(logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	mux, addr := initService(log)
	if mux == nil {
		log.LogAttrs(context.TODO(),
			slog.LevelError,
			"failed to init service",
		)
		return
	}

	err := http.ListenAndServe(addr, mux)
	if err != nil {
		log.LogAttrs(context.TODO(),
			slog.LevelError,
			"listen and serve error",
			slog.Any(model.KeyLoggerError, err),
		)
	}
}
