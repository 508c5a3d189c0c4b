// One-shot command-line checker: reads token IDs from -ids, runs the
// same pipeline as the server and prints the records to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/aggregator"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/chain"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/config"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/idparse"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/marketplace"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/priceoracle"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/scanner"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/utils/logger"
)

func main() {
	ids := flag.String("ids", "", "comma-separated token IDs (required)")
	sortMode := flag.String("sort", string(aggregator.SortInputOrder),
		"sort mode: input-order | by-claimable-desc")
	minClaimable := flag.String("min", "", "only show records with claimable above this")
	threshold := flag.String("threshold", "", "override the ready-to-claim threshold")
	withListings := flag.Bool("listings", false, "enrich with marketplace listings")
	withPrice := flag.Bool("price", false, "enrich with a USD quote")
	flag.Parse()

	if *ids == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	log := logger.New(slog.LevelWarn)
	cfg := config.NewBuilder(log).FromEnv().GetConfig()
	if *threshold == "" {
		*threshold = cfg.ReadyThreshold
	}

	opts, err := buildOptions(*sortMode, *minClaimable, *threshold, *withListings, *withPrice)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := logger.WithContext(context.Background(), log)
	reader, err := chain.Dial(ctx, cfg.RPCEndpoint, cfg.DistributorAddress, cfg.ReadTimeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "RPC connection error:", err)
		os.Exit(1)
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

	records, err := sc.Check(ctx, *ids, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	printRecords(records)
}

func buildOptions(sortMode, minClaimable, threshold string, withListings, withPrice bool) (aggregator.Options, error) {
	opts := aggregator.Options{
		SortMode:        aggregator.SortMode(sortMode),
		IncludeListings: withListings,
		IncludePrice:    withPrice,
	}

	var err error
	opts.ReadyThreshold, err = decimal.NewFromString(threshold)
	if err != nil {
		return opts, fmt.Errorf("bad -threshold value: %w", err)
	}
	if minClaimable != "" {
		minimum, err := decimal.NewFromString(minClaimable)
		if err != nil {
			return opts, fmt.Errorf("bad -min value: %w", err)
		}
		opts.Filter = func(r model.AggregatedRecord) bool {
			return r.Claimable.GreaterThan(minimum)
		}
	}
	return opts, nil
}

func printRecords(records []model.AggregatedRecord) {
	for _, r := range records {
		if r.Failed {
			fmt.Printf("Token ID: %d — FAILED: %s\n", r.TokenID, r.FailureReason)
			continue
		}
		line := fmt.Sprintf("Token ID: %d — Claimed: %s YEET — Claimable: %s YEET — Total: %s YEET",
			r.TokenID,
			r.Claimed.StringFixed(2),
			r.Claimable.StringFixed(2),
			r.TotalAccrued.StringFixed(2))
		if r.USDValueClaimable != nil {
			line += fmt.Sprintf(" (~$%s)", r.USDValueClaimable.StringFixed(2))
		}
		if r.Listing != nil && r.Listing.Price != nil {
			line += fmt.Sprintf(" — Listed at %s", r.Listing.Price.String())
		}
		if r.ReadyToClaim {
			line += " — READY"
		}
		fmt.Println(line)
	}
}
