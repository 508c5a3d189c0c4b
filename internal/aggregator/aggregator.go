// Package aggregator joins per-token chain claim state with
// marketplace listings and a USD quote into one result set.
package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/aggregator/internal/workerpool"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/utils/logger"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/utils/semaphore"
)

type SortMode string

const (
	SortInputOrder      SortMode = "input-order"
	SortByClaimableDesc SortMode = "by-claimable-desc"
)

type ListingSource interface {
	FetchListings(ctx context.Context, collectionKey string) ([]model.ListingEntry, error)
}

type PriceOracle interface {
	FetchUSDPrice(ctx context.Context, tokenAddress string) (*decimal.Decimal, error)
}

// Options configures one aggregation request. Filter applies to
// successful records only; failed records are always retained so the
// caller can see what could not be read.
type Options struct {
	ReadyThreshold  decimal.Decimal
	SortMode        SortMode
	Filter          func(model.AggregatedRecord) bool
	IncludeListings bool
	IncludePrice    bool
}

type Config struct {
	CollectionKey      string
	RewardTokenAddress string
	MaxConcurrentReads uint64
	RetryAttempts      uint64
	RetryInterval      time.Duration
}

type Aggregator struct {
	reader   workerpool.ClaimReader
	listings ListingSource
	oracle   PriceOracle
	cfg      Config
}

func New(reader workerpool.ClaimReader, listings ListingSource, oracle PriceOracle, cfg Config) *Aggregator {
	if cfg.MaxConcurrentReads == 0 {
		cfg.MaxConcurrentReads = model.DefaultWorkerCount
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = model.DefaultRetryAttempts
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = model.DefaultRetryInterval
	}
	return &Aggregator{
		reader:   reader,
		listings: listings,
		oracle:   oracle,
		cfg:      cfg,
	}
}

// Aggregate produces exactly one record per input ID. Chain reads fan
// out through a bounded worker pool into a fixed-index slot array, so
// input order is stable regardless of completion order; listings and
// the USD quote are fetched once per batch, concurrently with the
// pool. A failed read taints only its own record.
func (a *Aggregator) Aggregate(ctx context.Context, ids []uint64, opts Options) []model.AggregatedRecord {
	slots := make([]workerpool.Result, len(ids))
	jobs := make(chan workerpool.Job, len(ids))
	for i, id := range ids {
		jobs <- workerpool.Job{Slot: i, TokenID: id}
	}
	close(jobs)

	var (
		enrichWG sync.WaitGroup
		listings map[uint64]model.ListingEntry
		quote    model.PriceQuote
	)
	if opts.IncludeListings {
		enrichWG.Add(1)
		go func() {
			defer enrichWG.Done()
			listings = a.fetchListings(ctx)
		}()
	}
	if opts.IncludePrice {
		enrichWG.Add(1)
		go func() {
			defer enrichWG.Done()
			quote = a.fetchQuote(ctx)
		}()
	}

	pool := workerpool.New(
		a.reader,
		semaphore.New(a.cfg.MaxConcurrentReads),
		int(a.cfg.MaxConcurrentReads),
	)
	pool.RetryAttempts = a.cfg.RetryAttempts
	pool.RetryInterval = a.cfg.RetryInterval
	pool.Run(ctx, jobs, slots)
	enrichWG.Wait()

	records := make([]model.AggregatedRecord, 0, len(ids))
	for i, id := range ids {
		records = append(records, buildRecord(id, slots[i], listings, quote, opts))
	}
	records = applyFilter(records, opts.Filter)
	sortRecords(records, opts.SortMode)
	return records
}

func (a *Aggregator) fetchListings(ctx context.Context) map[uint64]model.ListingEntry {
	entries, err := a.listings.FetchListings(ctx, a.cfg.CollectionKey)
	if err != nil {
		logger.FromContext(ctx).LogAttrs(ctx,
			slog.LevelWarn,
			"listings unavailable, records proceed without them",
			slog.Any(model.KeyLoggerError, err),
		)
		return nil
	}
	byToken := make(map[uint64]model.ListingEntry, len(entries))
	for _, e := range entries {
		if _, ok := byToken[e.TokenID]; !ok {
			byToken[e.TokenID] = e
		}
	}
	return byToken
}

func (a *Aggregator) fetchQuote(ctx context.Context) model.PriceQuote {
	usd, err := a.oracle.FetchUSDPrice(ctx, a.cfg.RewardTokenAddress)
	if err != nil {
		logger.FromContext(ctx).LogAttrs(ctx,
			slog.LevelWarn,
			"USD quote unavailable, records proceed without it",
			slog.Any(model.KeyLoggerError, err),
		)
		return model.PriceQuote{}
	}
	return model.PriceQuote{USD: usd}
}

func buildRecord(
	id uint64,
	res workerpool.Result,
	listings map[uint64]model.ListingEntry,
	quote model.PriceQuote,
	opts Options,
) model.AggregatedRecord {
	if !res.Done {
		return model.AggregatedRecord{
			TokenID:       id,
			Failed:        true,
			FailureReason: "scan cancelled before the read was dispatched",
		}
	}
	if res.Err != nil {
		return model.AggregatedRecord{
			TokenID:       id,
			Failed:        true,
			FailureReason: res.Err.Error(),
		}
	}

	record := model.AggregatedRecord{
		TokenID:      id,
		Claimed:      res.State.Claimed,
		Claimable:    res.State.Claimable,
		TotalAccrued: res.State.Claimed.Add(res.State.Claimable),
		ReadyToClaim: res.State.Claimable.GreaterThanOrEqual(opts.ReadyThreshold),
		EverClaimed:  res.State.Claimed.GreaterThan(decimal.Zero),
	}
	if listing, ok := listings[id]; ok {
		record.Listing = &listing
	}
	if quote.USD != nil {
		usdValue := res.State.Claimable.Mul(*quote.USD)
		record.USDValueClaimable = &usdValue
	}
	return record
}

func applyFilter(records []model.AggregatedRecord, filter func(model.AggregatedRecord) bool) []model.AggregatedRecord {
	if filter == nil {
		return records
	}
	kept := make([]model.AggregatedRecord, 0, len(records))
	for _, r := range records {
		if r.Failed || filter(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// sortRecords leaves input order untouched unless claimable-descending
// is requested: successful records by claimable desc with ties broken
// by token ID asc, failed records after all successful ones in their
// original relative order.
func sortRecords(records []model.AggregatedRecord, mode SortMode) {
	if mode != SortByClaimableDesc {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Failed != b.Failed {
			return !a.Failed
		}
		if a.Failed {
			return false
		}
		if cmp := a.Claimable.Cmp(b.Claimable); cmp != 0 {
			return cmp > 0
		}
		return a.TokenID < b.TokenID
	})
}
