package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/aggregator"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/api/dto"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
)

type Scanner interface {
	Check(ctx context.Context, raw string, opts aggregator.Options) ([]model.AggregatedRecord, error)
}

type CheckHandler struct {
	scanner          Scanner
	defaultThreshold decimal.Decimal
	log              *slog.Logger
}

func NewCheckHandler(scanner Scanner, defaultThreshold decimal.Decimal, log *slog.Logger) *CheckHandler {
	return &CheckHandler{
		scanner:          scanner,
		defaultThreshold: defaultThreshold,
		log:              log,
	}
}

func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if err := req.IsValid(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts, err := h.buildOptions(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.scanner.Check(r.Context(), req.IDs, opts)
	if err != nil {
		var inputErr *serviceerrs.InvalidInputError
		switch {
		case errors.As(err, &inputErr):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, serviceerrs.ErrSuperseded):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.log.LogAttrs(r.Context(),
				slog.LevelError,
				"scan failed",
				slog.Any(model.KeyLoggerError, err),
			)
			http.Error(w,
				http.StatusText(http.StatusInternalServerError),
				http.StatusInternalServerError)
		}
		return
	}

	resp := make([]dto.RecordResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, dto.NewRecordResponse(record))
	}

	w.Header().Set(model.HeaderContentType, "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to encode the response",
			slog.Any(model.KeyLoggerError, err),
		)
	}
}

func (h *CheckHandler) buildOptions(req *dto.CheckRequest) (aggregator.Options, error) {
	opts := aggregator.Options{
		ReadyThreshold:  h.defaultThreshold,
		SortMode:        aggregator.SortInputOrder,
		IncludeListings: req.IncludeListings,
		IncludePrice:    req.IncludePrice,
	}
	if req.SortMode != "" {
		opts.SortMode = aggregator.SortMode(req.SortMode)
	}
	if req.ReadyThreshold != "" {
		threshold, err := decimal.NewFromString(req.ReadyThreshold.String())
		if err != nil {
			return opts, errors.New("ready_threshold is not a number")
		}
		opts.ReadyThreshold = threshold
	}
	if req.MinClaimable != "" {
		minClaimable, err := decimal.NewFromString(req.MinClaimable.String())
		if err != nil {
			return opts, errors.New("min_claimable is not a number")
		}
		opts.Filter = func(r model.AggregatedRecord) bool {
			return r.Claimable.GreaterThan(minClaimable)
		}
	}
	return opts, nil
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
