package dto

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/aggregator"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
)

type CheckRequest struct {
	IDs             string      `json:"ids"`
	SortMode        string      `json:"sort_mode,omitempty"`
	MinClaimable    json.Number `json:"min_claimable,omitempty"`
	ReadyThreshold  json.Number `json:"ready_threshold,omitempty"`
	IncludeListings bool        `json:"include_listings,omitempty"`
	IncludePrice    bool        `json:"include_price,omitempty"`
}

func (r *CheckRequest) IsValid() error {
	var emptyIDsErr error
	if strings.TrimSpace(r.IDs) == "" {
		emptyIDsErr = errors.New("ids is empty")
	}

	var sortModeErr error
	switch aggregator.SortMode(r.SortMode) {
	case "", aggregator.SortInputOrder, aggregator.SortByClaimableDesc:
	default:
		sortModeErr = errors.New("unknown sort_mode")
	}
	return errors.Join(emptyIDsErr, sortModeErr)
}

type ListingResponse struct {
	Price json.Number `json:"price,omitempty"`
	Image string      `json:"image,omitempty"`
}

type RecordResponse struct {
	TokenID           uint64           `json:"token_id"`
	Claimed           json.Number      `json:"claimed,omitempty"`
	Claimable         json.Number      `json:"claimable,omitempty"`
	TotalAccrued      json.Number      `json:"total_accrued,omitempty"`
	Listing           *ListingResponse `json:"listing,omitempty"`
	USDValueClaimable json.Number      `json:"usd_value_claimable,omitempty"`
	ReadyToClaim      bool             `json:"ready_to_claim"`
	EverClaimed       bool             `json:"ever_claimed"`
	Failed            bool             `json:"failed,omitempty"`
	FailureReason     string           `json:"failure_reason,omitempty"`
}

func NewRecordResponse(r model.AggregatedRecord) RecordResponse {
	resp := RecordResponse{
		TokenID:       r.TokenID,
		ReadyToClaim:  r.ReadyToClaim,
		EverClaimed:   r.EverClaimed,
		Failed:        r.Failed,
		FailureReason: r.FailureReason,
	}
	if r.Failed {
		return resp
	}

	resp.Claimed = json.Number(r.Claimed.String())
	resp.Claimable = json.Number(r.Claimable.String())
	resp.TotalAccrued = json.Number(r.TotalAccrued.String())
	if r.Listing != nil {
		listing := &ListingResponse{Image: r.Listing.ImageURI}
		if r.Listing.Price != nil {
			listing.Price = json.Number(r.Listing.Price.String())
		}
		resp.Listing = listing
	}
	if r.USDValueClaimable != nil {
		resp.USDValueClaimable = json.Number(r.USDValueClaimable.String())
	}
	return resp
}
