package model

import "github.com/shopspring/decimal"

// ClaimState holds the two on-chain amounts reported by the airdrop
// distributor for a single token ID, already scaled from the raw
// 18-decimal fixed-point representation.
type ClaimState struct {
	TokenID   uint64
	Claimed   decimal.Decimal
	Claimable decimal.Decimal
}

// ListingEntry is one marketplace sale offer. Price is nil when the
// marketplace returned the entry with a missing or unparsable price.
type ListingEntry struct {
	TokenID  uint64
	Price    *decimal.Decimal
	ImageURI string
}

// PriceQuote is the batch-scoped USD spot quote of the reward token.
// USD is nil when the price feed gave no usable answer.
type PriceQuote struct {
	USD *decimal.Decimal
}

// AggregatedRecord is the final per-token result of one scan. A failed
// record carries no amounts, only the reason the chain read failed.
type AggregatedRecord struct {
	TokenID           uint64
	Claimed           decimal.Decimal
	Claimable         decimal.Decimal
	TotalAccrued      decimal.Decimal
	Listing           *ListingEntry
	USDValueClaimable *decimal.Decimal
	ReadyToClaim      bool
	EverClaimed       bool
	Failed            bool
	FailureReason     string
}
