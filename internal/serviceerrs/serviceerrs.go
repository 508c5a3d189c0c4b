package serviceerrs

import (
	"errors"
	"fmt"
)

var ErrSemaphoreTimeoutExceeded = errors.New("semaphore acquire timeout exceeded")

// ErrSuperseded is returned for a scan that was cancelled because a
// newer scan replaced it.
var ErrSuperseded = errors.New("scan superseded by a newer request")

// InvalidInputError rejects the whole identifier batch before any
// network call is made.
type InvalidInputError struct {
	Token  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Token == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: token %q: %s", e.Token, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	_, ok := target.(*InvalidInputError)
	return ok
}

type ChainReadKind int

const (
	ChainReadTransient ChainReadKind = iota
	ChainReadPermanent
)

func (k ChainReadKind) String() string {
	if k == ChainReadTransient {
		return "transient"
	}
	return "permanent"
}

// ChainReadError is scoped to a single token ID and never aborts the
// sibling reads of a batch.
type ChainReadError struct {
	TokenID uint64
	Call    string
	Kind    ChainReadKind
	Err     error
}

func (e *ChainReadError) Error() string {
	return fmt.Sprintf("chain read %s(%d) failed (%s): %v",
		e.Call, e.TokenID, e.Kind, e.Err)
}

func (e *ChainReadError) Unwrap() error {
	return e.Err
}

func (e *ChainReadError) Transient() bool {
	return e.Kind == ChainReadTransient
}

// ListingFetchError is batch-scoped: the aggregator degrades to absent
// listings instead of failing records.
type ListingFetchError struct {
	Collection string
	Err        error
}

func (e *ListingFetchError) Error() string {
	return fmt.Sprintf("failed to fetch listings for collection %q: %v",
		e.Collection, e.Err)
}

func (e *ListingFetchError) Unwrap() error {
	return e.Err
}

// PriceFetchError is batch-scoped and cosmetic: the USD quote degrades
// to absent.
type PriceFetchError struct {
	Token string
	Err   error
}

func (e *PriceFetchError) Error() string {
	return fmt.Sprintf("failed to fetch USD price for token %s: %v",
		e.Token, e.Err)
}

func (e *PriceFetchError) Unwrap() error {
	return e.Err
}
