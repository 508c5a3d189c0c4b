// Package scanner wires the identifier parser and the aggregator into
// the one entry point the presentation layer calls.
package scanner

import (
	"context"
	"sync"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/aggregator"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
)

type IdentifierParser interface {
	Parse(raw string) ([]uint64, error)
}

type Aggregator interface {
	Aggregate(ctx context.Context, ids []uint64, opts aggregator.Options) []model.AggregatedRecord
}

type Scanner struct {
	parser IdentifierParser
	agg    Aggregator

	mu         sync.Mutex
	generation uint64
	cancelPrev context.CancelFunc
}

func New(parser IdentifierParser, agg Aggregator) *Scanner {
	return &Scanner{
		parser: parser,
		agg:    agg,
	}
}

// Check validates the raw input and runs one aggregation. Starting a
// new check cancels the previous one still in flight; the superseded
// call returns ErrSuperseded and its partial results are discarded
// instead of overwriting newer state.
func (s *Scanner) Check(ctx context.Context, raw string, opts aggregator.Options) ([]model.AggregatedRecord, error) {
	ids, err := s.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel, gen := s.supersede(ctx)
	defer s.finish(cancel, gen)

	records := s.agg.Aggregate(reqCtx, ids, opts)
	if reqCtx.Err() != nil && ctx.Err() == nil {
		return nil, serviceerrs.ErrSuperseded
	}
	return records, nil
}

func (s *Scanner) supersede(parent context.Context) (context.Context, context.CancelFunc, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancelPrev = cancel
	s.generation++
	return ctx, cancel, s.generation
}

func (s *Scanner) finish(cancel context.CancelFunc, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cancel()
	if s.generation == gen {
		s.cancelPrev = nil
	}
}
