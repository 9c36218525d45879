// Package resolver turns a ZIP code into a coordinate through an ordered
// chain of tiers: local centroid data, the borough table, and external
// lookups as a last resort. Local data always wins over network calls, and
// a failing external dependency never blocks the tiers after it.
package resolver

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/geo"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
)

// ErrNotFound is returned when every tier has been exhausted.
var ErrNotFound = eris.New("zip not found")

// Outcome tags the result of a single tier attempt.
type Outcome int

const (
	// OutcomeHit means the tier produced a coordinate; the chain stops.
	OutcomeHit Outcome = iota
	// OutcomeSkip means the tier has no answer for this ZIP; try the next.
	OutcomeSkip
	// OutcomeFail means the tier errored (network, parse). The error is
	// logged and the chain continues; it never propagates to the caller.
	OutcomeFail
)

// TierResult is the tagged result of one tier attempt.
type TierResult struct {
	Outcome Outcome
	Coord   model.Coordinate
	Err     error
}

// Hit builds a successful TierResult.
func Hit(c model.Coordinate) TierResult {
	return TierResult{Outcome: OutcomeHit, Coord: c}
}

// Skip builds a no-answer TierResult.
func Skip() TierResult {
	return TierResult{Outcome: OutcomeSkip}
}

// Fail builds a failed TierResult carrying the tier's error.
func Fail(err error) TierResult {
	return TierResult{Outcome: OutcomeFail, Err: err}
}

// Tier is one strategy in the resolution chain. Implementations receive an
// already-normalized 5-digit ZIP.
type Tier interface {
	Name() string
	Resolve(ctx context.Context, zip string) TierResult
}

// Resolver runs tiers in order until one hits.
type Resolver struct {
	tiers []Tier
}

// New creates a Resolver with the given tier order.
func New(tiers ...Tier) *Resolver {
	return &Resolver{tiers: tiers}
}

// Resolve normalizes the ZIP and walks the tier chain. An input that
// normalizes to empty is invalid; exhausting all tiers yields ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, rawZip string) (model.Coordinate, error) {
	zip := geo.NormalizeZip(rawZip)
	if zip == "" {
		return model.Coordinate{}, eris.Wrap(geo.ErrInvalidInput, "resolver: zip has no digits")
	}

	for _, t := range r.tiers {
		res := t.Resolve(ctx, zip)
		switch res.Outcome {
		case OutcomeHit:
			zap.L().Debug("zip resolved",
				zap.String("zip", zip),
				zap.String("tier", t.Name()),
			)
			return res.Coord, nil
		case OutcomeFail:
			zap.L().Warn("zip tier failed, trying next",
				zap.String("zip", zip),
				zap.String("tier", t.Name()),
				zap.Error(res.Err),
			)
		}
	}

	return model.Coordinate{}, eris.Wrapf(ErrNotFound, "resolver: zip %s", zip)
}
