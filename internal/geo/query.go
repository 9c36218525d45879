package geo

import (
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
)

// ErrInvalidInput marks malformed caller-supplied input, such as a
// non-finite query origin or an empty ZIP. Surfaced to the caller directly.
var ErrInvalidInput = eris.New("invalid input")

// Defaults applied when a query option is missing or unusable.
const (
	DefaultRadiusMeters = 1609.0 // about one mile
	DefaultLimit        = 200

	// UnlimitedLimit removes the result cap.
	UnlimitedLimit = -1
)

// HealthFilter is the tri-state healthy-store filter.
type HealthFilter int

const (
	// HealthAny applies no health filtering.
	HealthAny HealthFilter = iota
	// HealthyOnly keeps only stores flagged as healthy retailers.
	HealthyOnly
	// UnhealthyOnly keeps only stores not flagged as healthy.
	UnhealthyOnly
)

// ParseHealthFilter maps a query-string value onto a HealthFilter.
// "" and "any" mean no filter; anything else is matched as a boolean.
func ParseHealthFilter(s string) HealthFilter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return HealthyOnly
	case "false", "0", "no":
		return UnhealthyOnly
	default:
		return HealthAny
	}
}

// QueryOptions control filtering and truncation of a nearby-store query.
// Zero values select the documented defaults.
type QueryOptions struct {
	RadiusMeters float64 // non-positive or non-finite means DefaultRadiusMeters
	Health       HealthFilter
	StoreType    string // case-insensitive exact match; "" disables
	Limit        int    // <= 0 means DefaultLimit, UnlimitedLimit removes the cap
}

// Query returns stores within the radius of origin, filtered, sorted by
// ascending distance (ties keep dataset order), and truncated to the limit.
// A non-finite origin is rejected rather than silently treated as (0,0).
func (c *Collection) Query(origin model.Coordinate, opts QueryOptions) ([]model.StoreWithDistance, error) {
	if !origin.Finite() {
		return nil, eris.Wrap(ErrInvalidInput, "query: origin is not a finite coordinate")
	}

	radius := opts.RadiusMeters
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		radius = DefaultRadiusMeters
	}

	limit := opts.Limit
	if limit != UnlimitedLimit && limit <= 0 {
		limit = DefaultLimit
	}

	idxs := c.candidatesWithin(origin, radius)
	sort.Ints(idxs) // keep dataset order so the distance sort ties stay stable

	results := make([]model.StoreWithDistance, 0, len(idxs))
	for _, i := range idxs {
		rec := c.records[i]
		switch opts.Health {
		case HealthyOnly:
			if !rec.IsHealthyStore {
				continue
			}
		case UnhealthyOnly:
			if rec.IsHealthyStore {
				continue
			}
		}
		if opts.StoreType != "" && !strings.EqualFold(opts.StoreType, rec.StoreType) {
			continue
		}

		d := DistanceMeters(origin, rec.Coord())
		if d > radius {
			continue
		}
		results = append(results, model.StoreWithDistance{StoreRecord: rec, DistanceMeters: d})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})

	if limit != UnlimitedLimit && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
