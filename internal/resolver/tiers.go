package resolver

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/geo"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/geonames"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/nominatim"
)

const (
	// country restricts external lookups; the dataset is NYC-only.
	country = "us"

	// externalTimeout bounds each external tier call so a hung upstream
	// cannot stall resolution.
	externalTimeout = 10 * time.Second
)

// CentroidTier answers from the ZIP centroid index. Authoritative, so hits
// are never re-cached.
type CentroidTier struct {
	Index *geo.CentroidIndex
}

func (t *CentroidTier) Name() string { return "centroid" }

func (t *CentroidTier) Resolve(_ context.Context, zip string) TierResult {
	if c, ok := t.Index.Lookup(zip); ok {
		return Hit(c)
	}
	return Skip()
}

// BoroughTier answers from the preloaded NYC ZIP→borough table, returning
// the borough's fixed center coordinate.
type BoroughTier struct{}

func (t *BoroughTier) Name() string { return "borough" }

func (t *BoroughTier) Resolve(_ context.Context, zip string) TierResult {
	borough, ok := geo.BoroughForZip(zip)
	if !ok {
		return Skip()
	}
	// BoroughCenter falls back to the default borough's center when the
	// table names a borough we have no coordinate for.
	return Hit(geo.BoroughCenter(borough))
}

// GeocodeTier queries Nominatim by postal code and caches the first result
// into the centroid index.
type GeocodeTier struct {
	Client nominatim.Client
	Cache  *geo.CentroidIndex
}

func (t *GeocodeTier) Name() string { return "nominatim" }

func (t *GeocodeTier) Resolve(ctx context.Context, zip string) TierResult {
	ctx, cancel := context.WithTimeout(ctx, externalTimeout)
	defer cancel()

	places, err := t.Client.SearchPostalCode(ctx, zip, country)
	if err != nil {
		return Fail(err)
	}
	if len(places) == 0 {
		return Skip()
	}

	lat, lon, err := places[0].Coordinate()
	if err != nil {
		return Fail(err)
	}

	coord := model.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Finite() {
		return Fail(eris.Errorf("resolver: nominatim returned non-finite coordinate for %s", zip))
	}
	t.Cache.Put(zip, coord)
	return Hit(coord)
}

// ValidationTier confirms the ZIP exists via GeoNames and, if so, answers
// from the 3-digit prefix heuristic table, caching the result.
type ValidationTier struct {
	Client geonames.Client
	Cache  *geo.CentroidIndex
}

func (t *ValidationTier) Name() string { return "validation" }

func (t *ValidationTier) Resolve(ctx context.Context, zip string) TierResult {
	coord, ok := geo.PrefixCenter(zip)
	if !ok {
		// No heuristic for this prefix, so validation cannot help.
		return Skip()
	}

	ctx, cancel := context.WithTimeout(ctx, externalTimeout)
	defer cancel()

	exists, err := t.Client.PostalCodeExists(ctx, zip, country)
	if err != nil {
		return Fail(err)
	}
	if !exists {
		return Skip()
	}

	t.Cache.Put(zip, coord)
	return Hit(coord)
}

// NewDefault assembles the standard five-step chain over the given
// collaborators, ordered most-precise-and-free first.
func NewDefault(index *geo.CentroidIndex, nom nominatim.Client, gn geonames.Client) *Resolver {
	return New(
		&CentroidTier{Index: index},
		&BoroughTier{},
		&GeocodeTier{Client: nom, Cache: index},
		&ValidationTier{Client: gn, Cache: index},
	)
}
