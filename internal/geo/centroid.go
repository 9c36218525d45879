package geo

import (
	"sync"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
)

// CentroidIndex maps a 5-digit ZIP to a representative coordinate. At build
// time each entry is the arithmetic mean of the coordinates of all stores
// sharing that ZIP; additional entries may be appended later as resolver
// cache writes. Entries are never evicted.
type CentroidIndex struct {
	mu     sync.RWMutex
	coords map[string]model.Coordinate
}

// BuildCentroids groups records by non-empty ZIP and computes the mean
// latitude and longitude per group. The result replaces any prior index.
func BuildCentroids(records []model.StoreRecord) *CentroidIndex {
	type acc struct {
		lat, lon float64
		n        int
	}
	sums := make(map[string]*acc)
	for _, r := range records {
		if r.Zip == "" {
			continue
		}
		a, ok := sums[r.Zip]
		if !ok {
			a = &acc{}
			sums[r.Zip] = a
		}
		a.lat += r.Latitude
		a.lon += r.Longitude
		a.n++
	}

	coords := make(map[string]model.Coordinate, len(sums))
	for zip, a := range sums {
		coords[zip] = model.Coordinate{
			Latitude:  a.lat / float64(a.n),
			Longitude: a.lon / float64(a.n),
		}
	}
	return &CentroidIndex{coords: coords}
}

// Lookup returns the coordinate for a ZIP, if present.
func (idx *CentroidIndex) Lookup(zip string) (model.Coordinate, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	c, ok := idx.coords[zip]
	return c, ok
}

// Put caches a coordinate for a ZIP discovered through an external lookup.
// Concurrent writers for the same key compute the same value, so
// last-write-wins is fine.
func (idx *CentroidIndex) Put(zip string, c model.Coordinate) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.coords[zip] = c
}

// Len returns the number of indexed ZIPs.
func (idx *CentroidIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.coords)
}
