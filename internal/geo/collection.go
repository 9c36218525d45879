package geo

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
)

// storeItem wraps a record index for the r-tree. Points are stored as tiny
// rects, matching how rtreego indexes point data.
type storeItem struct {
	rect *rtreego.Rect
	idx  int
}

func (s *storeItem) Bounds() rtreego.Rect {
	return *s.rect
}

// Collection is the immutable in-memory store collection plus a spatial
// index over it. Safe for unsynchronized concurrent reads after construction.
type Collection struct {
	records []model.StoreRecord
	tree    *rtreego.Rtree
}

// NewCollection builds a Collection and its r-tree. Records with non-finite
// coordinates must already have been dropped by the loader.
func NewCollection(records []model.StoreRecord) *Collection {
	tree := rtreego.NewTree(2, 2, 16)
	for i, r := range records {
		point := rtreego.Point{r.Longitude, r.Latitude}
		rect, err := rtreego.NewRect(point, []float64{1e-9, 1e-9})
		if err != nil {
			continue
		}
		tree.Insert(&storeItem{rect: &rect, idx: i})
	}
	return &Collection{records: records, tree: tree}
}

// Records returns the underlying record slice. Callers must not mutate it.
func (c *Collection) Records() []model.StoreRecord {
	return c.records
}

// Len returns the number of records in the collection.
func (c *Collection) Len() int {
	return len(c.records)
}

// candidatesWithin returns indexes of records whose location falls inside a
// bounding box that fully contains the circle of the given radius around
// origin. The exact haversine cut happens in Query.
func (c *Collection) candidatesWithin(origin model.Coordinate, radiusMeters float64) []int {
	const metersPerDegreeLat = 110574.0

	latDelta := radiusMeters / metersPerDegreeLat
	lonDelta := latDelta
	if cosLat := math.Cos(origin.Latitude * math.Pi / 180); cosLat > 0.01 {
		lonDelta = latDelta / cosLat
	}
	// Pad the box so meridian convergence never excludes an in-radius store.
	latDelta *= 1.05
	lonDelta *= 1.05

	corner := rtreego.Point{origin.Longitude - lonDelta, origin.Latitude - latDelta}
	rect, err := rtreego.NewRect(corner, []float64{2 * lonDelta, 2 * latDelta})
	if err != nil {
		// Degenerate box; fall back to a full scan.
		all := make([]int, len(c.records))
		for i := range all {
			all[i] = i
		}
		return all
	}

	matches := c.tree.SearchIntersect(rect)
	idxs := make([]int, 0, len(matches))
	for _, m := range matches {
		idxs = append(idxs, m.(*storeItem).idx)
	}
	return idxs
}
