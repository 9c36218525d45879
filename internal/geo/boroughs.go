package geo

import "github.com/MaximilianIsing/SNAPwise-NYC/internal/model"

// Borough names as they appear in the dataset (upper-cased county values).
const (
	BoroughManhattan    = "MANHATTAN"
	BoroughBrooklyn     = "BROOKLYN"
	BoroughQueens       = "QUEENS"
	BoroughBronx        = "BRONX"
	BoroughStatenIsland = "STATEN ISLAND"
)

// DefaultBorough is used when a ZIP maps to a borough we have no center for.
const DefaultBorough = BoroughManhattan

// boroughCenters holds one fixed representative coordinate per borough.
var boroughCenters = map[string]model.Coordinate{
	BoroughManhattan:    {Latitude: 40.7831, Longitude: -73.9712},
	BoroughBrooklyn:     {Latitude: 40.6782, Longitude: -73.9442},
	BoroughQueens:       {Latitude: 40.7282, Longitude: -73.7949},
	BoroughBronx:        {Latitude: 40.8448, Longitude: -73.8648},
	BoroughStatenIsland: {Latitude: 40.5795, Longitude: -74.1502},
}

// BoroughCenter returns the fixed center coordinate for a borough name,
// falling back to the default borough's center for unknown names.
func BoroughCenter(borough string) model.Coordinate {
	if c, ok := boroughCenters[borough]; ok {
		return c
	}
	return boroughCenters[DefaultBorough]
}

// zipBoroughs maps every NYC ZIP to its borough.
var zipBoroughs = buildZipBoroughs()

func buildZipBoroughs() map[string]string {
	m := make(map[string]string, 220)

	add := func(borough string, zips ...int) {
		for _, z := range zips {
			m[zip5(z)] = borough
		}
	}
	addRange := func(borough string, from, to int) {
		for z := from; z <= to; z++ {
			m[zip5(z)] = borough
		}
	}

	addRange(BoroughManhattan, 10001, 10014)
	addRange(BoroughManhattan, 10016, 10019)
	addRange(BoroughManhattan, 10021, 10040)
	add(BoroughManhattan, 10044, 10065, 10069, 10075, 10103, 10110, 10111,
		10112, 10115, 10119, 10128, 10152, 10153, 10154, 10162, 10165,
		10167, 10168, 10169, 10170, 10171, 10172, 10173, 10174, 10177,
		10199, 10271, 10278, 10279, 10280, 10282)

	addRange(BoroughStatenIsland, 10301, 10314)

	addRange(BoroughBronx, 10451, 10475)

	addRange(BoroughBrooklyn, 11201, 11239)

	add(BoroughQueens, 11004, 11005, 11109, 11351, 11359, 11371, 11430, 11697)
	addRange(BoroughQueens, 11101, 11106)
	addRange(BoroughQueens, 11354, 11358)
	addRange(BoroughQueens, 11360, 11370)
	addRange(BoroughQueens, 11372, 11379)
	add(BoroughQueens, 11385)
	addRange(BoroughQueens, 11411, 11423)
	addRange(BoroughQueens, 11426, 11429)
	addRange(BoroughQueens, 11432, 11436)
	addRange(BoroughQueens, 11691, 11694)

	return m
}

func zip5(z int) string {
	buf := []byte{'0', '0', '0', '0', '0'}
	for i := 4; i >= 0 && z > 0; i-- {
		buf[i] = byte('0' + z%10)
		z /= 10
	}
	return string(buf)
}

// BoroughForZip returns the borough for an NYC ZIP, if known.
func BoroughForZip(zip string) (string, bool) {
	b, ok := zipBoroughs[zip]
	return b, ok
}

// prefixCenters is a coarse fallback mapping from the first three ZIP digits
// to a representative coordinate. It is only consulted after an external
// service has confirmed the ZIP exists.
var prefixCenters = map[string]model.Coordinate{
	"100": boroughCenters[BoroughManhattan],
	"101": boroughCenters[BoroughManhattan],
	"102": boroughCenters[BoroughManhattan],
	"103": boroughCenters[BoroughStatenIsland],
	"104": boroughCenters[BoroughBronx],
	"110": boroughCenters[BoroughQueens],
	"111": boroughCenters[BoroughQueens],
	"112": boroughCenters[BoroughBrooklyn],
	"113": boroughCenters[BoroughQueens],
	"114": boroughCenters[BoroughQueens],
	"116": boroughCenters[BoroughQueens],
}

// PrefixCenter returns the heuristic coordinate for a ZIP's 3-digit prefix.
func PrefixCenter(zip string) (model.Coordinate, bool) {
	if len(zip) < 3 {
		return model.Coordinate{}, false
	}
	c, ok := prefixCenters[zip[:3]]
	return c, ok
}
