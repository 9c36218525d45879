// Package geo implements the geospatial core: ZIP normalization, borough
// lookup tables, great-circle distance, the ZIP centroid index, and the
// nearby-store query engine.
package geo

import "strings"

// NormalizeZip reduces a raw postal code to a canonical 5-digit ZIP: all
// non-digit characters are stripped, the first five remaining digits are
// kept (Zip+4 inputs lose the suffix), and shorter values are left-padded
// with zeros. Empty or digit-free input yields "".
func NormalizeZip(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 5 {
				break
			}
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	for len(digits) < 5 {
		digits = "0" + digits
	}
	return digits
}
