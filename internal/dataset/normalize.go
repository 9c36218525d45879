// Package dataset loads the store CSV and normalizes its rows into records.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/fetcher"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/geo"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
)

// Column names as they appear in the dataset after header normalization.
const (
	colRecordID      = "Record_ID"
	colStoreID       = "Store_ID"
	colName          = "Store_Name"
	colAddress       = "Store_Street_Address"
	colCity          = "City"
	colCounty        = "County"
	colZip           = "Zip_Code"
	colStoreType     = "Store_Type"
	colHealthy       = "Is_Healthy_Store"
	colHealthScore   = "AI_Health_Score"
	colHealthReason  = "AI_Health_Reason"
	colEconomyScore  = "AI_Economy_Score"
	colEconomyReason = "AI_Economy_Reason"
	colLatitude      = "Latitude"
	colLongitude     = "Longitude"
)

// Score bounds for the AI-assigned fields.
const (
	HealthScoreMin  = 1
	HealthScoreMax  = 10
	EconomyScoreMin = 1
	EconomyScoreMax = 5
)

// NormalizeRow converts one raw CSV row into a StoreRecord. The second
// return value is false when the row must be dropped, which happens only
// when latitude or longitude fails to parse to a finite number.
func NormalizeRow(row fetcher.Row) (model.StoreRecord, bool) {
	lat, latOK := parseFinite(row[colLatitude])
	lon, lonOK := parseFinite(row[colLongitude])
	if !latOK || !lonOK {
		return model.StoreRecord{}, false
	}

	id := strings.TrimSpace(row[colRecordID])
	if id == "" {
		id = strings.TrimSpace(row[colStoreID])
	}

	county := strings.TrimSpace(row[colCounty])

	rec := model.StoreRecord{
		ID:             id,
		Name:           strings.TrimSpace(row[colName]),
		Address:        strings.TrimSpace(row[colAddress]),
		City:           strings.TrimSpace(row[colCity]),
		Borough:        strings.ToUpper(county),
		Zip:            geo.NormalizeZip(row[colZip]),
		County:         county,
		StoreType:      strings.TrimSpace(row[colStoreType]),
		IsHealthyStore: parseFlag(row[colHealthy]),
		HealthScore:    parseScore(row[colHealthScore], HealthScoreMin, HealthScoreMax),
		HealthReason:   strings.TrimSpace(row[colHealthReason]),
		EconomyScore:   parseScore(row[colEconomyScore], EconomyScoreMin, EconomyScoreMax),
		EconomyReason:  strings.TrimSpace(row[colEconomyReason]),
		Latitude:       lat,
		Longitude:      lon,
	}
	return rec, true
}

// parseFlag accepts "true", "1" and "yes" in any case; everything else,
// including a missing field, is false.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// parseScore parses an integer score and clamps it into [min, max].
// Unparsable or absent values yield nil, not zero.
func parseScore(s string, min, max int) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// Scores written back by spreadsheet tools sometimes carry a ".0" suffix.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Round(f))
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return &n
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
