package dataset

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
)

// WriteCSV writes records back out in the dataset's column layout. Used by
// the rating batch to persist AI scores.
func WriteCSV(path string, records []model.StoreRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	header := []string{
		colRecordID, colName, colAddress, colCity, colCounty, colZip,
		colStoreType, colHealthy, colHealthScore, colHealthReason,
		colEconomyScore, colEconomyReason, colLatitude, colLongitude,
	}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "dataset: write header")
	}

	for _, r := range records {
		row := []string{
			r.ID, r.Name, r.Address, r.City, r.County, r.Zip,
			r.StoreType, strconv.FormatBool(r.IsHealthyStore),
			scoreString(r.HealthScore), r.HealthReason,
			scoreString(r.EconomyScore), r.EconomyReason,
			strconv.FormatFloat(r.Latitude, 'f', -1, 64),
			strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "dataset: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "dataset: flush")
	}
	return nil
}

func scoreString(s *int) string {
	if s == nil {
		return ""
	}
	return strconv.Itoa(*s)
}
