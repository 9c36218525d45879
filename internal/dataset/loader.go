package dataset

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/fetcher"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
)

// LoadStats summarizes a dataset load.
type LoadStats struct {
	Rows    int // data rows read, header excluded
	Dropped int // rows discarded for unparsable coordinates
}

// Load reads the store CSV at path and returns the normalized records.
// A missing or unreadable file is an error; the caller treats it as fatal
// and must not start serving.
func Load(ctx context.Context, path string) ([]model.StoreRecord, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rowCh, errCh := fetcher.StreamRows(ctx, f, fetcher.CSVOptions{
		LazyQuotes: true,
		TrimSpace:  true,
	})

	var (
		records []model.StoreRecord
		stats   LoadStats
	)
	for row := range rowCh {
		stats.Rows++
		rec, ok := NormalizeRow(row)
		if !ok {
			stats.Dropped++
			continue
		}
		records = append(records, rec)
	}
	if err := <-errCh; err != nil {
		return nil, stats, eris.Wrapf(err, "dataset: read %s", path)
	}

	zap.L().Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", stats.Rows),
		zap.Int("stores", len(records)),
		zap.Int("dropped", stats.Dropped),
	)
	return records, stats, nil
}
