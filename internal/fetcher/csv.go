// Package fetcher parses tabular and XML data streams for the dataset
// loader and the external service clients.
package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// Row is a single CSV record keyed by its (normalized) header column name.
type Row map[string]string

var headerWhitespace = regexp.MustCompile(`\s+`)

// normalizeHeader collapses embedded newlines and repeated whitespace in a
// column name to single spaces and strips surrounding spaces.
func normalizeHeader(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")
	return strings.TrimSpace(headerWhitespace.ReplaceAllString(name, " "))
}

// StreamRows reads a headered CSV and sends each record as a Row keyed by
// column name. Caller must consume the returned row channel. Errors are sent
// on the error channel. Both channels are closed when processing completes.
func StreamRows(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan Row, <-chan error) {
	rowCh := make(chan Row, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // allow variable fields

		var header []string
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			if header == nil {
				header = make([]string, len(record))
				for i, name := range record {
					header[i] = normalizeHeader(name)
				}
				continue
			}

			row := make(Row, len(header))
			for i, name := range header {
				if i < len(record) {
					row[name] = record[i]
				}
			}

			select {
			case rowCh <- row:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled sending row")
				return
			}
		}
	}()

	return rowCh, errCh
}
