package fetcher

import (
	"encoding/xml"
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// DecodeElements collects every XML element whose local name matches
// elementName into a slice of T. T must carry the appropriate xml tags.
// Responses here are small (GeoNames postal-code searches), so the whole
// result set is materialized rather than streamed.
func DecodeElements[T any](r io.Reader, elementName string) ([]T, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	var items []T
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "xml: read token")
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != elementName {
			continue
		}

		var item T
		if err := decoder.DecodeElement(&item, &se); err != nil {
			return nil, eris.Wrapf(err, "xml: decode %s element", elementName)
		}
		items = append(items, item)
	}
}

// charsetReader lets the decoder handle documents that declare a non-UTF-8
// encoding in their prolog.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "xml: unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
