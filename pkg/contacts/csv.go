package contacts

import (
	"encoding/csv"
	"errors"
	"io"

	"golang.org/x/text/encoding/charmap"
)

// ReadCSV parses ISO-8859-1 encoded CSV with a header row. Short rows are
// padded with empty values and columns beyond the header are ignored.
// Blank lines are skipped.
func ReadCSV(r io.Reader) ([]Contact, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []Contact{}, nil
	}
	if err != nil {
		return nil, errors.Join(ErrParseCSV, err)
	}

	list := []Contact{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Join(ErrParseCSV, err)
		}

		c := make(Contact, len(header))
		for i, name := range header {
			if i < len(record) {
				c[name] = record[i]
			} else {
				c[name] = ""
			}
		}
		list = append(list, c)
	}

	return list, nil
}
