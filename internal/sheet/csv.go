package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"AcctEventSQL/internal/cell"
)

// readCSV parses delimited text. Blank fields stay as "" here; turning them
// into null is the extractor's job. Blank physical lines are kept as a
// one-cell row so that matrix indexes follow physical line numbers.
func readCSV(data []byte) (Matrix, error) {
	// UTF-8 by default; a BOM switches to UTF-8 or UTF-16 and is dropped.
	decoded := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	r := csv.NewReader(decoded)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var m Matrix
	nextLine := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		start, _ := r.FieldPos(0)
		for ; nextLine < start; nextLine++ {
			m = append(m, []cell.Value{cell.TextValue("")})
		}

		row := make([]cell.Value, len(rec))
		for i, field := range rec {
			row[i] = cell.TextValue(field)
		}
		m = append(m, row)

		last := len(rec) - 1
		end, _ := r.FieldPos(last)
		nextLine = end + strings.Count(rec[last], "\n") + 1
	}
	return m, nil
}
