// Package sheet turns uploaded bytes into a row-major matrix of cell values.
package sheet

import (
	"path/filepath"
	"strings"

	"AcctEventSQL/internal/apperr"
	"AcctEventSQL/internal/cell"
)

// Kind is the declared source kind of an upload.
type Kind string

const (
	KindSheet Kind = "xlsx"
	KindCSV   Kind = "csv"
)

// Matrix is row-major; row 0 is the header row. Rows may have different
// lengths and a missing cell is equivalent to a null one.
type Matrix [][]cell.Value

// At returns the cell at (row, col) or a null value when out of range.
func (m Matrix) At(row, col int) cell.Value {
	if row < 0 || row >= len(m) || col < 0 || col >= len(m[row]) {
		return cell.NullValue()
	}
	return m[row][col]
}

// KindForFilename maps an upload name to its source kind by extension.
func KindForFilename(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return KindSheet, true
	case ".csv":
		return KindCSV, true
	}
	return "", false
}

// Read parses data according to kind. Any failure is an
// apperr.ErrUnreadableInput rejection and no partial matrix is returned.
func Read(data []byte, kind Kind) (Matrix, error) {
	var (
		m   Matrix
		err error
	)
	switch kind {
	case KindSheet:
		if isLegacyWorkbook(data) {
			m, err = readLegacyXLS(data)
		} else {
			m, err = readXLSX(data)
		}
	case KindCSV:
		m, err = readCSV(data)
	default:
		return nil, apperr.InvalidParameter("unsupported file kind: " + string(kind))
	}
	if err != nil {
		return nil, apperr.Unreadable(err)
	}
	return m, nil
}
