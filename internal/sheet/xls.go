package sheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"

	"AcctEventSQL/internal/cell"
)

var ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// isLegacyWorkbook detects BIFF (.xls) workbooks, which live in an OLE2
// compound file rather than a zip container.
func isLegacyWorkbook(data []byte) bool {
	return bytes.HasPrefix(data, ole2Signature)
}

// readLegacyXLS reads the first sheet of a .xls workbook. The BIFF reader
// only exposes formatted strings, so every present cell is text.
func readLegacyXLS(data []byte) (m Matrix, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("xls: %v", r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if book.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	ws := book.GetSheet(0)
	if ws == nil {
		return nil, errors.New("workbook has no sheets")
	}

	m = make(Matrix, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := sheetRow(ws, i)
		if row == nil {
			m = append(m, nil)
			continue
		}
		last := row.LastCol()
		vals := make([]cell.Value, last)
		for j := row.FirstCol(); j < last; j++ {
			if s := row.Col(j); s != "" {
				vals[j] = cell.TextValue(s)
			}
		}
		m = append(m, vals)
	}
	return m, nil
}

// sheetRow returns row i, or nil when the sheet has no record for it.
// WorkSheet.Row dereferences the missing row and panics in that case.
func sheetRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}
