// Package extract turns a raw sheet matrix into the canonical row set and
// its display projection.
package extract

import (
	"fmt"

	"AcctEventSQL/internal/catalog"
	"AcctEventSQL/internal/cell"
	"AcctEventSQL/internal/sheet"
)

type Result struct {
	Kind        sheet.Kind   `json:"kind"`
	Rows        []Row        `json:"rows"`
	DisplayRows []DisplayRow `json:"displayRows"`
	Columns     []string     `json:"columns"`
}

// Extract reads data as kind and extracts it.
func Extract(data []byte, kind sheet.Kind) (*Result, error) {
	m, err := sheet.Read(data, kind)
	if err != nil {
		return nil, err
	}
	return FromMatrix(m, kind), nil
}

// FromMatrix walks every row after the header. Rows whose catalog cells are
// all null are dropped; ExcelRow always follows the physical position.
func FromMatrix(m sheet.Matrix, kind sheet.Kind) *Result {
	res := &Result{
		Kind:        kind,
		Rows:        []Row{},
		DisplayRows: []DisplayRow{},
		Columns:     catalog.Names(),
	}
	for r := 1; r < len(m); r++ {
		row := Row{
			ExcelRow:      r + 1,
			TableSelector: normalize(m.At(r, catalog.SelectorOffset), kind),
		}
		for i := range row.Values {
			row.Values[i] = normalize(m.At(r, catalog.FirstColumnOffset+i), kind)
		}
		if row.empty() {
			continue
		}
		res.Rows = append(res.Rows, row)
		res.DisplayRows = append(res.DisplayRows, displayOf(&row))
	}
	return res
}

func normalize(v cell.Value, kind sheet.Kind) cell.Value {
	if v.IsNull() {
		return cell.NullValue()
	}
	if kind == sheet.KindCSV {
		if s, ok := v.Text(); ok && s == "" {
			return cell.NullValue()
		}
	}
	return v
}

// Edit applies one grid edit to row i of both the canonical and the display
// set: an empty text clears the cell, anything else is stored as typed.
func (res *Result) Edit(i int, column, text string) error {
	if i < 0 || i >= len(res.Rows) || i >= len(res.DisplayRows) {
		return fmt.Errorf("row %d out of range", i)
	}
	v := cell.FromEdit(text)
	if err := res.Rows[i].Set(column, v); err != nil {
		return err
	}
	idx, _ := catalog.Index(column)
	res.DisplayRows[i].Values[idx] = v
	return nil
}
