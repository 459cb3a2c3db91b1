package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"AcctEventSQL/internal/catalog"
	"AcctEventSQL/internal/cell"
)

// Row is one canonical extracted row, the source of truth that the client
// edits and sends back for SQL generation.
type Row struct {
	ExcelRow      int
	TableSelector cell.Value
	Values        [catalog.Count]cell.Value
}

// Get returns the value of a catalog column, or null for unknown names.
func (r *Row) Get(column string) cell.Value {
	if i, ok := catalog.Index(column); ok {
		return r.Values[i]
	}
	return cell.NullValue()
}

func (r *Row) Set(column string, v cell.Value) error {
	i, ok := catalog.Index(column)
	if !ok {
		return fmt.Errorf("unknown column %q", column)
	}
	r.Values[i] = v
	return nil
}

func (r *Row) empty() bool {
	for _, v := range r.Values {
		if !v.IsNull() {
			return false
		}
	}
	return true
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"excel_row":%d,"table_selector":`, r.ExcelRow)
	if err := writeValue(&buf, r.TableSelector); err != nil {
		return nil, err
	}
	if err := writeColumns(&buf, &r.Values); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Row) UnmarshalJSON(data []byte) error {
	var rec map[string]json.RawMessage
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*r = Row{ExcelRow: excelRow(rec)}
	if raw, ok := rec["table_selector"]; ok {
		if err := json.Unmarshal(raw, &r.TableSelector); err != nil {
			return fmt.Errorf("table_selector: %w", err)
		}
	}
	return readColumns(rec, &r.Values)
}

// DisplayRow is the render-only projection of a Row: every value is null or
// text, dates already rendered as ISO instants.
type DisplayRow struct {
	ExcelRow int
	Values   [catalog.Count]cell.Value
}

func displayOf(r *Row) DisplayRow {
	d := DisplayRow{ExcelRow: r.ExcelRow}
	for i, v := range r.Values {
		if !v.IsNull() {
			d.Values[i] = cell.TextValue(v.String())
		}
	}
	return d
}

func (d DisplayRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"excel_row":%d`, d.ExcelRow)
	if err := writeColumns(&buf, &d.Values); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *DisplayRow) UnmarshalJSON(data []byte) error {
	var rec map[string]json.RawMessage
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*d = DisplayRow{ExcelRow: excelRow(rec)}
	return readColumns(rec, &d.Values)
}

// excelRow is informational only: any JSON number is truncated, anything
// else reads as 0.
func excelRow(rec map[string]json.RawMessage) int {
	var n float64
	if raw, ok := rec["excel_row"]; ok && json.Unmarshal(raw, &n) == nil {
		return int(n)
	}
	return 0
}

func writeValue(buf *bytes.Buffer, v cell.Value) error {
	b, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeColumns(buf *bytes.Buffer, vals *[catalog.Count]cell.Value) error {
	for i, c := range catalog.Columns {
		fmt.Fprintf(buf, `,%q:`, c.Name)
		if err := writeValue(buf, vals[i]); err != nil {
			return err
		}
	}
	return nil
}

func readColumns(rec map[string]json.RawMessage, vals *[catalog.Count]cell.Value) error {
	for i, c := range catalog.Columns {
		raw, ok := rec[c.Name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &vals[i]); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	return nil
}
