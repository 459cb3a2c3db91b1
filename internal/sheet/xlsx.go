package sheet

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"AcctEventSQL/internal/catalog"
	"AcctEventSQL/internal/cell"
)

// readXLSX reads the first worksheet keeping native cell types: numbers stay
// numbers, date formatted numbers become times, and cells without a stored
// value come back as null rather than "".
func readXLSX(data []byte) (Matrix, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheetName := sheets[0]

	raw, err := rawRows(f, sheetName)
	if err != nil {
		return nil, err
	}

	r := &xlsxResolver{f: f, sheet: sheetName, dateStyles: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}

	// Every template column is resolved, not just up to the last non-empty
	// raw value, so that a trailing explicit "" survives.
	width := catalog.FirstColumnOffset + catalog.Count
	m := make(Matrix, len(raw))
	for i, row := range raw {
		out := make([]cell.Value, max(width, len(row)))
		for j := range out {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if j < len(row) {
				out[j] = r.resolve(ref, row[j])
			} else {
				out[j] = r.resolve(ref, r.rawValue(ref))
			}
		}
		m[i] = out
	}
	return m, nil
}

// rawRows walks every row element of the sheet. Unlike GetRows it keeps
// trailing rows whose cells all hold empty strings.
func rawRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		out = append(out, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

type xlsxResolver struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func (r *xlsxResolver) rawValue(ref string) string {
	v, err := r.f.GetCellValue(r.sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return ""
	}
	return v
}

func (r *xlsxResolver) resolve(ref, raw string) cell.Value {
	typ, err := r.f.GetCellType(r.sheet, ref)
	if err != nil {
		typ = excelize.CellTypeUnset
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		// a stored string, even an empty one, is an explicit value
		return cell.TextValue(raw)
	case excelize.CellTypeBool:
		return cell.TextValue(strconv.FormatBool(raw == "1" || strings.EqualFold(raw, "true")))
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return cell.TimeValue(t)
		}
		return cell.TextValue(raw)
	}

	if raw == "" {
		return cell.NullValue()
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return cell.TextValue(raw)
	}
	if r.isDateCell(ref) {
		if t, err := excelize.ExcelDateToTime(n, r.date1904); err == nil {
			return cell.TimeValue(t.UTC())
		}
	}
	return cell.NumberValue(n)
}

func (r *xlsxResolver) isDateCell(ref string) bool {
	styleID, err := r.f.GetCellStyle(r.sheet, ref)
	if err != nil || styleID == 0 {
		return false
	}
	if isDate, ok := r.dateStyles[styleID]; ok {
		return isDate
	}
	isDate := false
	if style, err := r.f.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	r.dateStyles[styleID] = isDate
	return isDate
}

// isDateFormat reports whether a number format renders dates or times.
func isDateFormat(id int, custom *string) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	if custom == nil {
		return false
	}
	return hasDateTokens(*custom)
}

// hasDateTokens looks for y/m/d/h/s outside quoted literals, escapes and
// bracketed sections such as [Red] or [$-409].
func hasDateTokens(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			switch ch | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
