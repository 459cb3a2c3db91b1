// Package templates builds the blank upload templates operators download.
package templates

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"AcctEventSQL/internal/catalog"
)

const (
	XLSXName  = "accounting_validation_template.xlsx"
	CSVName   = "accounting_validation_template.csv"
	SheetName = "template"

	KindXLSX = "xlsx"
	KindCSV  = "csv"
)

// Headers is the template header row: A unused, B the table selector, then
// the catalog in extraction order.
func Headers() []string {
	h := make([]string, 0, catalog.FirstColumnOffset+catalog.Count)
	h = append(h, "", "table_selector")
	return append(h, catalog.Names()...)
}

// FileName returns the template file name for kind.
func FileName(kind string) (string, bool) {
	switch kind {
	case KindXLSX:
		return XLSXName, true
	case KindCSV:
		return CSVName, true
	}
	return "", false
}

// ContentType returns the download media type for kind.
func ContentType(kind string) string {
	if kind == KindXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Headers()); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func columnWidth(header string) float64 {
	return float64(min(35, max(12, len(header)+4)))
}

func XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}
	headers := Headers()
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &row); err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, style); err != nil {
		return nil, err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, columnWidth(h)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build renders the template for kind in memory.
func Build(kind string) ([]byte, error) {
	switch kind {
	case KindXLSX:
		return XLSX()
	case KindCSV:
		return CSV()
	}
	return nil, fmt.Errorf("unknown template kind %q", kind)
}

// WriteAll (re)writes both templates under dir. Each file is written to a
// temporary name first so readers never see a partial template.
func WriteAll(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range []string{KindXLSX, KindCSV} {
		kind := kind
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := Build(kind)
			if err != nil {
				return fmt.Errorf("build %s template: %w", kind, err)
			}
			name, _ := FileName(kind)
			return writeAtomic(filepath.Join(dir, name), data)
		})
	}
	return g.Wait()
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
