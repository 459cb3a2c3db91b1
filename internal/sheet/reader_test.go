package sheet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	"AcctEventSQL/internal/apperr"
	"AcctEventSQL/internal/cell"
)

func buildWorkbook(t *testing.T, fill func(f *excelize.File, sheet string)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	fill(f, "Sheet1")
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestKindForFilename(t *testing.T) {
	cases := map[string]Kind{
		"events.xlsx": KindSheet,
		"EVENTS.XLS":  KindSheet,
		"export.csv":  KindCSV,
	}
	for name, want := range cases {
		got, ok := KindForFilename(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := KindForFilename("notes.txt")
	assert.False(t, ok)
}

func TestReadXLSXKeepsNativeTypes(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"no", "table_selector", "event_module"}))
		require.NoError(t, f.SetCellValue(sheet, "B2", "success"))
		require.NoError(t, f.SetCellValue(sheet, "C2", "POLICY"))
		require.NoError(t, f.SetCellValue(sheet, "E2", 123.456))
		require.NoError(t, f.SetCellValue(sheet, "F2", 2024))
		require.NoError(t, f.SetCellBool(sheet, "G2", true))

		require.NoError(t, f.SetCellValue(sheet, "H2", 45306))
		style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle(sheet, "H2", "H2", style))
	})

	m, err := Read(data, KindSheet)
	require.NoError(t, err)
	require.Len(t, m, 2)

	s, ok := m.At(1, 2).Text()
	require.True(t, ok)
	assert.Equal(t, "POLICY", s)

	assert.True(t, m.At(1, 3).IsNull(), "cell with no stored value must be null")

	n, ok := m.At(1, 4).Number()
	require.True(t, ok)
	assert.Equal(t, 123.456, n)

	n, ok = m.At(1, 5).Number()
	require.True(t, ok)
	assert.Equal(t, 2024.0, n)

	assert.Equal(t, "true", m.At(1, 6).String())

	when, ok := m.At(1, 7).Time()
	require.True(t, ok, "date formatted serial must surface as a time")
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), when)

	assert.True(t, m.At(1, 40).IsNull())
	assert.True(t, m.At(9, 0).IsNull())
}

func TestReadXLSXKeepsBlankRowsInPlace(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetCellValue(sheet, "A1", "header"))
		require.NoError(t, f.SetCellValue(sheet, "C4", "late row"))
	})

	m, err := Read(data, KindSheet)
	require.NoError(t, err)
	require.Len(t, m, 4)
	assert.True(t, m.At(1, 2).IsNull())
	assert.True(t, m.At(2, 2).IsNull())
	assert.Equal(t, "late row", m.At(3, 2).String())
}

func TestReadXLSXKeepsExplicitEmptyStrings(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetCellValue(sheet, "A1", "header"))
		require.NoError(t, f.SetCellStr(sheet, "D2", ""))
		require.NoError(t, f.SetCellStr(sheet, "E2", "x"))
		require.NoError(t, f.SetCellStr(sheet, "D3", ""))
		require.NoError(t, f.SetCellStr(sheet, "AI4", ""))
	})

	m, err := Read(data, KindSheet)
	require.NoError(t, err)
	require.Len(t, m, 4)

	s, ok := m.At(1, 3).Text()
	assert.True(t, ok)
	assert.Equal(t, "", s)

	s, ok = m.At(2, 3).Text()
	assert.True(t, ok, "an empty string alone in its row is still a value")
	assert.Equal(t, "", s)
	assert.True(t, m.At(2, 4).IsNull())

	s, ok = m.At(3, 34).Text()
	assert.True(t, ok, "trailing empty string in column AI")
	assert.Equal(t, "", s)
	assert.True(t, m.At(3, 33).IsNull())
}

func TestReadLegacyXLS(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "legacy.xls"))
	require.NoError(t, err)

	m, err := Read(data, KindSheet)
	require.NoError(t, err)
	require.Len(t, m, 4)

	assert.Equal(t, "table_selector", m.At(0, 1).String())
	assert.Equal(t, "event_module", m.At(0, 2).String())
	assert.True(t, m.At(0, 0).IsNull())

	assert.Empty(t, m[1], "a row missing from the sheet keeps its slot")

	assert.True(t, m.At(2, 0).IsNull(), "cells before the first column are null")
	assert.Equal(t, "success", m.At(2, 1).String())
	assert.True(t, m.At(2, 2).IsNull())
	assert.Equal(t, "D-1", m.At(2, 3).String())

	assert.True(t, m.At(3, 1).IsNull())
	s, ok := m.At(3, 2).Text()
	assert.True(t, ok)
	assert.Equal(t, "late", s)
}

func TestReadCorruptWorkbook(t *testing.T) {
	_, err := Read([]byte("definitely not a workbook"), KindSheet)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUnreadableInput)

	legacy := append(append([]byte{}, ole2Signature...), []byte("garbage after the signature")...)
	_, err = Read(legacy, KindSheet)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUnreadableInput)
}

func TestReadUnknownKind(t *testing.T) {
	_, err := Read([]byte("a,b"), Kind("json"))
	assert.ErrorIs(t, err, apperr.ErrInvalidParameter)
}

func TestReadCSVKeepsEmptyFieldsAndLineNumbers(t *testing.T) {
	data := []byte("h1,h2\n\na,b,c\n\"multi\nline\",x\n,\n")

	m, err := Read(data, KindCSV)
	require.NoError(t, err)
	require.Len(t, m, 5)

	assert.Equal(t, []cell.Value{cell.TextValue("h1"), cell.TextValue("h2")}, m[0])
	assert.Equal(t, []cell.Value{cell.TextValue("")}, m[1], "blank line keeps its slot")
	assert.Len(t, m[2], 3, "rows may be wider than the header")
	assert.Equal(t, "multi\nline", m[3][0].String())

	s, ok := m[4][0].Text()
	assert.True(t, ok, "empty csv fields are not collapsed by the reader")
	assert.Equal(t, "", s)
}

func TestReadCSVToleratesLooseQuotes(t *testing.T) {
	data := []byte("h\nsaid \"hi\" twice,b\n")

	m, err := Read(data, KindCSV)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, `said "hi" twice`, m[1][0].String())
}

func TestReadCSVStripsBOM(t *testing.T) {
	m, err := Read([]byte("\xEF\xBB\xBFh1,h2\nx,y\n"), KindCSV)
	require.NoError(t, err)
	assert.Equal(t, "h1", m[0][0].String())

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("h1,h2\nx,ä\n")
	require.NoError(t, err)
	m, err = Read([]byte(utf16), KindCSV)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, "ä", m[1][1].String())
}

func TestHasDateTokens(t *testing.T) {
	assert.True(t, hasDateTokens("yyyy-mm-dd"))
	assert.True(t, hasDateTokens("[$-409]d-mmm-yy;@"))
	assert.True(t, hasDateTokens("hh:mm:ss"))
	assert.False(t, hasDateTokens("#,##0.00"))
	assert.False(t, hasDateTokens(`0.00 "days"`))
	assert.False(t, hasDateTokens("[Red]0.00"))
	assert.False(t, hasDateTokens("General"))
	assert.True(t, isDateFormat(22, nil))
	assert.False(t, isDateFormat(2, nil))
}
