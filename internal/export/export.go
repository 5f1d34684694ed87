// Package export serializes a ledger snapshot for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"advisor/internal/core"
)

const (
	CSVContentType  = "text/csv; charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Expenses"
)

// Header is the column order of every export.
var Header = []string{"Date", "Category", "Amount", "Description"}

// Filename returns the download name for the given extension.
func Filename(ext string) string {
	return "expenses." + ext
}

// WriteCSV writes one row per record in ledger order after a header row.
// Quoting follows RFC 4180 as implemented by encoding/csv.
func WriteCSV(w io.Writer, snapshot []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, e := range snapshot {
		row := []string{e.Date.String(), e.Category.String(), e.Amount.String(), e.Description}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the same columns to a single-sheet workbook, with a
// numeric amount column and a closing total row.
func WriteXLSX(w io.Writer, snapshot []core.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	for idx, e := range snapshot {
		row := idx + 2
		values := []any{e.Date.String(), e.Category.String(), e.Amount.Float(), e.Description}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	totalRow := len(snapshot) + 2
	if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "Total"); err != nil {
		return fmt.Errorf("set total label: %w", err)
	}
	if err := f.SetCellValue(sheetName, fmt.Sprintf("C%d", totalRow), core.GrandTotal(snapshot).Float()); err != nil {
		return fmt.Errorf("set total: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "C2", fmt.Sprintf("C%d", totalRow), amountStyle); err != nil {
		return fmt.Errorf("style amounts: %w", err)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "B", 15)
	_ = f.SetColWidth(sheetName, "C", "C", 12)
	_ = f.SetColWidth(sheetName, "D", "D", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
