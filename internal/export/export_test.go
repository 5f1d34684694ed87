package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/xuri/excelize/v2"

	"advisor/internal/core"
)

func sample() []core.Expense {
	return []core.Expense{
		{Date: core.NewDate(2025, 2, 1), Category: core.Food, Amount: core.Money{Cents: 1250}, Description: "lunch, with team"},
		{Date: core.NewDate(2025, 1, 31), Category: core.Bills, Amount: core.Money{Cents: 9000}, Description: `say "hi"`},
		{Date: core.NewDate(2025, 2, 1), Category: core.Food, Amount: core.Money{Cents: 1250}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "Date,Category,Amount,Description\n" +
		"2025-02-01,Food,12.50,\"lunch, with team\"\n" +
		"2025-01-31,Bills,90.00,\"say \"\"hi\"\"\"\n" +
		"2025-02-01,Food,12.50,\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if len(rows) != 4 || rows[1][3] != "lunch, with team" || rows[2][3] != `say "hi"` {
		t.Fatalf("unexpected rows %q", rows)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if buf.String() != "Date,Category,Amount,Description\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sample()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header + 3 rows + total, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][3] != "Description" {
		t.Fatalf("bad header %v", rows[0])
	}
	if rows[1][1] != "Food" || rows[1][2] != "12.50" {
		t.Fatalf("bad first row %v", rows[1])
	}
	if rows[4][0] != "Total" || rows[4][2] != "115.00" {
		t.Fatalf("bad total row %v", rows[4])
	}
}

func TestFilename(t *testing.T) {
	if Filename("csv") != "expenses.csv" {
		t.Fatalf("got %s", Filename("csv"))
	}
}
