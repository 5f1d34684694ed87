package http

import (
	"strconv"

	"golang.org/x/text/message"

	"advisor/internal/chart"
	"advisor/internal/core"
	"advisor/internal/insight"
)

// Page title and subtitle shown on the index page.
const (
	pageTitle    = "Personal Finance Advisor"
	pageSubtitle = "Track your expenses, visualize your budget, and get financial insights!"
	msgEmpty     = "No expenses recorded yet. Use the form to add your first expense!"
)

type rowView struct {
	Date        string
	Category    string
	Amount      string
	Description string
}

type sliceView struct {
	Category string
	Amount   string
	Percent  string
	Color    string
	Path     string
	Full     bool
}

type barView struct {
	Date   string
	Amount string
	Height int
}

// ledgerView is everything the ledger partial renders for one session.
type ledgerView struct {
	Empty        bool
	EmptyMessage string
	Count        int
	Total        string
	Rows         []rowView
	Pie          []sliceView
	Bars         []barView
	Radius       int
	Diameter     int
	Insights     []string
}

func newLedgerView(p *message.Printer, engine *insight.Engine, snapshot []core.Expense) ledgerView {
	v := ledgerView{
		Empty:        len(snapshot) == 0,
		EmptyMessage: msgEmpty,
		Count:        len(snapshot),
		Total:        formatAmount(p, core.GrandTotal(snapshot)),
		Radius:       chart.Radius,
		Diameter:     2 * chart.Radius,
		Insights:     engine.Generate(snapshot),
	}
	for _, e := range snapshot {
		v.Rows = append(v.Rows, rowView{
			Date:        e.Date.String(),
			Category:    e.Category.String(),
			Amount:      formatAmount(p, e.Amount),
			Description: e.Description,
		})
	}
	for _, s := range chart.Pie(snapshot) {
		v.Pie = append(v.Pie, sliceView{
			Category: s.Category.String(),
			Amount:   formatAmount(p, s.Amount),
			Percent:  strconv.FormatFloat(s.Percent, 'f', 1, 64),
			Color:    s.Color,
			Path:     s.Path,
			Full:     s.Full,
		})
	}
	for _, b := range chart.Bars(snapshot) {
		v.Bars = append(v.Bars, barView{
			Date:   b.Date.String(),
			Amount: formatAmount(p, b.Amount),
			Height: b.Height,
		})
	}
	return v
}

// indexView backs the full page.
type indexView struct {
	Title      string
	Subtitle   string
	Today      string
	Categories []string
	Ledger     ledgerView
}

func newIndexView(today core.Date, ledger ledgerView) indexView {
	cats := core.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return indexView{
		Title:      pageTitle,
		Subtitle:   pageSubtitle,
		Today:      today.String(),
		Categories: names,
		Ledger:     ledger,
	}
}

// summaryResponse is the JSON body of /api/summary.
type summaryResponse struct {
	Records    []summaryRecord `json:"records"`
	ByCategory []summaryTotal  `json:"by_category"`
	ByDate     []summaryTotal  `json:"by_date"`
	GrandTotal string          `json:"grand_total"`
	Insights   []string        `json:"insights"`
}

type summaryRecord struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type summaryTotal struct {
	Key    string `json:"key"`
	Amount string `json:"amount"`
}

func newSummary(engine *insight.Engine, snapshot []core.Expense) summaryResponse {
	out := summaryResponse{
		Records:    make([]summaryRecord, 0, len(snapshot)),
		ByCategory: []summaryTotal{},
		ByDate:     []summaryTotal{},
		GrandTotal: core.GrandTotal(snapshot).String(),
		Insights:   engine.Generate(snapshot),
	}
	for _, e := range snapshot {
		out.Records = append(out.Records, summaryRecord{
			Date:        e.Date.String(),
			Category:    e.Category.String(),
			Amount:      e.Amount.String(),
			Description: e.Description,
		})
	}
	for _, t := range core.TotalByCategory(snapshot) {
		out.ByCategory = append(out.ByCategory, summaryTotal{Key: t.Category.String(), Amount: t.Amount.String()})
	}
	for _, t := range core.TotalByDate(snapshot) {
		out.ByDate = append(out.ByDate, summaryTotal{Key: t.Date.String(), Amount: t.Amount.String()})
	}
	return out
}
