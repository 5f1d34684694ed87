package core

import (
	"sort"
	"sync"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// DateAmount represents an amount aggregated by calendar day.
type DateAmount struct {
	Date   Date
	Amount Money
}

// Ledger is the ordered, append-only collection of one session's expenses.
// Insertion order is preserved and duplicates are allowed.
type Ledger struct {
	mu    sync.RWMutex
	items []Expense
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// NewLedgerFrom rebuilds a ledger from previously stored records, in order.
func NewLedgerFrom(items []Expense) *Ledger {
	return &Ledger{items: append([]Expense(nil), items...)}
}

// Append adds e at the end. Callers validate e first; records failing
// Expense.Validate must never reach the ledger.
func (l *Ledger) Append(e Expense) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, e)
}

// Snapshot returns a copy of the records in insertion order.
func (l *Ledger) Snapshot() []Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Expense(nil), l.items...)
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *Ledger) TotalByCategory() []CategoryAmount {
	return TotalByCategory(l.Snapshot())
}

func (l *Ledger) TotalByDate() []DateAmount {
	return TotalByDate(l.Snapshot())
}

func (l *Ledger) GrandTotal() Money {
	return GrandTotal(l.Snapshot())
}

// TotalByCategory sums amounts per category. Only categories present in
// items are returned, ordered by their first appearance.
func TotalByCategory(items []Expense) []CategoryAmount {
	idx := make(map[Category]int)
	var out []CategoryAmount
	for _, e := range items {
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, CategoryAmount{Category: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// TotalByDate sums amounts per calendar day, ascending by date.
func TotalByDate(items []Expense) []DateAmount {
	// Keyed by the ISO day so equal dates with distinct locations merge.
	idx := make(map[string]int)
	var out []DateAmount
	for _, e := range items {
		key := e.Date.String()
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, DateAmount{Date: e.Date})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out
}

// GrandTotal is the sum of all amounts; zero for no items.
func GrandTotal(items []Expense) Money {
	var total Money
	for _, e := range items {
		total = total.Add(e.Amount)
	}
	return total
}
