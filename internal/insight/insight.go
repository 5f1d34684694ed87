// Package insight turns a ledger snapshot into short advisory messages by
// evaluating a fixed, ordered set of rules over its aggregate totals.
package insight

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"advisor/internal/core"
)

const (
	// DominantShare is the share of the grand total above which a single
	// category is reported.
	DominantShare = "0.4"
	// OverspendingThreshold is the grand total, in currency units, above
	// which the overspending warning fires.
	OverspendingThreshold = "1000"
)

const (
	MsgOverspending = "Your total spending is high. Try reviewing non-essential expenses to save more."
	MsgNoSavings    = "No savings recorded. Consider allocating a portion of your income to savings for future security."
	MsgFallback     = "No specific insights yet. Add more expenses to get personalized tips!"

	msgDominant = "You're spending %s in %s, which is over 40%% of your total expenses. Consider diversifying your spending or setting a budget for this category."
)

var (
	dominantShare = decimal.RequireFromString(DominantShare)
	overspending  = decimal.RequireFromString(OverspendingThreshold)
)

// Facts is the aggregate view of a snapshot that rules read.
type Facts struct {
	Count      int
	Total      core.Money
	ByCategory []core.CategoryAmount
	HasSavings bool
}

// NewFacts aggregates a snapshot once for all rules.
func NewFacts(snapshot []core.Expense) Facts {
	f := Facts{
		Count:      len(snapshot),
		Total:      core.GrandTotal(snapshot),
		ByCategory: core.TotalByCategory(snapshot),
	}
	for _, e := range snapshot {
		if e.Category == core.Savings {
			f.HasSavings = true
			break
		}
	}
	return f
}

// Rule contributes at most one message for a set of facts.
type Rule interface {
	Name() string
	Evaluate(f Facts) (string, bool)
}

// Engine evaluates its rules in order; order determines output order.
type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// DefaultEngine carries the dominant-category, overspending and
// no-savings rules, in that order.
func DefaultEngine() *Engine {
	return NewEngine(DominantCategory{}, Overspending{}, NoSavings{})
}

// Generate returns the messages of every triggered rule, or the single
// fallback message when the snapshot is empty or nothing fired.
func (e *Engine) Generate(snapshot []core.Expense) []string {
	if len(snapshot) == 0 {
		return []string{MsgFallback}
	}
	facts := NewFacts(snapshot)
	var out []string
	for _, r := range e.rules {
		if msg, ok := r.Evaluate(facts); ok {
			slog.Debug("Insight rule fired", "rule", r.Name())
			out = append(out, msg)
		}
	}
	if len(out) == 0 {
		return []string{MsgFallback}
	}
	return out
}

var defaultEngine = DefaultEngine()

// Generate runs the default rule set over snapshot.
func Generate(snapshot []core.Expense) []string {
	return defaultEngine.Generate(snapshot)
}

// DominantCategory fires when the largest category holds more than
// DominantShare of the grand total. Ties go to the category that appears
// first in the ledger.
type DominantCategory struct{}

func (DominantCategory) Name() string { return "dominant_category" }

func (DominantCategory) Evaluate(f Facts) (string, bool) {
	if f.Count == 0 || f.Total.Cents <= 0 {
		return "", false
	}
	var top core.CategoryAmount
	for i, c := range f.ByCategory {
		if i == 0 || c.Amount.Cents > top.Amount.Cents {
			top = c
		}
	}
	// top/total > share, compared as top > total*share to stay exact.
	if !top.Amount.Decimal().GreaterThan(f.Total.Decimal().Mul(dominantShare)) {
		return "", false
	}
	return fmt.Sprintf(msgDominant, top.Amount.String(), top.Category), true
}

// Overspending fires when the grand total exceeds OverspendingThreshold.
type Overspending struct{}

func (Overspending) Name() string { return "overspending" }

func (Overspending) Evaluate(f Facts) (string, bool) {
	if f.Total.Decimal().GreaterThan(overspending) {
		return MsgOverspending, true
	}
	return "", false
}

// NoSavings fires when no record is categorised as Savings.
type NoSavings struct{}

func (NoSavings) Name() string { return "no_savings" }

func (NoSavings) Evaluate(f Facts) (string, bool) {
	if f.Count > 0 && !f.HasSavings {
		return MsgNoSavings, true
	}
	return "", false
}
