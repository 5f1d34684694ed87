// Package chart prepares the series behind the spending charts: a pie of
// amounts per category and bars of amounts per day. Output is plain data
// plus SVG path geometry; templates do the drawing.
package chart

import (
	"fmt"
	"math"

	"advisor/internal/core"
)

// Radius of the pie in SVG user units; the pie is centred at (Radius, Radius).
const Radius = 100

var palette = map[core.Category]string{
	core.Food:          "#ef553b",
	core.Transport:     "#636efa",
	core.Entertainment: "#ab63fa",
	core.Bills:         "#ffa15a",
	core.Savings:       "#00cc96",
	core.Other:         "#19d3f3",
}

type Slice struct {
	Category core.Category
	Amount   core.Money
	Percent  float64 // share of the total, one decimal
	Color    string
	Path     string // SVG path data; empty when Full
	Full     bool   // single category covering the whole pie
}

type Bar struct {
	Date   core.Date
	Amount core.Money
	Height int // percent of the tallest bar
}

// Pie returns one slice per category present, in category-total order.
func Pie(snapshot []core.Expense) []Slice {
	totals := core.TotalByCategory(snapshot)
	grand := core.GrandTotal(snapshot).Cents
	if grand <= 0 {
		return nil
	}
	out := make([]Slice, 0, len(totals))
	var start float64
	for _, t := range totals {
		frac := float64(t.Amount.Cents) / float64(grand)
		s := Slice{
			Category: t.Category,
			Amount:   t.Amount,
			Percent:  math.Round(frac*1000) / 10,
			Color:    palette[t.Category],
		}
		if len(totals) == 1 {
			s.Full = true
		} else {
			s.Path = arc(start, start+frac)
		}
		start += frac
		out = append(out, s)
	}
	return out
}

// arc builds a wedge from fraction a to b of the circle, clockwise from 12 o'clock.
func arc(a, b float64) string {
	x0, y0 := point(a)
	x1, y1 := point(b)
	large := 0
	if b-a > 0.5 {
		large = 1
	}
	return fmt.Sprintf("M%d,%d L%.2f,%.2f A%d,%d 0 %d,1 %.2f,%.2f Z",
		Radius, Radius, x0, y0, Radius, Radius, large, x1, y1)
}

func point(frac float64) (float64, float64) {
	theta := 2*math.Pi*frac - math.Pi/2
	return Radius + Radius*math.Cos(theta), Radius + Radius*math.Sin(theta)
}

// Bars returns one bar per day, ascending by date.
func Bars(snapshot []core.Expense) []Bar {
	totals := core.TotalByDate(snapshot)
	var maxCents int64
	for _, t := range totals {
		if t.Amount.Cents > maxCents {
			maxCents = t.Amount.Cents
		}
	}
	out := make([]Bar, 0, len(totals))
	for _, t := range totals {
		height := 0
		if maxCents > 0 && t.Amount.Cents > 0 {
			height = int((t.Amount.Cents*100 + maxCents/2) / maxCents) // rounded percent
			// ensure visibility for very small values
			if height < 2 {
				height = 2
			}
		}
		out = append(out, Bar{Date: t.Date, Amount: t.Amount, Height: height})
	}
	return out
}
