package http

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"advisor/internal/core"
)

// displayTags are the locales whose digit grouping the ledger table
// follows. The first entry is the fallback.
var displayTags = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.Italian,
	language.German,
	language.French,
	language.Spanish,
}

var displayMatcher = language.NewMatcher(displayTags)

// printerFor picks a number printer from the request's Accept-Language.
func printerFor(r *http.Request) *message.Printer {
	tag := displayTags[0]
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := displayMatcher.Match(tags...)
			if conf != language.No {
				tag = displayTags[idx]
			}
		}
	}
	return message.NewPrinter(tag)
}

// formatAmount renders m with two decimals and locale digit grouping,
// e.g. 1,234.50 or 1.234,50.
func formatAmount(p *message.Printer, m core.Money) string {
	return p.Sprintf("%.2f", m.Float())
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
