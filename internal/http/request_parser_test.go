package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"advisor/internal/core"
)

func TestParseExpense(t *testing.T) {
	today := core.NewDate(2025, 3, 10)
	tests := []struct {
		name      string
		form      url.Values
		want      core.Expense
		wantField string
		wantMsg   string
	}{
		{
			name: "valid with date",
			form: url.Values{"date": {"2025-03-01"}, "category": {"Food"}, "amount": {"12.50"}, "description": {"lunch"}},
			want: core.Expense{Date: core.NewDate(2025, 3, 1), Category: core.Food, Amount: core.Money{Cents: 1250}, Description: "lunch"},
		},
		{
			name: "empty date defaults to today",
			form: url.Values{"category": {"Bills"}, "amount": {"600"}},
			want: core.Expense{Date: today, Category: core.Bills, Amount: core.Money{Cents: 60000}},
		},
		{
			name: "comma decimal separator",
			form: url.Values{"category": {"Transport"}, "amount": {"3,20"}},
			want: core.Expense{Date: today, Category: core.Transport, Amount: core.Money{Cents: 320}},
		},
		{
			name:      "zero amount",
			form:      url.Values{"category": {"Food"}, "amount": {"0"}},
			wantField: "amount",
			wantMsg:   MsgAmountInvalid,
		},
		{
			name:      "negative amount",
			form:      url.Values{"category": {"Food"}, "amount": {"-5"}},
			wantField: "amount",
			wantMsg:   MsgAmountInvalid,
		},
		{
			name:      "missing amount",
			form:      url.Values{"category": {"Food"}},
			wantField: "amount",
			wantMsg:   MsgAmountInvalid,
		},
		{
			name:      "amount not a number",
			form:      url.Values{"category": {"Food"}, "amount": {"abc"}},
			wantField: "amount",
			wantMsg:   MsgAmountInvalid,
		},
		{
			name:      "unknown category",
			form:      url.Values{"category": {"Groceries"}, "amount": {"1"}},
			wantField: "category",
			wantMsg:   MsgCategoryInvalid,
		},
		{
			name:      "bad date",
			form:      url.Values{"date": {"03/01/2025"}, "category": {"Food"}, "amount": {"1"}},
			wantField: "date",
			wantMsg:   MsgDateInvalid,
		},
		{
			name:      "description too long",
			form:      url.Values{"category": {"Other"}, "amount": {"1"}, "description": {strings.Repeat("x", 201)}},
			wantField: "description",
			wantMsg:   MsgDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ferr := ParseExpense(tt.form.Get, today)
			if tt.wantField != "" {
				if ferr == nil {
					t.Fatalf("ParseExpense() = %+v, want %s error", got, tt.wantField)
				}
				if ferr.Field != tt.wantField || ferr.Message != tt.wantMsg {
					t.Errorf("FieldError = {%s %q}, want {%s %q}", ferr.Field, ferr.Message, tt.wantField, tt.wantMsg)
				}
				return
			}
			if ferr != nil {
				t.Fatalf("ParseExpense() error = %v", ferr)
			}
			if got != tt.want {
				t.Errorf("ParseExpense() = %+v, want %+v", got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("parsed expense fails validation: %v", err)
			}
		})
	}
}

func TestFieldErrorUnwrap(t *testing.T) {
	_, ferr := ParseExpense(url.Values{"category": {"Nope"}, "amount": {"1"}}.Get, core.NewDate(2025, 1, 1))
	if !errors.Is(ferr, core.ErrInvalidCategory) {
		t.Errorf("errors.Is(%v, ErrInvalidCategory) = false", ferr)
	}
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantJSON bool
		want     map[string]string
	}{
		{
			name: "form encoded",
			body: "category=Food&amount=12.50&description=%20pizza%20",
			want: map[string]string{"category": "Food", "amount": "12.50", "description": "pizza"},
		},
		{
			name:     "json",
			body:     `{"category":"Savings","amount":250,"description":"rainy day"}`,
			wantJSON: true,
			want:     map[string]string{"category": "Savings", "amount": "250", "description": "rainy day"},
		},
		{
			name: "control characters stripped",
			body: "description=a%00b%07c",
			want: map[string]string{"description": "abc"},
		},
		{
			name: "empty body",
			body: "",
			want: map[string]string{"category": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(tt.body))
			p := NewRequestBodyParser(httptest.NewRecorder(), r)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
			for k, v := range tt.want {
				if got := p.Get(k); got != v {
					t.Errorf("Get(%q) = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestRequestBodyParser_TooLarge(t *testing.T) {
	body := "description=" + strings.Repeat("x", maxBodyBytes+1)
	r := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body))
	p := NewRequestBodyParser(httptest.NewRecorder(), r)
	if err := p.Parse(); err == nil {
		t.Fatal("Parse() should fail for oversized bodies")
	}
}

func TestRequireMethod(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	if b := RequirePOST(r); b == nil {
		t.Fatal("RequirePOST(GET) = nil, want 405 builder")
	}
	r = httptest.NewRequest(http.MethodPost, "/expenses", nil)
	if b := RequirePOST(r); b != nil {
		t.Fatal("RequirePOST(POST) should pass")
	}
}
