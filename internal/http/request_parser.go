package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"advisor/internal/core"
)

// maxBodyBytes bounds expense form submissions.
const maxBodyBytes = 64 << 10

// User-facing validation messages for the expense form.
const (
	MsgAmountInvalid      = "Amount must be greater than 0."
	MsgCategoryInvalid    = "Please choose one of the listed categories."
	MsgDateInvalid        = "Please enter a valid date (YYYY-MM-DD)."
	MsgDescriptionTooLong = "Description must be at most 200 characters."
)

// FieldError is a rejected form field. Message is safe to show the user.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads at most maxBodyBytes of the request body.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// JSON bodies come from hx-ext="json-enc"
	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseExpense builds an expense from the date, category, amount and
// description fields. An empty date means today. The returned expense
// always passes core.Expense.Validate.
func ParseExpense(get func(string) string, today core.Date) (core.Expense, *FieldError) {
	date := today
	if v := get("date"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Expense{}, &FieldError{Field: "date", Message: MsgDateInvalid, Err: err}
		}
		date = d
	}

	category, err := core.ParseCategory(get("category"))
	if err != nil {
		return core.Expense{}, &FieldError{Field: "category", Message: MsgCategoryInvalid, Err: err}
	}

	cents, err := core.ParseDecimalToCents(get("amount"))
	if err != nil {
		return core.Expense{}, &FieldError{Field: "amount", Message: MsgAmountInvalid, Err: err}
	}

	exp := core.Expense{
		Date:        date,
		Category:    category,
		Amount:      core.Money{Cents: cents},
		Description: get("description"),
	}
	if err := exp.Validate(); err != nil {
		return core.Expense{}, fieldErrorFor(err)
	}
	return exp, nil
}

func fieldErrorFor(err error) *FieldError {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return &FieldError{Field: "date", Message: MsgDateInvalid, Err: err}
	case errors.Is(err, core.ErrInvalidCategory):
		return &FieldError{Field: "category", Message: MsgCategoryInvalid, Err: err}
	case errors.Is(err, core.ErrDescriptionTooLong):
		return &FieldError{Field: "description", Message: MsgDescriptionTooLong, Err: err}
	default:
		return &FieldError{Field: "amount", Message: MsgAmountInvalid, Err: err}
	}
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}
