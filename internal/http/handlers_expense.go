package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"advisor/internal/core"
	"advisor/internal/export"
	applog "advisor/internal/log"
	"advisor/internal/session"
)

// Messages shown after successful actions.
const (
	MsgExpenseAdded = "Expense added successfully!"
	MsgSessionReset = "Session cleared. Your expenses were removed."
)

// handleCreateExpense validates the form and appends one record. Rejected
// input leaves the ledger untouched.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if b := RequirePOST(r); b != nil {
		b.Write(w)
		return
	}
	logger := applog.FromContext(r.Context())

	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		fields := applog.NewFields().WithError(err).WithOperation(applog.OpParse)
		fields[applog.FieldErrorType] = applog.ErrorTypeValidation
		logger.Warn("Expense form parse failed", fields.ToSlice()...)
		BadRequestError("Invalid request format").Write(w)
		return
	}
	format := "form"
	if parser.IsJSON() {
		format = "json"
	}

	exp, ferr := ParseExpense(parser.Get, core.DateOf(s.now()))
	if ferr != nil {
		logger.Info("Expense rejected",
			applog.FieldError, ferr,
			applog.FieldErrorType, applog.ErrorTypeValidation,
			applog.FieldFormat, format,
			applog.FieldOperation, applog.OpValidate)
		UnprocessableEntityError(ferr.Message).
			TriggerErrorNotification(ferr.Message).
			Write(w)
		return
	}

	id, _, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	err := s.store.Append(r.Context(), id, exp)
	if errors.Is(err, session.ErrNotFound) {
		// Expired between lookup and append; continue on a fresh session.
		if id, _, err = s.startSession(w, r); err == nil {
			err = s.store.Append(r.Context(), id, exp)
		}
	}
	if err != nil {
		logger.Error("Expense append failed",
			applog.FieldError, err,
			applog.FieldSessionID, id,
			applog.FieldOperation, applog.OpAppend)
		InternalServerError("Failed to save expense").Write(w)
		return
	}

	records := 0
	if l, err := s.store.Get(r.Context(), id); err == nil {
		records = l.Len()
	}

	fields := applog.NewFields().
		WithSession(id).
		WithOperation(applog.OpAppend).
		WithExpense(exp.Date.String(), exp.Category.String(), exp.Amount.Cents)
	fields[applog.FieldRecords] = records
	fields[applog.FieldFormat] = format
	logger.Info("Expense added", fields.ToSlice()...)

	SuccessResponse(MsgExpenseAdded).
		TriggerExpenseCreated(records).
		TriggerFormReset().
		TriggerSuccessNotification(MsgExpenseAdded).
		Write(w)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "csv", export.CSVContentType, export.WriteCSV)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "xlsx", export.XLSXContentType, export.WriteXLSX)
}

// handleExport buffers the whole file so encoding errors surface as a 500
// rather than a truncated download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, []core.Expense) error) {
	if b := RequireMethod(r, http.MethodGet); b != nil {
		b.Write(w)
		return
	}
	id, l, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	snapshot := l.Snapshot()

	var buf bytes.Buffer
	if err := write(&buf, snapshot); err != nil {
		fields := applog.NewFields().WithError(err).WithSession(id).WithOperation(applog.OpExport)
		fields[applog.FieldFormat] = ext
		applog.FromContext(r.Context()).Error("Export failed", fields.ToSlice()...)
		InternalServerError("Export failed").Write(w)
		return
	}

	applog.FromContext(r.Context()).Info("Ledger exported",
		applog.FieldFormat, ext,
		applog.FieldRecords, len(snapshot),
		applog.FieldSessionID, id)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(ext)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// handleResetSession ends the session, destroying its ledger, and starts
// a new empty one.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	if b := RequirePOST(r); b != nil {
		b.Write(w)
		return
	}
	logger := applog.FromContext(r.Context())

	if c, err := r.Cookie(SessionCookie); err == nil && session.ValidID(c.Value) {
		if err := s.store.Delete(r.Context(), c.Value); err != nil {
			logger.Error("Session delete failed",
				applog.FieldError, err,
				applog.FieldSessionID, c.Value,
				applog.FieldOperation, applog.OpReset)
			InternalServerError("Failed to reset session").Write(w)
			return
		}
		logger.Info("Session ended",
			applog.FieldSessionID, c.Value,
			applog.FieldOperation, applog.OpReset)
	}

	if _, _, err := s.startSession(w, r); err != nil {
		logger.Error("Session start failed", applog.FieldError, err)
		InternalServerError("Failed to reset session").Write(w)
		return
	}

	// Plain form posts go back to the page
	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	NewHTMXResponse().
		TriggerSessionReset().
		TriggerFormReset().
		TriggerNotification(NotificationInfo, MsgSessionReset, 3000).
		Write(w)
}
