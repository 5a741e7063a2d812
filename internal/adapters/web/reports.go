package web

import (
	"net/http"

	"github.com/mryoshq/Accounting-AI/internal/app"
)

type reportRequest struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	OutputFormat string `json:"output_format"`
}

// generateReport handles POST /api/reports. JSON reports are returned in the
// response body; csv and xlsx are streamed as attachments.
func (h *Handler) generateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	format := app.ReportFormat(req.OutputFormat)
	if req.OutputFormat == "" {
		format = app.FormatJSON
	}
	if !format.Valid() {
		writeError(w, r, "output_format must be json, csv or xlsx", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, r, "start_date must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, r, "end_date must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if endDate.Before(startDate) {
		writeError(w, r, "end_date must not precede start_date", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.ExportReport(r.Context(), app.ReportRequest{
		StartDate: startDate,
		EndDate:   endDate,
		Format:    format,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if format == app.FormatJSON {
		writeJSON(w, result)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}
