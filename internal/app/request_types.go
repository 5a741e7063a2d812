package app

import "time"

// ReportFormat selects the rendering of a generated report.
type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatCSV  ReportFormat = "csv"
	FormatXLSX ReportFormat = "xlsx"
)

func (f ReportFormat) Valid() bool {
	return f == FormatJSON || f == FormatCSV || f == FormatXLSX
}

// ReportRequest asks for a financial report over an inclusive date range.
type ReportRequest struct {
	StartDate time.Time
	EndDate   time.Time
	Format    ReportFormat
}
