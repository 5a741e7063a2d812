package app

import (
	"time"

	"github.com/mryoshq/Accounting-AI/internal/core"
	"github.com/mryoshq/Accounting-AI/internal/extraction"
)

// ProcessResult wraps the per-file outcomes of one extraction batch.
type ProcessResult struct {
	Data []extraction.FileResult `json:"data"`
}

// APITokenResult carries the masked preview of a stored OpenAI key.
type APITokenResult struct {
	Preview string `json:"token_preview"`
}

// ReportResult is a generated report. For the JSON format only Report is
// set; for CSV and XLSX the rendered document and download metadata are
// filled in as well.
type ReportResult struct {
	Report    *core.Report `json:"data"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`

	Content     []byte `json:"-"`
	ContentType string `json:"-"`
	Filename    string `json:"-"`
}
