package extraction

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Error codes surfaced on per-file results so callers can tell a bad input
// file from an extraction-service failure.
const (
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeMissingInput      = "MISSING_INPUT"
	CodeUpstreamError     = "UPSTREAM_ERROR"
)

// FileResult is the per-document envelope: the extracted invoice plus the
// normalized image the model actually analyzed, or a structured failure.
type FileResult struct {
	Filename      string   `json:"filename"`
	InvoiceData   *Invoice `json:"invoice_data,omitempty"`
	DocumentImage string   `json:"document_image,omitempty"`
	Error         string   `json:"error,omitempty"`
	ErrorCode     string   `json:"error_code,omitempty"`
}

// OK reports whether this file produced an invoice.
func (r FileResult) OK() bool { return r.ErrorCode == "" }

// Pipeline runs the Normalizer and Extractor over a batch of documents.
//
// Failure policy: per-file isolation. A failure on one document is recorded
// on its result and the remaining documents are still processed; the caller
// receives exactly one result per input, in input order. Only credential
// resolution (done by the caller before Run) aborts a whole batch.
type Pipeline struct {
	normalizer *Normalizer
	extractor  Extractor
	logger     *zap.Logger
}

// NewPipeline wires the orchestrator. The logger must be non-nil; pass
// zap.NewNop() to silence it.
func NewPipeline(normalizer *Normalizer, extractor Extractor, logger *zap.Logger) *Pipeline {
	return &Pipeline{normalizer: normalizer, extractor: extractor, logger: logger}
}

// Run processes the documents strictly in input order. When debug is set,
// per-file extraction timings are emitted at debug level. The API key is
// read-only input for the duration of the batch and is never logged.
func (p *Pipeline) Run(ctx context.Context, apiKey string, docs []Document, debug bool) []FileResult {
	results := make([]FileResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, p.processOne(ctx, apiKey, doc, debug))
	}
	return results
}

func (p *Pipeline) processOne(ctx context.Context, apiKey string, doc Document, debug bool) FileResult {
	result := FileResult{Filename: doc.Filename}

	img, err := p.normalizer.Normalize(doc)
	if err != nil {
		result.Error = err.Error()
		result.ErrorCode = classify(err)
		p.logger.Warn("document normalization failed",
			zap.String("filename", doc.Filename),
			zap.Error(err),
		)
		return result
	}

	start := time.Now()
	inv, err := p.extractor.Extract(ctx, apiKey, img.Base64)
	elapsed := time.Since(start)

	if debug {
		p.logger.Debug("extraction step finished",
			zap.String("filename", doc.Filename),
			zap.Duration("duration", elapsed),
			zap.Bool("ok", err == nil),
		)
	}

	if err != nil {
		result.Error = err.Error()
		result.ErrorCode = classify(err)
		p.logger.Warn("invoice extraction failed",
			zap.String("filename", doc.Filename),
			zap.Error(err),
		)
		return result
	}

	result.InvoiceData = inv
	result.DocumentImage = img.Base64
	return result
}

func classify(err error) string {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return CodeUnsupportedFormat
	case errors.Is(err, ErrMissingInput):
		return CodeMissingInput
	case errors.As(err, &upstream):
		return CodeUpstreamError
	default:
		return CodeUpstreamError
	}
}
