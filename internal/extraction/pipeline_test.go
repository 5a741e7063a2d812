package extraction_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/mryoshq/Accounting-AI/internal/extraction"
)

// stubExtractor lets pipeline tests control the extraction outcome per call.
type stubExtractor struct {
	calls   int
	extract func(call int, base64Image string) (*extraction.Invoice, error)
}

func (s *stubExtractor) Extract(_ context.Context, _ string, base64Image string) (*extraction.Invoice, error) {
	s.calls++
	return s.extract(s.calls, base64Image)
}

func okInvoice(number string) *extraction.Invoice {
	return &extraction.Invoice{InvoiceNumber: number, Currency: "MAD", Items: []extraction.LineItem{}}
}

func TestPipeline_PerFileIsolation(t *testing.T) {
	// Batch of 3: valid image, undecodable bytes, valid PDF. The bad file must
	// not abort the batch, and output order must match input order.
	stub := &stubExtractor{extract: func(call int, _ string) (*extraction.Invoice, error) {
		return okInvoice("INV-" + string(rune('0'+call))), nil
	}}
	p := extraction.NewPipeline(extraction.NewNormalizer(), stub, zap.NewNop())

	docs := []extraction.Document{
		{Filename: "good.png", ContentType: "image/png", Data: pngWithAlpha(t)},
		{Filename: "broken.bin", ContentType: "application/octet-stream", Data: []byte{0x00, 0x01}},
		{Filename: "good.pdf", ContentType: "application/pdf", Data: minimalPDF(t, 1)},
	}

	results := p.Run(context.Background(), "sk-test", docs, false)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, doc := range docs {
		if results[i].Filename != doc.Filename {
			t.Errorf("result %d: filename %q, want %q (order must match input)", i, results[i].Filename, doc.Filename)
		}
	}

	if !results[0].OK() || !results[2].OK() {
		t.Errorf("good documents failed: %+v / %+v", results[0], results[2])
	}
	if results[0].DocumentImage == "" {
		t.Error("successful result is missing the document image")
	}
	if results[1].OK() {
		t.Fatal("undecodable document reported success")
	}
	if results[1].ErrorCode != extraction.CodeUnsupportedFormat {
		t.Errorf("bad file error code = %q, want %q", results[1].ErrorCode, extraction.CodeUnsupportedFormat)
	}
	if stub.calls != 2 {
		t.Errorf("extractor called %d times, want 2 (bad file never reaches extraction)", stub.calls)
	}
}

func TestPipeline_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"missing input", extraction.ErrMissingInput, extraction.CodeMissingInput},
		{"upstream failure", &extraction.UpstreamError{Detail: "rate limited"}, extraction.CodeUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubExtractor{extract: func(int, string) (*extraction.Invoice, error) {
				return nil, tt.err
			}}
			p := extraction.NewPipeline(extraction.NewNormalizer(), stub, zap.NewNop())

			results := p.Run(context.Background(), "sk-test", []extraction.Document{
				{Filename: "a.png", ContentType: "image/png", Data: pngWithAlpha(t)},
			}, true)

			if len(results) != 1 || results[0].OK() {
				t.Fatalf("expected a single failed result, got %+v", results)
			}
			if results[0].ErrorCode != tt.wantCode {
				t.Errorf("error code = %q, want %q", results[0].ErrorCode, tt.wantCode)
			}
			if results[0].Error == "" {
				t.Error("error detail must be preserved for diagnostics")
			}
		})
	}
}

func TestPipeline_EmptyBatch(t *testing.T) {
	stub := &stubExtractor{extract: func(int, string) (*extraction.Invoice, error) {
		t.Fatal("extractor must not be called for an empty batch")
		return nil, nil
	}}
	p := extraction.NewPipeline(extraction.NewNormalizer(), stub, zap.NewNop())

	results := p.Run(context.Background(), "sk-test", nil, false)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
