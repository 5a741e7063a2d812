package extraction

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

const (
	// renderDPI is the rasterization resolution for PDF pages. 144 DPI keeps
	// the payload small while preserving enough detail for text extraction.
	renderDPI = 144

	jpegQuality = 95
)

// Document is an uploaded file as received at the system boundary. It is
// transient: consumed by normalization and discarded.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsPDF reports whether the declared media type indicates a PDF.
func (d Document) IsPDF() bool {
	return d.ContentType == "application/pdf"
}

// NormalizedImage is the canonical representation every document is reduced
// to before extraction: an RGB JPEG plus its base64 text encoding.
type NormalizedImage struct {
	JPEG   []byte
	Base64 string
}

// Normalizer converts uploaded documents into NormalizedImages so a single
// extraction code path serves both PDFs and raster images.
type Normalizer struct{}

func NewNormalizer() *Normalizer { return &Normalizer{} }

// Normalize decodes the document (first page only for PDFs), flattens it to
// RGB, and re-encodes it as JPEG at quality 95. The input document is not
// mutated. Returns ErrUnsupportedFormat when the bytes decode as neither.
func (n *Normalizer) Normalize(doc Document) (*NormalizedImage, error) {
	var (
		img image.Image
		err error
	)
	if doc.IsPDF() {
		img, err = renderFirstPage(doc.Data)
	} else {
		img, err = imaging.Decode(bytes.NewReader(doc.Data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, doc.Filename, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flattenRGB(img), imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg for %s: %w", doc.Filename, err)
	}

	return &NormalizedImage{
		JPEG:   buf.Bytes(),
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// renderFirstPage rasterizes page one of a PDF at renderDPI. Pages beyond
// the first never affect the result.
func renderFirstPage(data []byte) (image.Image, error) {
	pdf, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer pdf.Close()

	if pdf.NumPage() == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	img, err := pdf.ImageDPI(0, renderDPI)
	if err != nil {
		return nil, fmt.Errorf("render pdf page: %w", err)
	}
	return img, nil
}

// flattenRGB composites the image over a white background, discarding any
// alpha channel or palette. White keeps transparent document regions legible
// in the resulting JPEG.
func flattenRGB(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}
