package extraction_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/mryoshq/Accounting-AI/internal/extraction"
)

// pngWithAlpha produces a small RGBA PNG with a semi-transparent region.
func pngWithAlpha(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: uint8(x * 6)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// gifPaletted produces a paletted GIF.
func gifPaletted(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{color.White, color.Black, color.RGBA{R: 255, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, 32, 32), pal)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 3)
	}
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

// minimalPDF builds a syntactically complete blank PDF with the given page
// count, computing the xref table offsets.
func minimalPDF(t *testing.T, pages int) []byte {
	t.Helper()
	kids := ""
	for i := 0; i < pages; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 3+i)
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages),
	}
	for i := 0; i < pages; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs)+1)
	for i, o := range objs {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestNormalizer_RasterInputsBecomeRGBJPEG(t *testing.T) {
	n := extraction.NewNormalizer()

	tests := []struct {
		name string
		doc  extraction.Document
	}{
		{"png with alpha", extraction.Document{Filename: "a.png", ContentType: "image/png", Data: pngWithAlpha(t)}},
		{"paletted gif", extraction.Document{Filename: "b.gif", ContentType: "image/gif", Data: gifPaletted(t)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := n.Normalize(tt.doc)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}

			decoded, err := jpeg.Decode(bytes.NewReader(img.JPEG))
			if err != nil {
				t.Fatalf("output is not decodable JPEG: %v", err)
			}
			// Baseline JPEG decodes to YCbCr: three channels, no alpha.
			if _, ok := decoded.(*image.YCbCr); !ok {
				t.Errorf("expected YCbCr JPEG output, got %T", decoded)
			}
		})
	}
}

func TestNormalizer_Base64RoundTrip(t *testing.T) {
	n := extraction.NewNormalizer()
	img, err := n.Normalize(extraction.Document{Filename: "a.png", ContentType: "image/png", Data: pngWithAlpha(t)})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil {
		t.Fatalf("base64 decode: %v", err)
	}
	if !bytes.Equal(decoded, img.JPEG) {
		t.Error("base64 round-trip did not reproduce the JPEG bytes")
	}
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := extraction.NewNormalizer()
	doc := extraction.Document{Filename: "a.png", ContentType: "image/png", Data: pngWithAlpha(t)}

	first, err := n.Normalize(doc)
	if err != nil {
		t.Fatalf("first Normalize: %v", err)
	}
	second, err := n.Normalize(doc)
	if err != nil {
		t.Fatalf("second Normalize: %v", err)
	}
	if !bytes.Equal(first.JPEG, second.JPEG) {
		t.Error("normalizing the same document twice produced different bytes")
	}
}

func TestNormalizer_PDFFirstPageOnly(t *testing.T) {
	n := extraction.NewNormalizer()

	one, err := n.Normalize(extraction.Document{
		Filename: "one.pdf", ContentType: "application/pdf", Data: minimalPDF(t, 1),
	})
	if err != nil {
		t.Fatalf("single-page pdf: %v", err)
	}

	three, err := n.Normalize(extraction.Document{
		Filename: "three.pdf", ContentType: "application/pdf", Data: minimalPDF(t, 3),
	})
	if err != nil {
		t.Fatalf("multi-page pdf: %v", err)
	}

	// Identical first pages render identically; extra pages must not leak in.
	if !bytes.Equal(one.JPEG, three.JPEG) {
		t.Error("page count beyond one affected the normalized output")
	}
}

func TestNormalizer_UnsupportedFormat(t *testing.T) {
	n := extraction.NewNormalizer()

	tests := []struct {
		name string
		doc  extraction.Document
	}{
		{"garbage bytes", extraction.Document{Filename: "x.bin", ContentType: "application/octet-stream", Data: []byte{0xde, 0xad, 0xbe, 0xef}}},
		{"corrupted pdf", extraction.Document{Filename: "x.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 truncated")}},
		{"empty file", extraction.Document{Filename: "empty.png", ContentType: "image/png", Data: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.doc)
			if !errors.Is(err, extraction.ErrUnsupportedFormat) {
				t.Errorf("expected ErrUnsupportedFormat, got %v", err)
			}
		})
	}
}
