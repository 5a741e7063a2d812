// extract runs invoice documents through the extraction pipeline without the
// server, printing the structured results as JSON. Useful for prompt and
// schema iteration.
//
// Usage: go run ./cmd/extract invoice.pdf scan.jpg ...
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mryoshq/Accounting-AI/internal/extraction"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <file> [file ...]", filepath.Base(os.Args[0]))
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	docs := make([]extraction.Document, 0, len(os.Args)-1)
	for _, path := range os.Args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		docs = append(docs, extraction.Document{
			Filename:    filepath.Base(path),
			ContentType: contentType(path, data),
			Data:        data,
		})
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	extractor, err := extraction.NewClient()
	if err != nil {
		log.Fatalf("extraction client: %v", err)
	}
	pipeline := extraction.NewPipeline(extraction.NewNormalizer(), extractor, zl)

	results := pipeline.Run(context.Background(), apiKey, docs, true)

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Fatalf("marshal results: %v", err)
	}
	fmt.Println(string(out))
}

func contentType(path string, data []byte) string {
	if filepath.Ext(path) == ".pdf" {
		return "application/pdf"
	}
	return http.DetectContentType(data)
}
