// Package export serializes crawl results to CSV and JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/maltedev/marketplace-scraper/internal/models"
)

// csvHeader is the fixed column layout of CSV exports. Consumers rely
// on the order staying stable across runs.
var csvHeader = []string{
	"id", "name", "brand", "price", "rating", "feedbacks", "image",
	"description", "seller", "category", "subcategory",
	"seller_rating", "seller_feedback", "seller_orders", "url",
}

// flattenText folds line breaks into spaces so multi-line descriptions
// stay on one CSV row cell line.
func flattenText(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// Writer persists extracted records to some destination.
type Writer interface {
	Write(products []*models.Product) error
	Close() error
}

// CSVWriter streams records into a CSV file with the fixed header.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

func NewCSVWriter(path string) (*CSVWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	return &CSVWriter{file: file, writer: writer}, nil
}

func (w *CSVWriter) Write(products []*models.Product) error {
	for _, p := range products {
		record := []string{
			p.ID,
			p.Name,
			p.Brand,
			p.Price,
			p.Rating,
			p.Feedbacks,
			strings.Join(p.Images, ","),
			flattenText(p.Description),
			p.Seller,
			p.Category,
			p.Subcategory,
			p.SellerRating,
			p.SellerFeedback,
			p.SellerOrders,
			p.URL,
		}
		if err := w.writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.writer.Flush()
	return w.writer.Error()
}

func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return w.file.Close()
}

// JSONWriter collects records and writes them as one indented array on
// Close.
type JSONWriter struct {
	file     *os.File
	products []*models.Product
}

func NewJSONWriter(path string) (*JSONWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON file: %w", err)
	}
	return &JSONWriter{file: file, products: make([]*models.Product, 0)}, nil
}

func (w *JSONWriter) Write(products []*models.Product) error {
	w.products = append(w.products, products...)
	return nil
}

func (w *JSONWriter) Close() error {
	encoder := json.NewEncoder(w.file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(w.products); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return w.file.Close()
}

// DualWriter fans records out to several writers.
type DualWriter struct {
	writers []Writer
}

func NewDualWriter(writers ...Writer) *DualWriter {
	return &DualWriter{writers: writers}
}

func (w *DualWriter) Write(products []*models.Product) error {
	for _, writer := range w.writers {
		if err := writer.Write(products); err != nil {
			return err
		}
	}
	return nil
}

func (w *DualWriter) Close() error {
	var firstErr error
	for _, writer := range w.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// New builds the writer for a format ("csv", "json" or "both") using
// basePath without extension.
func New(format, basePath string) (Writer, error) {
	switch format {
	case "csv":
		return NewCSVWriter(basePath + ".csv")
	case "json":
		return NewJSONWriter(basePath + ".json")
	case "both":
		csvWriter, err := NewCSVWriter(basePath + ".csv")
		if err != nil {
			return nil, err
		}
		jsonWriter, err := NewJSONWriter(basePath + ".json")
		if err != nil {
			csvWriter.Close()
			return nil, err
		}
		return NewDualWriter(csvWriter, jsonWriter), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}
