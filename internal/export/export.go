// Package export renders the task collection as JSON, CSV or PDF.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sandeepkv93/tasklist/internal/model"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", s)
	}
}

// Source is satisfied by the storage manager.
type Source interface {
	FetchAll(ctx context.Context) ([]model.Task, error)
}

type Exporter struct{ src Source }

func NewExporter(src Source) *Exporter { return &Exporter{src: src} }

type record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Exporter) Export(ctx context.Context, format Format) ([]byte, error) {
	all, err := e.src.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		out := make([]record, 0, len(all))
		for _, t := range all {
			out = append(out, record{ID: t.ID, Title: t.Title, CreatedAt: t.CreatedAt.UTC(), UpdatedAt: t.UpdatedAt.UTC()})
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case FormatCSV:
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "title", "created_at", "updated_at"})
		for _, t := range all {
			_ = w.Write([]string{t.ID, t.Title, t.CreatedAt.UTC().Format(time.RFC3339), t.UpdatedAt.UTC().Format(time.RFC3339)})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case FormatPDF:
		return renderPDF(all)
	default:
		return nil, fmt.Errorf("export: unknown format %q", format)
	}
}

func renderPDF(all []model.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task List", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	if len(all) == 0 {
		pdf.MultiCell(0, 6, "(no tasks)", "0", "L", false)
	}
	// Core fonts are cp1252; translate so accented titles survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for i, t := range all {
		line := fmt.Sprintf("%d. [%s] %s", i+1, t.ShortID(), tr(t.Title))
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
