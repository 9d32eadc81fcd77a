// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package shoppinglist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/models"
)

// Download formats.
const (
	FormatPDF  = "pdf"
	FormatText = "txt"
)

// Renderer writes a shopping list as a downloadable document.
type Renderer interface {
	Render(w io.Writer, list *models.ShoppingList) error
	ContentType() string
	Extension() string
}

// FormatLine renders one line as "name (unit) — amount".
func FormatLine(line models.ShoppingListLine) string {
	return line.Name + " (" + line.MeasurementUnit + ") — " + strconv.FormatInt(line.Total, 10)
}

// NewRenderer returns the renderer for format.
func NewRenderer(format string, cfg config.ShoppingListConfig) (Renderer, error) {
	switch format {
	case FormatPDF:
		return &PDFRenderer{Title: cfg.Title, FontPath: cfg.FontPath}, nil
	case FormatText:
		return &TextRenderer{Title: cfg.Title}, nil
	default:
		return nil, fmt.Errorf("unsupported shopping list format %q", format)
	}
}

// TextRenderer writes UTF-8 plain text.
type TextRenderer struct {
	Title string
}

func (r *TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }
func (r *TextRenderer) Extension() string { return FormatText }

func (r *TextRenderer) Render(w io.Writer, list *models.ShoppingList) error {
	bw := bufio.NewWriter(w)
	if r.Title != "" {
		fmt.Fprintf(bw, "%s\n\n", r.Title)
	}
	for _, line := range list.Lines {
		fmt.Fprintln(bw, FormatLine(line))
	}
	return bw.Flush()
}

// defaultFont is DejaVu Sans Condensed. It covers Latin, Cyrillic and Greek.
//
//go:embed fonts/DejaVuSansCondensed.ttf
var defaultFont []byte

const fontFamily = "ListFont"

// PDFRenderer writes an A4 PDF with a UTF-8 TrueType font. FontPath replaces
// the embedded DejaVu Sans for scripts it lacks.
type PDFRenderer struct {
	Title    string
	FontPath string
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }
func (r *PDFRenderer) Extension() string { return FormatPDF }

func (r *PDFRenderer) Render(w io.Writer, list *models.ShoppingList) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("Foodgram", true)

	if r.FontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", r.FontPath)
	} else {
		pdf.AddUTF8FontFromBytes(fontFamily, "", defaultFont)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	pdf.AddPage()
	if r.Title != "" {
		pdf.SetFont(fontFamily, "", 18)
		pdf.CellFormat(0, 12, r.Title, "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont(fontFamily, "", 12)
	if len(list.Lines) == 0 {
		pdf.CellFormat(0, 8, "The shopping cart is empty.", "", 1, "L", false, 0, "")
	}
	for _, line := range list.Lines {
		pdf.CellFormat(0, 8, FormatLine(line), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
