// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package shoppinglist

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/ledongthuc/pdf"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/models"
)

func sampleList() *models.ShoppingList {
	return &models.ShoppingList{
		UserID: 1,
		Lines: []models.ShoppingListLine{
			{IngredientID: 1, Name: "flour", MeasurementUnit: "g", Total: 500},
			{IngredientID: 2, Name: "milk", MeasurementUnit: "ml", Total: 3000000000, Overflow: true},
		},
	}
}

func TestFormatLine(t *testing.T) {
	t.Parallel()

	got := FormatLine(models.ShoppingListLine{Name: "мука", MeasurementUnit: "г", Total: 500})
	if want := "мука (г) — 500"; got != want {
		t.Errorf("FormatLine() = %q, want %q", got, want)
	}
}

func TestNewRenderer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format   string
		wantType string
		wantErr  bool
	}{
		{FormatPDF, "application/pdf", false},
		{FormatText, "text/plain; charset=utf-8", false},
		{"docx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			r, err := NewRenderer(tt.format, config.ShoppingListConfig{Title: "List"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRenderer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if r.ContentType() != tt.wantType || r.Extension() != tt.format {
				t.Errorf("got (%q, %q)", r.ContentType(), r.Extension())
			}
		})
	}
}

func TestTextRenderer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := (&TextRenderer{Title: "Shopping list"}).Render(&buf, sampleList()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "Shopping list\n\nflour (g) — 500\nmilk (ml) — 3000000000\n"
	if buf.String() != want {
		t.Errorf("Render() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestTextRendererEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := (&TextRenderer{}).Render(&buf, &models.ShoppingList{UserID: 1}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty list without title rendered %q", buf.String())
	}
}

// pdfText extracts the text of every page.
func pdfText(t *testing.T, data []byte) string {
	t.Helper()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("rendered document is not a readable PDF: %v", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, text := range p.Content().Text {
			sb.WriteString(text.S)
		}
	}
	return sb.String()
}

func TestPDFRenderer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := (&PDFRenderer{Title: "Shopping list"}).Render(&buf, sampleList()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header")
	}

	text := pdfText(t, buf.Bytes())
	for _, want := range []string{"Shopping list", "flour (g)", "500", "milk (ml)", "3000000000"} {
		if !strings.Contains(text, want) {
			t.Errorf("PDF text missing %q in %q", want, text)
		}
	}
}

// utf16BE is how a UTF-8 TrueType font's text appears in a content stream.
func utf16BE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.BigEndian.PutUint16(out[2*i:], u)
	}
	return out
}

func TestPDFRendererCyrillic(t *testing.T) {
	t.Parallel()

	list := &models.ShoppingList{
		UserID: 1,
		Lines:  []models.ShoppingListLine{{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Total: 500}},
	}
	var buf bytes.Buffer
	if err := (&PDFRenderer{Title: "Список покупок"}).Render(&buf, list); err != nil {
		t.Fatalf("Render: %v", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("rendered document is not a readable PDF: %v", err)
	}
	page := r.Page(1)

	fonts := page.Fonts()
	if len(fonts) == 0 {
		t.Fatal("page has no fonts")
	}
	for _, name := range fonts {
		f := page.Font(name).V
		if f.Key("Subtype").Name() != "Type0" || f.Key("Encoding").Name() != "Identity-H" {
			t.Errorf("font %s is %s/%s, want a Type0 Identity-H font", name, f.Key("Subtype").Name(), f.Key("Encoding").Name())
		}
		if f.Key("ToUnicode").IsNull() {
			t.Errorf("font %s has no ToUnicode map", name)
		}
	}

	rc := page.V.Key("Contents").Reader()
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read content stream: %v", err)
	}
	for _, want := range []string{"Список", "покупок", "мука", "г", " — 500"} {
		if !bytes.Contains(content, utf16BE(want)) {
			t.Errorf("content stream does not carry %q", want)
		}
	}

	if text := pdfText(t, buf.Bytes()); !strings.Contains(text, "500") {
		t.Errorf("PDF text missing total in %q", text)
	}
}

func TestPDFRendererMissingFont(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := (&PDFRenderer{FontPath: "/nonexistent/font.ttf"}).Render(&buf, sampleList())
	if err == nil {
		t.Error("expected error for missing font file")
	}
}
