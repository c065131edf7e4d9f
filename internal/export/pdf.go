// Package export renders saved recipes into printable formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"recipebox/internal/recipe"
)

// ContentType is the MIME type of WritePDF output.
const ContentType = "application/pdf"

// WritePDF renders r as a single-column A4 document: title, a metadata line,
// the description, the ingredient list and numbered steps.
func WritePDF(w io.Writer, r *recipe.Recipe) error {
	if r == nil {
		return errors.New("export: nil recipe")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("recipebox", true)
	// Core fonts are cp1252; translate UTF-8 input.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := r.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled recipe"
	}
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(title), "", "L", false)

	if meta := metaLine(r); meta != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr(meta), "", "L", false)
	}
	if r.Description != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5, tr(r.Description), "", "L", false)
	}

	if len(r.Ingredients) > 0 {
		heading(pdf, "Ingredients")
		for _, ing := range r.Ingredients {
			pdf.MultiCell(0, 6, tr("- "+ingredientLine(ing)), "", "L", false)
		}
	}
	if len(r.Steps) > 0 {
		heading(pdf, "Steps")
		for i, s := range r.Steps {
			n := s.Order
			if n <= 0 {
				n = i + 1
			}
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", n, s.Instruction)), "", "L", false)
			pdf.Ln(1)
		}
	}
	if r.SourceURL != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 9)
		pdf.WriteLinkString(5, tr(r.SourceURL), r.SourceURL)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func metaLine(r *recipe.Recipe) string {
	var parts []string
	if r.CookingTime > 0 {
		parts = append(parts, fmt.Sprintf("%d min", r.CookingTime))
	}
	if r.Servings > 0 {
		parts = append(parts, fmt.Sprintf("serves %d", r.Servings))
	}
	if r.Difficulty != "" {
		parts = append(parts, r.Difficulty)
	}
	if r.Cuisine != "" {
		parts = append(parts, r.Cuisine)
	}
	return strings.Join(parts, " | ")
}

func ingredientLine(ing recipe.Ingredient) string {
	return strings.Join(strings.Fields(strings.Join([]string{ing.Amount, ing.Unit, ing.Name}, " ")), " ")
}
