package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/username/anchorcomply/backend/src/models"
)

// Assemble renders the full report document and returns the PDF bytes.
// Layout: title, summary paragraph, one table section per non-empty finding
// group, action note, disclaimer.
func (a *Assembler) Assemble(res *models.AuditResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // core fonts are cp1252 only
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(reportTitle), "", 1, "", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, tr(a.SummaryText(res.Summary)), "", "", false)
	pdf.Ln(4)

	for _, sec := range a.BuildSections(res) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 6, tr(sec.Title+":"), "", 1, "", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Courier", "", 9)
		for _, row := range sec.Rows {
			pdf.MultiCell(0, 5, tr(row), "", "", false)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, tr(actionNote), "", "", false)
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 8)
	pdf.MultiCell(0, 5, tr(disclaimer), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}
	return buf.Bytes(), nil
}
