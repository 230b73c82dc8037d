package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders tabular datasets and certificate documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Certificate describes the fields printed on an issued certificate.
type Certificate struct {
	StudentName string
	EventName   string
	Title       string
	CreditGroup string
	IssuedBy    string
	IssuedOn    string
}

// RenderCertificate produces a landscape single-page certificate document.
func (e *PDFExporter) RenderCertificate(cert Certificate) ([]byte, error) {
	if cert.StudentName == "" || cert.EventName == "" {
		return nil, fmt.Errorf("certificate requires student and event names")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 26)
	pdf.CellFormat(0, 16, "CERTIFICATE OF PARTICIPATION", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, cert.StudentName, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 13)
	line := fmt.Sprintf("has successfully participated in %s", cert.EventName)
	if cert.Title != "" {
		line = fmt.Sprintf("%s (%s)", line, cert.Title)
	}
	pdf.CellFormat(0, 8, line, "", 1, "C", false, 0, "")
	if cert.CreditGroup != "" && cert.CreditGroup != "None" {
		pdf.Ln(2)
		pdf.CellFormat(0, 8, fmt.Sprintf("credited toward %s", cert.CreditGroup), "", 1, "C", false, 0, "")
	}

	pdf.Ln(14)
	pdf.SetFont("Arial", "I", 11)
	footer := cert.IssuedBy
	if cert.IssuedOn != "" {
		footer = fmt.Sprintf("%s - %s", footer, cert.IssuedOn)
	}
	pdf.CellFormat(0, 8, footer, "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
