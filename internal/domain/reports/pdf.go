package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the summary as a one-page A4 report.
func WritePDF(w io.Writer, summary Summary, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Relatorio de RH")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Gerado em %s", generatedAt.Format("2006-01-02 15:04")))
	if summary.DepartmentScope != "" {
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("Escopo: departamento %s", summary.DepartmentScope))
	}
	pdf.Ln(10)

	section(pdf, "Headcount por departamento")
	for _, row := range summary.Headcount {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", row.DepartmentName, row.Headcount))
		pdf.Ln(5)
	}

	section(pdf, "Media das avaliacoes por periodo")
	for _, row := range summary.Evaluations {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %.2f (%d avaliacoes)", row.Period, row.Average, row.Count))
		pdf.Ln(5)
	}

	section(pdf, "Reconhecimentos por mes")
	for _, row := range summary.Recognition {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d estrelas, %d dislikes", row.Month, row.Stars, row.Dislikes))
		pdf.Ln(5)
	}

	section(pdf, "Despesas por status")
	for _, row := range summary.Expenses {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d lancamentos, total %s", row.Status, row.Count, row.Total))
		pdf.Ln(5)
	}

	section(pdf, "Check-in de hoje")
	pdf.Cell(0, 6, fmt.Sprintf("%d de %d responderam (%.0f%%)",
		summary.Checkins.Answered, summary.Checkins.Headcount, summary.Checkins.Rate*100))

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
}
