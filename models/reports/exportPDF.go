package reports

import (
	"bytes"
	"io"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/go-pdf/fpdf"
)

// ExportAnalysePDF renders the analysis document: title block, rasterized
// chart, then the insight and comment tables.
func ExportAnalysePDF(analyse *models.Analyse, spec models.ChartSpec, insights, commentaires []*models.Commentaire, w io.Writer) error {

	chartPNG, err := RenderChartPNG(spec, 800, 400)
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(analyse.Titre), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	meta := tr("Par " + analyse.AuteurName + " — exporté le " + time.Now().Format("02/01/2006"))
	pdf.CellFormat(0, 6, meta, "", 1, "C", false, 0, "")

	if analyse.Description != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr(analyse.Description), "", "L", false)
	}

	pdf.Ln(4)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("analyse-chart", opts, bytes.NewReader(chartPNG))
	pdf.ImageOptions("analyse-chart", 15, pdf.GetY(), 180, 0, true, opts, 0, "")
	pdf.Ln(6)

	writeCommentTable(pdf, tr, "Insights", insights)
	writeCommentTable(pdf, tr, "Commentaires", commentaires)

	return pdf.Output(w)
}

func writeCommentTable(pdf *fpdf.Fpdf, tr func(string) string, title string, commentaires []*models.Commentaire) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")

	if len(commentaires) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, tr("Aucun élément."), "", 1, "L", false, 0, "")
		pdf.Ln(3)
		return
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(30, 6, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 6, tr("Auteur"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(110, 6, tr("Contenu"), "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, c := range commentaires {
		pdf.CellFormat(30, 6, c.DateCreation.Format("02/01/2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(c.UserName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(110, 6, tr(truncate(c.Contenu, 90)), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
