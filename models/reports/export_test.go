package reports_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/EliandyDumortier/pilotage-eclair/models/reports"
	"github.com/xuri/excelize/v2"
)

func sampleKPIs() []*models.KPI {
	return []*models.KPI{
		{
			Nom:            "Revenus",
			ValeurActuelle: 72,
			Objectif:       90,
			Date:           time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
			Categorie:      models.KPICategoryFinancier,
			SeuilWarning:   9,
			SeuilCritique:  18,
		},
		{
			Nom:            "Satisfaction client",
			ValeurActuelle: 95,
			Objectif:       100,
			Date:           time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC),
			Categorie:      models.KPICategoryAutre,
			SeuilWarning:   10,
			SeuilCritique:  20,
		},
	}
}

func TestExportKPIExcel(t *testing.T) {
	var buf bytes.Buffer
	if err := reports.ExportKPIExcel(sampleKPIs(), &buf); err != nil {
		t.Fatalf("ExportKPIExcel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open generated workbook: %v", err)
	}
	defer f.Close()

	get := func(cell string) string {
		t.Helper()
		v, err := f.GetCellValue("KPIs", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		return v
	}

	if got := get("A1"); got != "Indicateur" {
		t.Fatalf("A1 = %q; want Indicateur", got)
	}
	if got := get("G1"); got != "Statut" {
		t.Fatalf("G1 = %q; want Statut", got)
	}
	if got := get("A2"); got != "Revenus" {
		t.Fatalf("A2 = %q; want Revenus", got)
	}
	if got := get("E2"); got != "Financier" {
		t.Fatalf("E2 = %q; want Financier", got)
	}
	if got := get("F2"); got != "15/08/2026" {
		t.Fatalf("F2 = %q; want 15/08/2026", got)
	}
	if got := get("G2"); got != "critique" {
		t.Fatalf("G2 = %q; want critique", got)
	}
	if got := get("G3"); got != "normal" {
		t.Fatalf("G3 = %q; want normal", got)
	}
}

func sampleSpec(kind models.ChartKind) models.ChartSpec {
	kpis := sampleKPIs()
	return models.BuildChartSpec("Suivi", kind, []string{"Revenus", "Satisfaction client"}, kpis)
}

func TestRenderChartPNG(t *testing.T) {
	pngMagic := []byte{0x89, 'P', 'N', 'G'}

	for _, kind := range []models.ChartKind{models.ChartKindLine, models.ChartKindBar, models.ChartKindPie} {
		data, err := reports.RenderChartPNG(sampleSpec(kind), 800, 400)
		if err != nil {
			t.Fatalf("RenderChartPNG(%s): %v", kind, err)
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Fatalf("RenderChartPNG(%s) did not produce a PNG", kind)
		}
	}
}

func TestRenderChartPNGEmptyData(t *testing.T) {
	spec := models.ChartSpec{Titre: "Vide", Kind: models.ChartKindLine}
	if _, err := reports.RenderChartPNG(spec, 800, 400); err == nil {
		t.Fatalf("expected error for empty chart data")
	}
}

func TestExportAnalysePDF(t *testing.T) {
	analyse := &models.Analyse{
		ID:         1,
		Titre:      "Suivi des revenus",
		AuteurName: "analyste1",
	}
	insights := []*models.Commentaire{
		{UserName: "analyste1", Contenu: "Écart critique sur les revenus", IsInsight: true, DateCreation: time.Now()},
	}
	commentaires := []*models.Commentaire{
		{UserName: "metier1", Contenu: "À surveiller", DateCreation: time.Now()},
	}

	var buf bytes.Buffer
	err := reports.ExportAnalysePDF(analyse, sampleSpec(models.ChartKindLine), insights, commentaires, &buf)
	if err != nil {
		t.Fatalf("ExportAnalysePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}
