package reports

import (
	"fmt"
	"io"

	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/xuri/excelize/v2"
)

const kpiSheetName = "KPIs"

// ExportKPIExcel writes the filtered KPI set as a single worksheet.
func ExportKPIExcel(kpis []*models.KPI, w io.Writer) error {

	f := excelize.NewFile()
	index, err := f.NewSheet(kpiSheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// Add headers
	f.SetCellValue(kpiSheetName, "A1", "Indicateur")
	f.SetCellValue(kpiSheetName, "B1", "Valeur Actuelle")
	f.SetCellValue(kpiSheetName, "C1", "Objectif")
	f.SetCellValue(kpiSheetName, "D1", "Écart")
	f.SetCellValue(kpiSheetName, "E1", "Catégorie")
	f.SetCellValue(kpiSheetName, "F1", "Date")
	f.SetCellValue(kpiSheetName, "G1", "Statut")

	// Add data
	for i, kpi := range kpis {
		kpi.Refresh()
		row := fmt.Sprint(i + 2)
		f.SetCellValue(kpiSheetName, "A"+row, kpi.Nom)
		f.SetCellValue(kpiSheetName, "B"+row, kpi.ValeurActuelle)
		f.SetCellValue(kpiSheetName, "C"+row, kpi.Objectif)
		f.SetCellValue(kpiSheetName, "D"+row, kpi.Ecart)
		f.SetCellValue(kpiSheetName, "E"+row, kpi.Categorie.Label())
		f.SetCellValue(kpiSheetName, "F"+row, kpi.Date.Format("02/01/2006"))
		f.SetCellValue(kpiSheetName, "G"+row, string(kpi.Statut))
	}

	return f.Write(w)
}
