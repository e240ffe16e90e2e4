package models_test

import (
	"testing"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/models"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildChartSpecLine(t *testing.T) {
	kpis := []*models.KPI{
		{Nom: "Revenus", Date: day(20), ValeurActuelle: 80},
		{Nom: "Revenus", Date: day(10), ValeurActuelle: 70},
		{Nom: "Incidents", Date: day(15), ValeurActuelle: 3},
		{Nom: "Revenus", Date: day(15), ValeurActuelle: 75},
	}

	spec := models.BuildChartSpec("Suivi", models.ChartKindLine, []string{"Revenus", "Incidents"}, kpis)

	if len(spec.Series) != 2 {
		t.Fatalf("expected 2 series; got %d", len(spec.Series))
	}
	if spec.Series[0].Nom != "Revenus" || spec.Series[1].Nom != "Incidents" {
		t.Fatalf("series must keep the selection order; got %q, %q", spec.Series[0].Nom, spec.Series[1].Nom)
	}

	revenus := spec.Series[0]
	if len(revenus.Points) != 3 {
		t.Fatalf("expected 3 points; got %d", len(revenus.Points))
	}
	for i := 1; i < len(revenus.Points); i++ {
		if revenus.Points[i].Date.Before(revenus.Points[i-1].Date) {
			t.Fatalf("points are not date-ascending: %v", revenus.Points)
		}
	}
	if revenus.Points[0].Valeur != 70 || revenus.Points[2].Valeur != 80 {
		t.Fatalf("unexpected point values: %v", revenus.Points)
	}
}

func TestBuildChartSpecPie(t *testing.T) {
	kpis := []*models.KPI{
		{Nom: "Revenus", Date: day(10), ValeurActuelle: 300},
		{Nom: "Revenus", Date: day(11), ValeurActuelle: 200},
		{Nom: "Incidents", Date: day(10), ValeurActuelle: 10},
		{Nom: "Équipe formée", Date: day(10), ValeurActuelle: 0},
	}

	spec := models.BuildChartSpec("Répartition", models.ChartKindPie,
		[]string{"Revenus", "Incidents", "Équipe formée"}, kpis)

	if len(spec.Slices) != 2 {
		t.Fatalf("expected 2 slices (zero totals omitted); got %d", len(spec.Slices))
	}
	if spec.Slices[0].Nom != "Revenus" || spec.Slices[0].Total != 500 {
		t.Fatalf("unexpected first slice: %+v", spec.Slices[0])
	}
	if spec.Slices[1].Nom != "Incidents" || spec.Slices[1].Total != 10 {
		t.Fatalf("unexpected second slice: %+v", spec.Slices[1])
	}
}

func TestBuildChartSpecUnknownNameGetsEmptySeries(t *testing.T) {
	spec := models.BuildChartSpec("Suivi", models.ChartKindLine, []string{"Inconnu"}, nil)
	if len(spec.Series) != 1 {
		t.Fatalf("expected 1 series; got %d", len(spec.Series))
	}
	if len(spec.Series[0].Points) != 0 {
		t.Fatalf("expected empty series; got %d points", len(spec.Series[0].Points))
	}
}

func TestPartitionCommentaires(t *testing.T) {
	commentaires := []*models.Commentaire{
		{ID: 1, IsInsight: true},
		{ID: 2},
		{ID: 3, IsInsight: true},
		{ID: 4},
	}

	insights, regular := models.PartitionCommentaires(commentaires)

	if len(insights) != 2 || len(regular) != 2 {
		t.Fatalf("expected 2/2 split; got %d/%d", len(insights), len(regular))
	}
	if insights[0].ID != 1 || insights[1].ID != 3 {
		t.Fatalf("insights must keep input order; got %d, %d", insights[0].ID, insights[1].ID)
	}
	if regular[0].ID != 2 || regular[1].ID != 4 {
		t.Fatalf("regular comments must keep input order; got %d, %d", regular[0].ID, regular[1].ID)
	}
	if len(insights)+len(regular) != len(commentaires) {
		t.Fatalf("partition must be exhaustive")
	}
}
