package models_test

import (
	"math"
	"testing"

	"github.com/EliandyDumortier/pilotage-eclair/models"
)

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		name     string
		valeur   float64
		objectif float64
		warning  float64
		critique float64
		want     models.KPIStatus
	}{
		{"critical deviation", 80, 100, 10, 20, models.KPIStatusCritique},
		{"warning deviation", 88, 100, 10, 20, models.KPIStatusWarning},
		{"within tolerance", 95, 100, 10, 20, models.KPIStatusNormal},
		{"on target", 100, 100, 10, 20, models.KPIStatusNormal},
		{"exactly at warning threshold", 90, 100, 10, 20, models.KPIStatusWarning},
		{"exactly at critical threshold", 120, 100, 10, 20, models.KPIStatusCritique},
		{"above target counts too", 125, 100, 10, 20, models.KPIStatusCritique},
		// Zero thresholds: any record is at least critique since deviation >= 0.
		{"zero thresholds, on target", 100, 100, 0, 0, models.KPIStatusCritique},
		{"zero thresholds, off target", 101, 100, 0, 0, models.KPIStatusCritique},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.ClassifyStatus(tc.valeur, tc.objectif, tc.warning, tc.critique)
			if got != tc.want {
				t.Fatalf("ClassifyStatus(%v, %v, %v, %v) = %q; want %q",
					tc.valeur, tc.objectif, tc.warning, tc.critique, got, tc.want)
			}
		})
	}
}

// The ordering invariant: once the deviation reaches the critical threshold
// the status can never be warning, and once it reaches the warning threshold
// it can never be normal.
func TestClassifyStatusOrdering(t *testing.T) {
	objectif := 80.0
	for warning := 0.0; warning <= 30; warning += 2.5 {
		for critique := warning; critique <= 40; critique += 2.5 {
			for valeur := 30.0; valeur <= 130; valeur += 1.25 {
				got := models.ClassifyStatus(valeur, objectif, warning, critique)
				deviation := math.Abs(valeur - objectif)

				if deviation >= critique && got != models.KPIStatusCritique {
					t.Fatalf("deviation %v >= critique %v but status %q", deviation, critique, got)
				}
				if deviation >= warning && got == models.KPIStatusNormal {
					t.Fatalf("deviation %v >= warning %v but status normal", deviation, warning)
				}
				if deviation < warning && got != models.KPIStatusNormal {
					t.Fatalf("deviation %v < warning %v but status %q", deviation, warning, got)
				}
			}
		}
	}
}

func TestKPIRefresh(t *testing.T) {
	kpi := models.KPI{
		Nom:            "Revenus",
		ValeurActuelle: 72,
		Objectif:       90,
		SeuilWarning:   9,
		SeuilCritique:  18,
	}
	kpi.Refresh()

	if kpi.Ecart != -18 {
		t.Fatalf("expected ecart -18; got %v", kpi.Ecart)
	}
	if kpi.Statut != models.KPIStatusCritique {
		t.Fatalf("expected statut critique; got %q", kpi.Statut)
	}
}
