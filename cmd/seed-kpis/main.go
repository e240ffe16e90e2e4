// seed-kpis fills the database with 30 days of simulated indicator data, one
// record per indicator per day.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-kpis
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/models"
)

var indicatorNames = map[models.KPICategory][]string{
	models.KPICategoryFinancier: {
		"Taux d'acceptation",
		"Montant moyen",
		"Revenus",
		"Coût du risque",
	},
	models.KPICategoryOperationnel: {
		"Délai de traitement",
		"Taux de réclamation",
		"Appels traités",
	},
	models.KPICategoryAutre: {
		"Satisfaction client",
		"Équipe formée",
		"Incidents",
	},
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	models.MigrateTable()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	created := 0
	for daysAgo := 0; daysAgo < 30; daysAgo++ {
		jour := today.AddDate(0, 0, -daysAgo)
		for _, categorie := range models.AllKPICategories() {
			for _, nom := range indicatorNames[categorie] {
				objectif := round2(60 + rng.Float64()*40)
				ecart := round2(-20 + rng.Float64()*40)

				kpi := models.KPI{
					Nom:            nom,
					Description:    fmt.Sprintf("Indicateur %s pour la catégorie %s", strings.ToLower(nom), categorie),
					ValeurActuelle: round2(objectif + ecart),
					Objectif:       objectif,
					Date:           jour,
					Categorie:      categorie,
					SeuilWarning:   round2(math.Abs(objectif * 0.1)),
					SeuilCritique:  round2(math.Abs(objectif * 0.2)),
				}
				if err := db.WithContext(ctx).Create(&kpi).Error; err != nil {
					fmt.Fprintf(os.Stderr, "failed to create KPI %q on %s: %v\n", nom, jour.Format("2006-01-02"), err)
					os.Exit(1)
				}
				created++
			}
		}
	}

	fmt.Printf("Generated %d KPI records over 30 days\n", created)
}
