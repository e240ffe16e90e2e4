package models

import (
	"log"

	"github.com/EliandyDumortier/pilotage-eclair/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&KPI{},
		&Commentaire{},
		&Analyse{},
		&Report{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
