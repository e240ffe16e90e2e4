package models

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
	"gorm.io/gorm"
)

type KPI struct {
	ID             int         `gorm:"primary_key" json:"id"`
	Nom            string      `gorm:"size:100;not null;index" json:"nom" binding:"required"`
	Description    string      `gorm:"type:text" json:"description"`
	ValeurActuelle float64     `gorm:"not null" json:"valeur_actuelle"`
	Objectif       float64     `gorm:"not null" json:"objectif"`
	Date           time.Time   `gorm:"type:date;not null;index" json:"date"`
	Categorie      KPICategory `gorm:"size:50;not null;default:autre" json:"categorie"`
	SeuilWarning   float64     `gorm:"not null;default:0" json:"seuil_warning"`
	SeuilCritique  float64     `gorm:"not null;default:0" json:"seuil_critique"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Derived; never stored, recomputed on every load.
	Ecart  float64   `gorm:"-" json:"ecart"`
	Statut KPIStatus `gorm:"-" json:"statut"`
}

// ClassifyStatus derives the alert level from value/target/thresholds.
// With both thresholds at zero, any nonzero deviation is critique
// (deviation >= 0 holds): intended policy, kept as-is.
func ClassifyStatus(valeurActuelle, objectif, seuilWarning, seuilCritique float64) KPIStatus {
	deviation := math.Abs(valeurActuelle - objectif)
	if deviation >= seuilCritique {
		return KPIStatusCritique
	}
	if deviation >= seuilWarning {
		return KPIStatusWarning
	}
	return KPIStatusNormal
}

// Refresh recomputes the derived fields.
func (k *KPI) Refresh() {
	k.Ecart = k.ValeurActuelle - k.Objectif
	k.Statut = ClassifyStatus(k.ValeurActuelle, k.Objectif, k.SeuilWarning, k.SeuilCritique)
}

func (k *KPI) AfterFind(tx *gorm.DB) error {
	k.Refresh()
	return nil
}

// KPIFilter narrows the KPI collection. All recognized options compose
// conjunctively; Search matches nom OR description.
type KPIFilter struct {
	Date      string
	Categorie string
	Search    string
	Names     []string
	DateDebut string
	DateFin   string

	// Dashboard flow only: without a Date option, keep KPIs dated on/after
	// the first day of the current month.
	DefaultCurrentMonth bool

	// Chart flows need ascending dates.
	OrderForChart bool
}

// ParseDateFilter parses a YYYY-MM-DD query value. A malformed value is
// reported as absent so callers skip the filter instead of failing the
// request; the same policy applies on every entry point.
func ParseDateFilter(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func FirstOfCurrentMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func (f KPIFilter) apply(dbCtx *gorm.DB) *gorm.DB {
	if d, ok := ParseDateFilter(f.Date); ok {
		dbCtx = dbCtx.Where("date = ?", d)
	} else if f.DefaultCurrentMonth {
		dbCtx = dbCtx.Where("date >= ?", FirstOfCurrentMonth(time.Now()))
	}
	if f.Categorie != "" {
		dbCtx = dbCtx.Where("categorie = ?", f.Categorie)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		dbCtx = dbCtx.Where("LOWER(nom) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if len(f.Names) > 0 {
		dbCtx = dbCtx.Where("nom IN ?", utils.UniqueSlice(f.Names))
	}
	if d, ok := ParseDateFilter(f.DateDebut); ok {
		dbCtx = dbCtx.Where("date >= ?", d)
	}
	if d, ok := ParseDateFilter(f.DateFin); ok {
		dbCtx = dbCtx.Where("date <= ?", d)
	}
	return dbCtx
}

func (f KPIFilter) order() string {
	if f.OrderForChart {
		return "date ASC, nom ASC"
	}
	return "date DESC, nom ASC"
}

func SearchKPIs(ctx context.Context, f KPIFilter) ([]*KPI, error) {

	db := config.GetDB()
	var results []*KPI

	err := f.apply(db.WithContext(ctx).Model(&KPI{})).Order(f.order()).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func GetKPI(ctx context.Context, id int) (*KPI, error) {
	return utils.FetchModel[KPI](ctx, id)
}

// CriticalKPIs returns the alerting subset for the métier dashboard using a
// database-level predicate. It must yield the same set as keeping the
// records ClassifyStatus marks critique.
func CriticalKPIs(ctx context.Context, f KPIFilter) ([]*KPI, error) {

	db := config.GetDB()
	var results []*KPI

	err := f.apply(db.WithContext(ctx).Model(&KPI{})).
		Where("ABS(valeur_actuelle - objectif) >= seuil_critique").
		Order(f.order()).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
