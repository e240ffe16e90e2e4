package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
)

// Analyse is an author-owned, chart-typed selection of KPIs by name.
// The m2m set is resolved from KpiNames at create/update time, never
// maintained incrementally.
type Analyse struct {
	ID          int         `gorm:"primary_key" json:"id"`
	Titre       string      `gorm:"size:200;not null" json:"titre" binding:"required"`
	Description string      `gorm:"type:text" json:"description"`
	ChartType   ChartKind   `gorm:"size:10;not null;default:line" json:"chart_type"`
	Categorie   KPICategory `gorm:"size:50;default:autre" json:"categorie"`
	IsPublished bool        `gorm:"not null;default:false" json:"is_published"`
	AuteurId    int         `gorm:"index;not null" json:"auteur_id"`
	AuteurName  string      `gorm:"size:100" json:"auteur_name"`
	KpiNames    string      `gorm:"type:text" json:"-"`
	DateDebut   string      `gorm:"size:10" json:"date_debut"`
	DateFin     string      `gorm:"size:10" json:"date_fin"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	Auteur *User  `gorm:"foreignKey:AuteurId;constraint:OnDelete:CASCADE" json:"-"`
	KPIs   []*KPI `gorm:"many2many:analyse_kpis" json:"-"`
}

type NewAnalyse struct {
	Titre       string      `json:"titre" binding:"required"`
	Description string      `json:"description"`
	ChartType   ChartKind   `json:"chart_type" binding:"required"`
	Categorie   KPICategory `json:"categorie"`
	IsPublished bool        `json:"is_published"`
	KpiNames    []string    `json:"kpi_names" binding:"required,min=1"`
	DateDebut   string      `json:"date_debut"`
	DateFin     string      `json:"date_fin"`
}

func (a *Analyse) Names() []string {
	if strings.TrimSpace(a.KpiNames) == "" {
		return nil
	}
	parts := strings.Split(a.KpiNames, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func joinNames(names []string) string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return strings.Join(utils.UniqueSlice(cleaned), ",")
}

// AnalysisFilter is the ambient session copy of the selection used by the
// detail/export views of the original flow. The authoritative copy lives on
// the Analyse row; this one only backs sessions created before a row was
// saved with the selection.
type AnalysisFilter struct {
	KpiNames  []string `json:"kpi_names"`
	DateDebut string   `json:"date_debut"`
	DateFin   string   `json:"date_fin"`
}

func SaveAnalysisFilter(ctx context.Context, f AnalysisFilter) error {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return nil
	}
	return config.SetRedisObject("AnalysisFilter:"+token, f, tokenLifespan())
}

func LoadAnalysisFilter(ctx context.Context) (AnalysisFilter, bool) {
	var f AnalysisFilter
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return f, false
	}
	exists, err := config.GetRedisObject("AnalysisFilter:"+token, &f)
	if err != nil || !exists {
		return f, false
	}
	return f, true
}

// Filter resolves the KPI selection for detail/export: the persisted
// selection wins; the session copy is the fallback.
func (a *Analyse) Filter(ctx context.Context) KPIFilter {
	names := a.Names()
	dateDebut := a.DateDebut
	dateFin := a.DateFin
	if len(names) == 0 {
		if f, ok := LoadAnalysisFilter(ctx); ok {
			names = f.KpiNames
			dateDebut = f.DateDebut
			dateFin = f.DateFin
		}
	}
	return KPIFilter{
		Names:         names,
		DateDebut:     dateDebut,
		DateFin:       dateFin,
		OrderForChart: true,
	}
}

func CreateAnalyse(ctx context.Context, input *NewAnalyse) (*Analyse, error) {

	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, utils.ErrorUnauthorized
	}
	userName, _ := utils.GetUserNameFromContext(ctx)

	if !input.ChartType.Valid() {
		return nil, errors.New("invalid chart type")
	}
	names := utils.UniqueSlice(input.KpiNames)
	if len(names) == 0 {
		return nil, errors.New("at least one KPI indicator must be selected")
	}

	analyse := Analyse{
		Titre:       input.Titre,
		Description: input.Description,
		ChartType:   input.ChartType,
		Categorie:   input.Categorie,
		IsPublished: input.IsPublished,
		AuteurId:    userId,
		AuteurName:  userName,
		KpiNames:    joinNames(names),
		DateDebut:   input.DateDebut,
		DateFin:     input.DateFin,
	}

	if err := db.WithContext(ctx).Create(&analyse).Error; err != nil {
		return nil, err
	}

	if err := analyse.syncKPIs(ctx, names); err != nil {
		return nil, err
	}

	// session fallback for the original detail/export flow
	_ = SaveAnalysisFilter(ctx, AnalysisFilter{
		KpiNames:  names,
		DateDebut: input.DateDebut,
		DateFin:   input.DateFin,
	})

	return &analyse, nil
}

// resolve the name selection to concrete rows and replace the m2m set
func (a *Analyse) syncKPIs(ctx context.Context, names []string) error {

	db := config.GetDB()
	var matching []*KPI

	if err := db.WithContext(ctx).Where("nom IN ?", names).Find(&matching).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Model(a).Association("KPIs").Replace(matching)
}

func UpdateAnalyse(ctx context.Context, id int, input *NewAnalyse) (*Analyse, error) {

	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, utils.ErrorUnauthorized
	}

	analyse, err := utils.FetchModel[Analyse](ctx, id)
	if err != nil {
		return nil, err
	}
	if analyse.AuteurId != userId {
		return nil, utils.ErrorUnauthorized
	}

	if !input.ChartType.Valid() {
		return nil, errors.New("invalid chart type")
	}
	names := utils.UniqueSlice(input.KpiNames)
	if len(names) == 0 {
		return nil, errors.New("at least one KPI indicator must be selected")
	}

	analyse.Titre = input.Titre
	analyse.Description = input.Description
	analyse.ChartType = input.ChartType
	analyse.Categorie = input.Categorie
	analyse.IsPublished = input.IsPublished
	analyse.KpiNames = joinNames(names)
	analyse.DateDebut = input.DateDebut
	analyse.DateFin = input.DateFin

	if err := db.WithContext(ctx).Save(analyse).Error; err != nil {
		return nil, err
	}
	if err := analyse.syncKPIs(ctx, names); err != nil {
		return nil, err
	}

	_ = SaveAnalysisFilter(ctx, AnalysisFilter{
		KpiNames:  names,
		DateDebut: input.DateDebut,
		DateFin:   input.DateFin,
	})

	return analyse, nil
}

func DeleteAnalyse(ctx context.Context, id int) (*Analyse, error) {

	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, utils.ErrorUnauthorized
	}

	analyse, err := utils.FetchModel[Analyse](ctx, id)
	if err != nil {
		return nil, err
	}
	if analyse.AuteurId != userId {
		return nil, utils.ErrorUnauthorized
	}

	if err := db.WithContext(ctx).Select("KPIs").Delete(analyse).Error; err != nil {
		return nil, err
	}
	return analyse, nil
}

// GetAnalyses applies the visibility rule: analysts see only their own,
// everyone else only published ones.
func GetAnalyses(ctx context.Context, role UserRole, userId int) ([]*Analyse, error) {

	db := config.GetDB()
	var results []*Analyse

	dbCtx := db.WithContext(ctx).Model(&Analyse{})
	if role == UserRoleAnalyste {
		dbCtx = dbCtx.Where("auteur_id = ?", userId)
	} else {
		dbCtx = dbCtx.Where("is_published = ?", true)
	}
	if err := dbCtx.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func GetAnalyse(ctx context.Context, id int, role UserRole, userId int) (*Analyse, error) {

	analyse, err := utils.FetchModel[Analyse](ctx, id)
	if err != nil {
		return nil, err
	}
	visible := analyse.IsPublished || analyse.AuteurId == userId || role == UserRoleAdmin
	if !visible {
		return nil, utils.ErrorRecordNotFound
	}
	return analyse, nil
}

// AnalyseKPIs loads the referenced KPI rows, date-ascending for charting.
func AnalyseKPIs(ctx context.Context, analyse *Analyse) ([]*KPI, error) {
	f := analyse.Filter(ctx)
	if len(f.Names) == 0 {
		return nil, nil
	}
	return SearchKPIs(ctx, f)
}
