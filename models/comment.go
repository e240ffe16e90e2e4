package models

import (
	"context"
	"errors"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
)

// Commentaire is append-only: no edit/delete surface exists; rows go away
// only through the KPI/User cascade.
type Commentaire struct {
	ID           int       `gorm:"primary_key" json:"id"`
	KpiId        int       `gorm:"index;not null" json:"kpi_id"`
	UserId       int       `gorm:"index;not null" json:"user_id"`
	UserName     string    `gorm:"size:100" json:"user_name"`
	Contenu      string    `gorm:"type:text;not null" json:"contenu" binding:"required"`
	IsInsight    bool      `gorm:"not null;default:false" json:"is_insight"`
	DateCreation time.Time `gorm:"autoCreateTime" json:"date_creation"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Kpi  *KPI  `gorm:"foreignKey:KpiId;constraint:OnDelete:CASCADE" json:"-"`
	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE" json:"-"`
}

type NewCommentaire struct {
	Contenu   string `json:"contenu" binding:"required"`
	IsInsight bool   `json:"is_insight"`
}

func CreateCommentaire(ctx context.Context, kpiId int, input *NewCommentaire) (*Commentaire, error) {

	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	userName, ok := utils.GetUserNameFromContext(ctx)
	if !ok || userName == "" {
		return nil, errors.New("user name is required")
	}

	if _, err := GetKPI(ctx, kpiId); err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	commentaire := Commentaire{
		KpiId:     kpiId,
		UserId:    userId,
		UserName:  userName,
		Contenu:   input.Contenu,
		IsInsight: input.IsInsight,
	}

	err := db.WithContext(ctx).Create(&commentaire).Error
	if err != nil {
		return nil, err
	}
	return &commentaire, nil
}

// comments of one KPI, newest first
func GetCommentaires(ctx context.Context, kpiId int) ([]*Commentaire, error) {

	db := config.GetDB()
	var results []*Commentaire

	err := db.WithContext(ctx).
		Where("kpi_id = ?", kpiId).
		Order("date_creation DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// comments attached to any of the given KPIs, newest first
func GetCommentairesForKPIs(ctx context.Context, kpiIds []int) ([]*Commentaire, error) {

	db := config.GetDB()
	var results []*Commentaire

	if len(kpiIds) == 0 {
		return results, nil
	}

	err := db.WithContext(ctx).
		Where("kpi_id IN ?", kpiIds).
		Order("date_creation DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func RecentInsights(ctx context.Context, limit int) ([]*Commentaire, error) {

	db := config.GetDB()
	var results []*Commentaire

	err := db.WithContext(ctx).
		Where("is_insight = ?", true).
		Order("date_creation DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// PartitionCommentaires splits comments into insights and regular
// discussion, keeping the input order within each partition. The split is
// disjoint and exhaustive.
func PartitionCommentaires(commentaires []*Commentaire) (insights, regular []*Commentaire) {
	for _, c := range commentaires {
		if c.IsInsight {
			insights = append(insights, c)
		} else {
			regular = append(regular, c)
		}
	}
	return insights, regular
}
