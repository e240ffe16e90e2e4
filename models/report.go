package models

import (
	"context"
	"errors"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
)

// Report is an uploaded artifact (Power BI export, spreadsheet, …). The
// blob itself lives in object storage; this row only tracks it.
type Report struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Titre       string    `gorm:"size:200;not null" json:"titre" binding:"required"`
	Description string    `gorm:"type:text" json:"description"`
	ObjectKey   string    `gorm:"size:500;not null" json:"object_key"`
	FileURL     string    `gorm:"size:500" json:"file_url"`
	UserId      int       `gorm:"index;not null" json:"user_id"`
	UserName    string    `gorm:"size:100" json:"user_name"`
	IsActive    *bool     `gorm:"not null" json:"is_active"`
	DateUpload  time.Time `gorm:"autoCreateTime" json:"date_upload"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE" json:"-"`
}

type NewReport struct {
	Titre       string `json:"titre" binding:"required"`
	Description string `json:"description"`
	ObjectKey   string `json:"object_key" binding:"required"`
}

func CreateReport(ctx context.Context, input *NewReport) (*Report, error) {

	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	userName, _ := utils.GetUserNameFromContext(ctx)

	report := Report{
		Titre:       input.Titre,
		Description: input.Description,
		ObjectKey:   input.ObjectKey,
		FileURL:     utils.BuildObjectAccessURL(input.ObjectKey),
		UserId:      userId,
		UserName:    userName,
		IsActive:    utils.NewTrue(),
	}

	if err := db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func RecentActiveReports(ctx context.Context, limit int) ([]*Report, error) {

	db := config.GetDB()
	var results []*Report

	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("date_upload DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
