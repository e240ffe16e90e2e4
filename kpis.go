package main

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/EliandyDumortier/pilotage-eclair/models/reports"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
	"github.com/gin-gonic/gin"
)

func kpiFilterFromQuery(c *gin.Context) models.KPIFilter {
	return models.KPIFilter{
		Date:      c.Query("date"),
		Categorie: c.Query("categorie"),
		Search:    c.Query("search"),
		Names:     c.QueryArray("nom"),
		DateDebut: c.Query("date_debut"),
		DateFin:   c.Query("date_fin"),
	}
}

func listKPIsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, err := sessionContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		kpis, err := models.SearchKPIs(ctx, kpiFilterFromQuery(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list KPIs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": kpis})
	}
}

func kpiDetailHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, err := sessionContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		kpi, err := models.GetKPI(ctx, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "KPI not found"})
			return
		}

		commentaires, err := models.GetCommentaires(ctx, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
			return
		}
		insights, regular := models.PartitionCommentaires(commentaires)

		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"kpi":          kpi,
			"insights":     insights,
			"commentaires": regular,
		}})
	}
}

func createCommentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, err := sessionContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var input models.NewCommentaire
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contenu is required"})
			return
		}

		commentaire, err := models.CreateCommentaire(ctx, id, &input)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "KPI not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": commentaire})
	}
}

type newInsightRequest struct {
	KpiId   int    `json:"kpi_id" binding:"required"`
	Contenu string `json:"contenu" binding:"required"`
}

// createInsightHandler is the analyst shortcut for flagged comments.
func createInsightHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, ok := requireRole(c, models.UserRoleAnalyste, models.UserRoleAdmin)
		if !ok {
			return
		}

		var req newInsightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kpi_id and contenu are required"})
			return
		}

		commentaire, err := models.CreateCommentaire(ctx, req.KpiId, &models.NewCommentaire{
			Contenu:   req.Contenu,
			IsInsight: true,
		})
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "KPI not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": commentaire})
	}
}

// exportExcelHandler streams the filtered KPI set as a workbook. Unlike the
// dashboard, no current-month default applies here.
func exportExcelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		ctx, _, err := sessionContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		kpis, err := models.SearchKPIs(ctx, kpiFilterFromQuery(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list KPIs"})
			return
		}

		var buf bytes.Buffer
		if err := reports.ExportKPIExcel(kpis, &buf); err != nil {
			config.LogError(logger, "kpis.go", "exportExcelHandler", "ExportKPIExcel", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate export"})
			return
		}

		filename := "kpis_" + time.Now().Format("2006-01-02") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			buf.Bytes())
	}
}
