package main

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/EliandyDumortier/pilotage-eclair/models/reports"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
	"github.com/gin-gonic/gin"
)

func analyseIdParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func listAnalysesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, user, err := sessionContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		analyses, err := models.GetAnalyses(ctx, user.Role, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analyses"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": analyses})
	}
}

func createAnalyseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, ok := requireRole(c, models.UserRoleAnalyste, models.UserRoleAdmin)
		if !ok {
			return
		}

		var input models.NewAnalyse
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		analyse, err := models.CreateAnalyse(ctx, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": analyse})
	}
}

// analyseDetailHandler returns the analysis plus its chart-ready data and the
// discussion attached to the selected KPIs.
func analyseDetailHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, user, err := sessionContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		id, ok := analyseIdParam(c)
		if !ok {
			return
		}

		analyse, err := models.GetAnalyse(ctx, id, user.Role, user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}

		kpis, err := models.AnalyseKPIs(ctx, analyse)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load KPI data"})
			return
		}
		spec := models.BuildChartSpec(analyse.Titre, analyse.ChartType, analyse.Filter(ctx).Names, kpis)

		kpiIds := make([]int, 0, len(kpis))
		for _, k := range kpis {
			kpiIds = append(kpiIds, k.ID)
		}
		commentaires, err := models.GetCommentairesForKPIs(ctx, utils.UniqueSlice(kpiIds))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
			return
		}
		insights, regular := models.PartitionCommentaires(commentaires)

		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"analyse":      analyse,
			"chart":        spec,
			"kpis":         kpis,
			"insights":     insights,
			"commentaires": regular,
		}})
	}
}

func updateAnalyseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, ok := requireRole(c, models.UserRoleAnalyste, models.UserRoleAdmin)
		if !ok {
			return
		}
		id, ok := analyseIdParam(c)
		if !ok {
			return
		}

		var input models.NewAnalyse
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "titre, chart_type and kpi_names are required"})
			return
		}

		analyse, err := models.UpdateAnalyse(ctx, id, &input)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrorRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			case errors.Is(err, utils.ErrorUnauthorized):
				c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": analyse})
	}
}

func deleteAnalyseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, ok := requireRole(c, models.UserRoleAnalyste, models.UserRoleAdmin)
		if !ok {
			return
		}
		id, ok := analyseIdParam(c)
		if !ok {
			return
		}

		analyse, err := models.DeleteAnalyse(ctx, id)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrorRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			case errors.Is(err, utils.ErrorUnauthorized):
				c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": analyse})
	}
}

func exportAnalysePDFHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		ctx, user, err := sessionContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		id, ok := analyseIdParam(c)
		if !ok {
			return
		}

		analyse, err := models.GetAnalyse(ctx, id, user.Role, user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}

		kpis, err := models.AnalyseKPIs(ctx, analyse)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load KPI data"})
			return
		}
		spec := models.BuildChartSpec(analyse.Titre, analyse.ChartType, analyse.Filter(ctx).Names, kpis)

		kpiIds := make([]int, 0, len(kpis))
		for _, k := range kpis {
			kpiIds = append(kpiIds, k.ID)
		}
		commentaires, err := models.GetCommentairesForKPIs(ctx, utils.UniqueSlice(kpiIds))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
			return
		}
		insights, regular := models.PartitionCommentaires(commentaires)

		var buf bytes.Buffer
		if err := reports.ExportAnalysePDF(analyse, spec, insights, regular, &buf); err != nil {
			config.LogError(logger, "analyses.go", "exportAnalysePDFHandler", "ExportAnalysePDF", analyse.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate export"})
			return
		}

		filename := "analyse_" + strconv.Itoa(analyse.ID) + ".pdf"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}
