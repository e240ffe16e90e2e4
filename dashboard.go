package main

import (
	"net/http"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/gin-gonic/gin"
)

// landingHandler is the unauthenticated entry point.
func landingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":  "pilotage-eclair",
			"login": "/auth/login",
		})
	}
}

// dashboardHandler serves the role-specific dashboard. Unauthenticated
// visitors are sent back to the landing page instead of getting a 401.
func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		ctx, user, err := sessionContext(c)
		if err != nil {
			c.Redirect(http.StatusFound, "/")
			return
		}

		f := models.KPIFilter{
			Date:      c.Query("date"),
			Categorie: c.Query("categorie"),
			Search:    c.Query("search"),
		}

		payload, err := models.BuildDashboard(ctx, user.Role, f, c.Query("role"))
		if err != nil {
			config.LogError(logger, "dashboard.go", "dashboardHandler", "BuildDashboard", f, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": payload, "role": user.Role})
	}
}
