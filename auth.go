package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		info, err := models.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": info})
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := models.Logout(c.Request.Context())
		if err != nil || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": true})
	}
}

// getSessionUser resolves the authenticated user (SessionMiddleware puts the
// username in context) and rejects disabled accounts.
func getSessionUser(ctx context.Context) (*models.User, error) {
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return nil, errors.New("unauthorized")
	}

	var user models.User
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}
	if !exists {
		db := config.GetDB()
		if db == nil {
			return nil, errors.New("db is nil")
		}
		if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Take(&user).Error; err != nil {
			return nil, errors.New("unauthorized")
		}
	}
	if !utils.DereferencePtr(user.IsActive) {
		return nil, errors.New("unauthorized")
	}
	return &user, nil
}

// sessionContext resolves the session user and stamps their identity into the
// request context for the model layer.
func sessionContext(c *gin.Context) (context.Context, *models.User, error) {
	user, err := getSessionUser(c.Request.Context())
	if err != nil {
		return nil, nil, err
	}
	ctx := c.Request.Context()
	ctx = utils.SetUserIdInContext(ctx, user.ID)
	ctx = utils.SetUserNameInContext(ctx, user.Username)
	ctx = utils.SetUserRoleInContext(ctx, string(user.Role))
	return ctx, user, nil
}

func requireRole(c *gin.Context, roles ...models.UserRole) (context.Context, *models.User, bool) {
	ctx, user, err := sessionContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, nil, false
	}
	for _, role := range roles {
		if user.Role == role {
			return ctx, user, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	return nil, nil, false
}
