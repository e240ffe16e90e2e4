package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
	"github.com/gin-gonic/gin"
)

func listUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, ok := requireRole(c, models.UserRoleAdmin)
		if !ok {
			return
		}

		users, err := models.GetUsers(ctx, c.Query("role"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": users})
	}
}

func createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, ok := requireRole(c, models.UserRoleAdmin)
		if !ok {
			return
		}

		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		user, err := models.CreateUser(ctx, &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": user})
	}
}

func updateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _, ok := requireRole(c, models.UserRoleAdmin)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var input models.UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and role are required"})
			return
		}

		user, err := models.UpdateUser(ctx, id, &input)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": user})
	}
}

type userActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// userActionHandler applies the admin account actions: activate, deactivate,
// delete. Admins cannot target their own account.
func userActionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, admin, ok := requireRole(c, models.UserRoleAdmin)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		if id == admin.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot act on your own account"})
			return
		}

		var req userActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
			return
		}

		var user *models.User
		switch req.Action {
		case "activate":
			user, err = models.SetUserActive(ctx, id, true)
		case "deactivate":
			user, err = models.SetUserActive(ctx, id, false)
		case "delete":
			user, err = models.DeleteUser(ctx, id)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
			return
		}
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": user, "action": req.Action})
	}
}
