package handlers

import (
	"backend/models"
	"backend/storage"
	"backend/utils"
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// canAssignRole reports whether the request may create an account with the
// given role. Self-registration is customer only; privileged roles need an
// admin user resolved onto the context by the session middleware.
func canAssignRole(c *gin.Context, role string) bool {
	if role == "customer" {
		return true
	}
	actor, ok := c.Get("user")
	if !ok {
		return false
	}
	return strings.EqualFold(actor.(*models.User).RoleName, "admin")
}

// CreateUserHandler registers a new marketplace account
// @Summary Create user
// @Description Create a new user account. Roles printer and admin can only be assigned by an admin.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body object true "User details"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/users [post]
func CreateUserHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email       string `json:"email" binding:"required,email"`
			Password    string `json:"password" binding:"required,min=8"`
			CompanyName string `json:"company_name"`
			FirstName   string `json:"first_name" binding:"required"`
			LastName    string `json:"last_name"`
			PhoneNo     string `json:"phone_no"`
			Role        string `json:"role"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		role := strings.ToLower(strings.TrimSpace(req.Role))
		if role == "" {
			role = "customer"
		}

		if !canAssignRole(c, role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can assign this role"})
			return
		}

		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := &models.User{
			Email:       strings.ToLower(strings.TrimSpace(req.Email)),
			Password:    hashed,
			CompanyName: req.CompanyName,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNo:     req.PhoneNo,
			RoleName:    role,
		}

		id, err := storage.CreateUser(db, user)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "User created successfully",
			"user_id": id,
			"role":    role,
		})
	}
}

// GetCurrentUserHandler returns the account attached to the session
// @Summary Current user
// @Tags Users
// @Produce json
// @Success 200 {object} models.User
// @Router /api/me [get]
func GetCurrentUserHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	c.JSON(http.StatusOK, user)
}
