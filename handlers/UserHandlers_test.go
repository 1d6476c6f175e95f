package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func roleCheckContext(t *testing.T, actor *models.User) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if actor != nil {
		c.Set("user", actor)
	}
	return c
}

func TestCanAssignRole_CustomerSelfRegistration(t *testing.T) {
	assert.True(t, canAssignRole(roleCheckContext(t, nil), "customer"))
	assert.True(t, canAssignRole(roleCheckContext(t, &models.User{RoleName: "customer"}), "customer"))
}

func TestCanAssignRole_PrivilegedRoleNeedsAdmin(t *testing.T) {
	assert.False(t, canAssignRole(roleCheckContext(t, nil), "printer"))
	assert.False(t, canAssignRole(roleCheckContext(t, &models.User{RoleName: "customer"}), "printer"))
	assert.False(t, canAssignRole(roleCheckContext(t, &models.User{RoleName: "printer"}), "admin"))

	// The session middleware resolves the admin onto the context, which is
	// what unlocks printer and admin registration.
	assert.True(t, canAssignRole(roleCheckContext(t, &models.User{RoleName: "admin"}), "printer"))
	assert.True(t, canAssignRole(roleCheckContext(t, &models.User{RoleName: "Admin"}), "admin"))
}

func TestCreateUserHandler_AnonymousPrivilegedRoleForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/users", CreateUserHandler(nil))

	body := `{"email":"press@matbixx.com","password":"longenough1","first_name":"Press","role":"printer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
