package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func usersRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/users",
		func(c *gin.Context) {
			c.Set("user_id", "64f000000000000000000001")
			if role != "" {
				c.Set("user_role", role)
			}
		},
		GetUsers)
	return r
}

func TestGetUsersNonAdminCannotEnumerate(t *testing.T) {
	r := usersRouter("citizen")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetUsersNonAdminRoleFilterRefused(t *testing.T) {
	r := usersRouter("staff")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users?role=citizen", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetUsersMissingRoleRefused(t *testing.T) {
	r := usersRouter("")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
