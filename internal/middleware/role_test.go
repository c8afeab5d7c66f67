package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func roleRequest(role any) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	return c, rec
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	mw := RequireRole("CASHIER", "MANAGER")
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c, rec := roleRequest("CASHIER")
	assert.NoError(t, h(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	mw := RequireRole("ADMIN")
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	c, rec := roleRequest("CUSTOMER")
	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	mw := RequireRole("ADMIN")
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	c, rec := roleRequest(nil)
	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
