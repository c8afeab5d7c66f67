package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-store/internal/model"
)

func TestUpdateProfileRequiresFirstName(t *testing.T) {
	h := &AuthHandler{}

	c, rec := request(http.MethodPut, "/v1/me",
		`{"first_name":"   ","last_name":"Smith"}`, 3, model.RoleCustomer)

	assert.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "first_name required")
}

func TestUpdateProfileRejectsMissingIdentity(t *testing.T) {
	h := &AuthHandler{}

	// No user_id in the context, as if the JWT middleware never ran.
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/v1/me", strings.NewReader(`{"first_name":"Ann"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePasswordRequiresBothFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing_new", `{"current_password":"old-secret"}`},
		{"missing_current", `{"new_password":"new-secret"}`},
		{"empty_body", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &AuthHandler{}

			c, rec := request(http.MethodPost, "/v1/me/password", tc.body, 3, model.RoleCustomer)

			assert.NoError(t, h.ChangePassword(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
