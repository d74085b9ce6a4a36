package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranBistrovic/QuantumHotel/internal/config"
	"github.com/FranBistrovic/QuantumHotel/internal/repository"
)

func TestValidRole(t *testing.T) {
	assert.True(t, validRole("USER"))
	assert.True(t, validRole("STAFF"))
	assert.True(t, validRole("ADMIN"))
	assert.False(t, validRole("user"))
	assert.False(t, validRole("ROOT"))
	assert.False(t, validRole(""))
}

func newAdminUsersContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/v1/admin/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	// The repositories stay untouched on the validation paths, so nil
	// database handles are safe here.
	h := NewAdminUserHandler(config.Config{}, repository.NewUserRepo(nil), repository.NewTokenRepo(nil))

	c, rec := newAdminUsersContext(t, http.MethodPost,
		`{"email":"ops@example.com","password":"secret","role":"ROOT"}`)
	require.NoError(t, h.CreateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "role must be")

	c, rec = newAdminUsersContext(t, http.MethodPost,
		`{"email":"","password":"secret","role":"STAFF"}`)
	require.NoError(t, h.CreateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newAdminUsersContext(t, http.MethodPost,
		`{"email":"ops@example.com","password":"","role":"STAFF"}`)
	require.NoError(t, h.CreateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUserRejectsBadInput(t *testing.T) {
	h := NewAdminUserHandler(config.Config{}, repository.NewUserRepo(nil), repository.NewTokenRepo(nil))

	c, rec := newAdminUsersContext(t, http.MethodPatch, `{"role":"WIZARD"}`)
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, h.UpdateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "role must be")

	c, rec = newAdminUsersContext(t, http.MethodPatch, `{"email":"  "}`)
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, h.UpdateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newAdminUsersContext(t, http.MethodPatch, `{}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.UpdateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
