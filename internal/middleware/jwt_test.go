package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdotbuilder/turf-match-finder/internal/utils"
)

func runJWT(t *testing.T, secret, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(secret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 42, "PLAYER", 15)
	require.NoError(t, err)

	rec, c := runJWT(t, "secret", "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 42, c.Get("user_id"))
	assert.Equal(t, "PLAYER", c.Get("role"))
}

func TestJWTAuthRejects(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 42, "PLAYER", 15)
	require.NoError(t, err)

	rec, _ := runJWT(t, "secret", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runJWT(t, "secret", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// signed with a different secret
	rec, _ = runJWT(t, "other", "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// expired
	stale, err := utils.NewAccessToken("secret", 42, "PLAYER", -1)
	require.NoError(t, err)
	rec, _ = runJWT(t, "secret", "Bearer "+stale.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		role    any
		allowed []string
		want    int
	}{
		{"FIELD_OWNER", []string{"FIELD_OWNER", "ADMIN"}, http.StatusOK},
		{"ADMIN", []string{"FIELD_OWNER", "ADMIN"}, http.StatusOK},
		{"PLAYER", []string{"FIELD_OWNER", "ADMIN"}, http.StatusForbidden},
		{nil, []string{"FIELD_OWNER"}, http.StatusForbidden},
		{42, []string{"FIELD_OWNER"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if tc.role != nil {
			c.Set("role", tc.role)
		}
		require.NoError(t, RequireRole(tc.allowed...)(next)(c))
		assert.Equal(t, tc.want, rec.Code, "role %v", tc.role)
	}
}
