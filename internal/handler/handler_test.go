package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }

// doJSON builds an echo context for a handler-level test. The body is
// marshalled to JSON, userID ends up in the context the way the JWT
// middleware would put it there, and path parameters are applied in pairs.
func doJSON(t *testing.T, e *echo.Echo, method string, body any, userID uint64, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
	}
	require.Zero(t, len(params)%2, "params must be name/value pairs")
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

// decodeItem unmarshals the "item" envelope of a response into out.
func decodeItem(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	raw, ok := env["item"]
	require.True(t, ok, "response has no item: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(raw, out))
}

// decodeItems unmarshals the "items" envelope of a response into out.
func decodeItems(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	raw, ok := env["items"]
	require.True(t, ok, "response has no items: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestGetUserIDVariants(t *testing.T) {
	e := echo.New()
	for _, v := range []any{uint64(7), int(7), int64(7), float64(7), "7"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("user_id", v)
		id, err := getUserID(c)
		require.NoError(t, err)
		require.EqualValues(t, 7, id)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	_, err := getUserID(c)
	require.Error(t, err)
}
