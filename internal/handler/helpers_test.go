package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alceillini1999/Zaad.POS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestRespondErrorMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&service.ValidationError{Msg: "bad"}, http.StatusBadRequest},
		{&service.ConflictError{Msg: "taken", OpenID: "o1"}, http.StatusConflict},
		{&service.NotFoundError{Msg: "gone"}, http.StatusNotFound},
		{&service.UnavailableError{Msg: "down"}, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, w := testCtx(t)
		respondError(c, tc.err)
		assert.Equal(t, tc.code, w.Code, "error %v", tc.err)
	}
}

func TestRespondErrorConflictCarriesOpenID(t *testing.T) {
	c, w := testCtx(t)
	respondError(c, &service.ConflictError{Msg: "Day already opened for this date", OpenID: "2024-01-10-1"})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2024-01-10-1", body["openId"])
}

func TestBindAndValidateDecimalTags(t *testing.T) {
	type payload struct {
		Amount decimal.Decimal `json:"amount" validate:"min=0"`
	}

	c, w := testCtx(t)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": -5}`))
	var p payload
	ok := bindAndValidate(c, &p)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	c, _ = testCtx(t)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount": 5}`))
	ok = bindAndValidate(c, &p)
	assert.True(t, ok)
}
