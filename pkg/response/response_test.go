package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"digibank/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, write func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	write(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestFromError(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   int
	}{
		{fmt.Errorf("%w: account not found", service.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("%w: not your account", service.ErrForbidden), http.StatusForbidden, CodeForbidden},
		{service.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{fmt.Errorf("%w: account is not active", service.ErrInvalidState), http.StatusUnprocessableEntity, CodeInvalidState},
		{fmt.Errorf("%w: amount must be greater than zero", service.ErrInvalidInput), http.StatusBadRequest, CodeParamError},
		{fmt.Errorf("%w: balance 10.00, requested 20.00", service.ErrInsufficientFunds), http.StatusUnprocessableEntity, CodeInsufficientFunds},
		{fmt.Errorf("%w: user already has an account", service.ErrConflict), http.StatusConflict, CodeConflict},
		{fmt.Errorf("%w: connection refused", service.ErrGatewayFailure), http.StatusBadGateway, CodeGatewayFailure},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w, body := record(t, func(c *gin.Context) { FromError(c, tc.err) })
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantCode, body.Code)
			assert.Equal(t, tc.err.Error(), body.Message)
		})
	}

	t.Run("unclassified errors never leak detail", func(t *testing.T) {
		w, body := record(t, func(c *gin.Context) {
			FromError(c, fmt.Errorf("%w: dial tcp 10.0.0.5:3306: i/o timeout", service.ErrStorageFailure))
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, CodeStorageFailure, body.Code)
		assert.Equal(t, "internal error", body.Message)
	})
}

func TestSuccessEnvelope(t *testing.T) {
	w, body := record(t, func(c *gin.Context) {
		Success(c, map[string]string{"id": "acc-1"})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, CodeSuccess, body.Code)
	assert.Equal(t, "success", body.Message)
	require.NotNil(t, body.Data)
}
