package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/requestid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"invalid role", fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, "teacher"), http.StatusBadRequest, dto.ErrorCodeInvalidRole},
		{"validation", apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"credentials", fmt.Errorf("login failed: %w", apperrors.ErrInvalidCredentials), http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"forbidden", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"upstream", apperrors.NewCustomError(apperrors.ErrUpstreamUnavailable, "dial tcp: refused"), http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{"malformed", apperrors.ErrMalformedResponse, http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIError_UsesStatusMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "backend said 401").
		WithStatusMsg("Wrong password")
	HandleAPIError(c, err)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Wrong password", resp.Error.Message)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, requestid.FromContext(c.Request.Context()))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(requestid.Header)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(requestid.Header))
		assert.Equal(t, "req-123", w.Body.String())
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/login/:role", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/login/teacher", nil)
	req.Header.Set(requestid.Header, "req-9")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "req-9", entry["request_id"])
	assert.Equal(t, "/login/:role", entry["path"])
	assert.EqualValues(t, http.StatusNotFound, entry["status"])
}
