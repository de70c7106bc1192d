package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

// --- Central Error Handling Middleware/Function ---

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	c.JSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidRole):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidRole, "Invalid role").
			WithField("role")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed,
			apperrors.StatusMessage(err, "Validation failed"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials,
			apperrors.StatusMessage(err, "Invalid credentials"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden,
			apperrors.StatusMessage(err, "Permission denied"))
	case apperrors.Is(err, apperrors.ErrUpstreamUnavailable, apperrors.ErrMalformedResponse):
		return http.StatusBadGateway, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError,
			apperrors.StatusMessage(err, "Authentication service unavailable")).
			WithSeverity(dto.ErrorSeverityCritical)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
