package authapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

const (
	unavailableMsg = "Login service is unavailable, please try again later"
	malformedMsg   = "Login service returned an unexpected response"
)

// checkStatus turns a non-2xx response into a sentinel-wrapping error. The
// backend's own message is kept for display except on server errors.
func checkStatus(call string, resp *response) error {
	if resp.status >= 200 && resp.status < 300 {
		return nil
	}

	var (
		sentinel error
		fallback string
	)
	switch resp.status {
	case http.StatusUnauthorized:
		sentinel, fallback = apperrors.ErrInvalidCredentials, "Invalid email or password"
	case http.StatusForbidden:
		sentinel, fallback = apperrors.ErrPermissionDenied, "You are not allowed to sign in with this role"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		sentinel, fallback = apperrors.ErrValidationFailed, "Please check the submitted details"
	default:
		sentinel, fallback = apperrors.ErrUpstreamUnavailable, unavailableMsg
	}

	statusMsg := fallback
	if msg := backendMessage(resp.body); msg != "" && sentinel != apperrors.ErrUpstreamUnavailable {
		statusMsg = msg
	}

	return apperrors.NewCustomError(sentinel, fmt.Sprintf("auth backend %s returned status %d", call, resp.status)).
		WithCode(strconv.Itoa(resp.status)).
		WithStatusMsg(statusMsg)
}

// backendMessage extracts a human-readable message from an error body
func backendMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return firstString(gjson.ParseBytes(body), "error.message", "message", "error", "errors.0.message")
}

// parseUser accepts the user either bare or wrapped in "data" / "user"
func parseUser(body []byte) (*models.User, error) {
	if !gjson.ValidBytes(body) {
		return nil, apperrors.NewCustomError(apperrors.ErrMalformedResponse, "auth backend user response is not JSON").
			WithStatusMsg(malformedMsg)
	}

	root := gjson.ParseBytes(body)
	for _, path := range []string{"data.user", "data", "user"} {
		if nested := root.Get(path); nested.IsObject() {
			root = nested
			break
		}
	}

	user := &models.User{
		ID:        root.Get("id").String(),
		Email:     firstString(root, "email"),
		FirstName: firstString(root, "firstName", "first_name"),
		LastName:  firstString(root, "lastName", "last_name"),
		Name:      firstString(root, "name", "fullName"),
	}
	if raw := firstString(root, "role", "roleType", "role_type"); raw != "" {
		// Backend enums are the upper-case form of the slug
		if role, err := models.ParseRole(strings.ToLower(raw)); err == nil {
			user.RoleType = role
		}
	}

	if user.ID == "" && user.Email == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrMalformedResponse, "auth backend user response has neither id nor email").
			WithStatusMsg(malformedMsg)
	}
	return user, nil
}

// firstString returns the first non-empty string found at paths
func firstString(result gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := result.Get(path); v.Type == gjson.String {
			if s := strings.TrimSpace(v.Str); s != "" {
				return s
			}
		}
	}
	return ""
}
