// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/app/services"
	"github.com/yigit/uniportal/internal/middleware"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/textutil"
)

// AuthController serves the role login pages and their JSON counterpart
type AuthController struct {
	authService       services.AuthService
	postLoginRedirect string
	logger            zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, postLoginRedirect string, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:       authService,
		postLoginRedirect: postLoginRedirect,
		logger:            logger,
	}
}

// roleResponses lists every role login page
func roleResponses() []dto.RoleResponse {
	roles := models.AllRoles()
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, dto.RoleResponse{
			Role:      role,
			Slug:      role.Slug(),
			Title:     textutil.Prettify(role.Slug()),
			LoginPath: "/login/" + role.Slug(),
		})
	}
	return out
}

// LoginIndex renders the role picker
func (c *AuthController) LoginIndex(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login_index.html", dto.LoginIndexPage{Roles: roleResponses()})
}

// ShowLoginForm renders the login form for the role in the path. Unknown
// roles have no page.
func (c *AuthController) ShowLoginForm(ctx *gin.Context) {
	role, ok := c.pathRole(ctx)
	if !ok {
		return
	}
	ctx.HTML(http.StatusOK, "login.html", c.loginPage(role, "", ""))
}

// SubmitLoginForm handles the login form post. Failures re-render the form
// with the error message, success relays the backend session and redirects.
func (c *AuthController) SubmitLoginForm(ctx *gin.Context) {
	role, ok := c.pathRole(ctx)
	if !ok {
		return
	}

	var form dto.LoginForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.logger.Warn().Err(err).Str("role", role.Slug()).Msg("Invalid login form")
		ctx.HTML(http.StatusBadRequest, "login.html", c.loginPage(role, form.Email, "Please enter a valid email and password"))
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), &dto.LoginRequest{
		Email:    form.Email,
		Password: form.Password,
		Role:     role.Slug(),
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("email", form.Email).Str("role", role.Slug()).Msg("Login failed")
		ctx.HTML(loginErrorStatus(err), "login.html", c.loginPage(role, form.Email, apperrors.StatusMessage(err, defaultLoginErrorMsg(err))))
		return
	}

	relaySession(ctx, result)
	c.logger.Info().
		Str("userID", result.User.ID).
		Str("user", result.User.DisplayName()).
		Str("role", role.Slug()).
		Msg("User logged in successfully")

	ctx.Redirect(http.StatusSeeOther, c.postLoginRedirect)
}

// ListRoles returns the available role login pages
// @Summary List login roles
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.RoleResponse}
// @Router /roles [get]
func (c *AuthController) ListRoles(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: roleResponses()})
}

// Login handles role-tagged JSON login
// @Summary User login
// @Description Forwards role-tagged credentials to the auth backend and returns the current user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or invalid role"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 502 {object} dto.ErrorResponse "Auth backend unavailable"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Str("role", req.Role).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	relaySession(ctx, result)
	c.logger.Info().
		Str("userID", result.User.ID).
		Str("role", result.Role.Slug()).
		Msg("User logged in successfully")

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewUserResponse(result.User)})
}

// pathRole normalizes the :role path segment, answering 404 when it is not a role
func (c *AuthController) pathRole(ctx *gin.Context) (models.RoleType, bool) {
	slug := ctx.Param("role")
	role, err := models.ParseRole(slug)
	if err != nil {
		c.logger.Debug().Str("role", slug).Msg("Login page requested for unknown role")
		ctx.HTML(http.StatusNotFound, "not_found.html", "There is no login page for this role.")
		return "", false
	}
	return role, true
}

func (c *AuthController) loginPage(role models.RoleType, email, errorMsg string) dto.LoginPage {
	return dto.LoginPage{
		Title:    textutil.Prettify(role.Slug()) + " Login",
		Action:   "/login/" + role.Slug(),
		Email:    email,
		ErrorMsg: errorMsg,
	}
}

// relaySession passes the backend's session cookies to the browser unchanged
func relaySession(ctx *gin.Context, result *services.LoginResult) {
	if result.Session == nil {
		return
	}
	for _, cookie := range result.Session.Cookies {
		http.SetCookie(ctx.Writer, cookie)
	}
}

func loginErrorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUpstreamUnavailable), errors.Is(err, apperrors.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func defaultLoginErrorMsg(err error) string {
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		return "Invalid email or password"
	}
	return "Login failed, please try again"
}
