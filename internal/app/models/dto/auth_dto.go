package dto

import "github.com/yigit/uniportal/internal/app/models"

// LoginRequest represents role-tagged login credentials sent as JSON
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"john@school.edu"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,role" example:"student"`
}

// LoginForm is the body posted by the HTML login page. The role comes from
// the page path, not the form.
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// RoleResponse describes one role login page
type RoleResponse struct {
	Role      models.RoleType `json:"role" example:"COLLEGE_COORDINATOR"`
	Slug      string          `json:"slug" example:"college_coordinator"`
	Title     string          `json:"title" example:"College Coordinator"`
	LoginPath string          `json:"loginPath" example:"/login/college_coordinator"`
}

// UserResponse represents the logged-in user
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role,omitempty"`
}

// NewUserResponse maps a user model to its response
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		DisplayName: user.DisplayName(),
		Role:        user.RoleType.Slug(),
	}
}

// LoginPage is the view model of the login form template
type LoginPage struct {
	Title    string
	Action   string
	Email    string
	ErrorMsg string
}

// LoginIndexPage is the view model of the role picker template
type LoginIndexPage struct {
	Roles []RoleResponse
}
