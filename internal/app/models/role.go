package models

import (
	"fmt"

	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

// RoleType defines the user role type as the auth backend stores it
type RoleType string

const (
	RoleStudent            RoleType = "STUDENT"
	RoleCollegeCoordinator RoleType = "COLLEGE_COORDINATOR"
	RoleInstructor         RoleType = "INSTRUCTOR"
	RoleAdmin              RoleType = "ADMIN"
	RoleDeptHead           RoleType = "DEPTHEAD"
)

// AllRoles returns every role in the order the login pages are listed.
func AllRoles() []RoleType {
	return []RoleType{
		RoleStudent,
		RoleInstructor,
		RoleAdmin,
		RoleDeptHead,
		RoleCollegeCoordinator,
	}
}

// ParseRole maps a canonical role slug (e.g. "college_coordinator") to its
// RoleType. Matching is exact and case-sensitive; any other input returns
// apperrors.ErrInvalidRole.
func ParseRole(slug string) (RoleType, error) {
	switch slug {
	case "student":
		return RoleStudent, nil
	case "college_coordinator":
		return RoleCollegeCoordinator, nil
	case "instructor":
		return RoleInstructor, nil
	case "admin":
		return RoleAdmin, nil
	case "depthead":
		return RoleDeptHead, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, slug)
	}
}

// Slug returns the canonical external form of the role, or "" for an
// unknown value.
func (r RoleType) Slug() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleCollegeCoordinator:
		return "college_coordinator"
	case RoleInstructor:
		return "instructor"
	case RoleAdmin:
		return "admin"
	case RoleDeptHead:
		return "depthead"
	default:
		return ""
	}
}

// IsValid reports whether r is one of the known roles
func (r RoleType) IsValid() bool {
	return r.Slug() != ""
}

func (r RoleType) String() string {
	return string(r)
}
