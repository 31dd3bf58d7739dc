package domain

import (
	"strings"
	"time"

	"github.com/ranwip/pm-backend/internal/apperr"
)

type Role string

const (
	RoleProjectManager Role = "project_manager"
	RoleDeveloper      Role = "developer"
	RoleDesigner       Role = "designer"
	RoleQATester       Role = "qa_tester"
	RoleTeamLead       Role = "team_lead"
	RoleMobileLead     Role = "mobile_lead"
)

var roles = []Role{RoleProjectManager, RoleDeveloper, RoleDesigner, RoleQATester, RoleTeamLead, RoleMobileLead}

// ParseRole rejects anything outside the closed role set.
func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if string(r) == strings.TrimSpace(s) {
			return r, nil
		}
	}
	return "", apperr.Validation("unknown role %q", s)
}

type Department string

const (
	DepartmentEngineering Department = "Engineering"
	DepartmentDesign      Department = "Design"
	DepartmentProduct     Department = "Product"
	DepartmentQA          Department = "QA"
	DepartmentMarketing   Department = "Marketing"
	DepartmentMobile      Department = "Mobile"
)

var departments = []Department{DepartmentEngineering, DepartmentDesign, DepartmentProduct, DepartmentQA, DepartmentMarketing, DepartmentMobile}

func ParseDepartment(s string) (Department, error) {
	for _, d := range departments {
		if string(d) == strings.TrimSpace(s) {
			return d, nil
		}
	}
	return "", apperr.Validation("unknown department %q", s)
}

// Presence replaces a bare online flag: it only changes on login/logout and
// PresenceChangedAt records the last transition.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceOffline Presence = "offline"
)

type User struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              Role       `json:"role"`
	Department        Department `json:"department"`
	Avatar            *string    `json:"avatar,omitempty"`
	Timezone          string     `json:"timezone"`
	Skills            []string   `json:"skills"`
	Capacity          int        `json:"capacity"`
	Phone             *string    `json:"phone,omitempty"`
	Bio               *string    `json:"bio,omitempty"`
	Presence          Presence   `json:"presence"`
	PresenceChangedAt *time.Time `json:"presence_changed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// UpdateUserRequest carries a partial profile change; nil fields are kept.
type UpdateUserRequest struct {
	Name       *string
	Role       *Role
	Department *Department
	Avatar     *string
	Timezone   *string
	Skills     []string
	Capacity   *int
	Phone      *string
	Bio        *string
}

type ListFilter struct {
	Role       *Role
	Department *Department
}
