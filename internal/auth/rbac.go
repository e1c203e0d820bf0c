package auth

import "strings"

type Role string

const (
	RoleStudent  Role = "student"
	RoleIndustry Role = "industry"
	RoleFaculty  Role = "faculty"
	RoleAdmin    Role = "admin"
)

// Roles lists every role a user may hold.
var Roles = []Role{RoleStudent, RoleIndustry, RoleFaculty, RoleAdmin}

// ParseRole maps free-form input to a known role. Unknown input yields "" and false.
func ParseRole(role string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(role))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleIndustry:
		return RoleIndustry, true
	case RoleFaculty:
		return RoleFaculty, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleIndustry, RoleFaculty, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

func HasRole(role Role, allowed ...Role) bool {
	if len(allowed) == 0 {
		return false
	}
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}

func IsAdmin(role Role) bool {
	return role == RoleAdmin
}
