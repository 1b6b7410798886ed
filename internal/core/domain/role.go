package domain

import "strings"

// Role is the closed vocabulary of capability tags the portal understands.
// Anything outside it is treated as "no recognized role" at decision time.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLecturer  Role = "lecturer"
	RoleTeacher   Role = "teacher" // legacy alias of lecturer, still issued by the API
	RoleModerator Role = "moderator"
	RoleStudent   Role = "student"
	RoleUser      Role = "user"
)

// rolePriority is the single total ordering used for every priority
// decision (display name, home route, tie-breaks). Highest first.
var rolePriority = []Role{RoleAdmin, RoleLecturer, RoleModerator, RoleStudent, RoleUser}

// roleLabels are the user-facing names shown in the portal UI.
var roleLabels = map[Role]string{
	RoleAdmin:     "Quản trị viên",
	RoleLecturer:  "Giảng viên",
	RoleModerator: "Điều hành viên",
	RoleStudent:   "Sinh viên",
	RoleUser:      "Người dùng",
}

// roleHomes maps a canonical role to its landing route. Roles without an
// entry fall back to whatever the caller deems appropriate.
var roleHomes = map[Role]string{
	RoleAdmin:    "/admin",
	RoleLecturer: "/lecturer/dashboard",
	RoleStudent:  "/student/dashboard",
}

// ParseRole resolves a raw role string to its canonical Role.
// The teacher alias collapses into lecturer.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleLecturer, RoleTeacher:
		return RoleLecturer, true
	case RoleModerator:
		return RoleModerator, true
	case RoleStudent:
		return RoleStudent, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

// PrimaryRole returns the highest-priority recognized role in the set.
// A user holding both admin and student is an admin for every decision.
func PrimaryRole(raw []string) (Role, bool) {
	held := make(map[Role]struct{}, len(raw))
	for _, s := range raw {
		if r, ok := ParseRole(s); ok {
			held[r] = struct{}{}
		}
	}
	for _, r := range rolePriority {
		if _, ok := held[r]; ok {
			return r, true
		}
	}
	return "", false
}

// RoleDisplayName renders a role set for the UI: the label of the
// highest-priority recognized role, or the raw strings joined when none
// is recognized.
func RoleDisplayName(raw []string) string {
	if r, ok := PrimaryRole(raw); ok {
		return roleLabels[r]
	}
	return strings.Join(raw, ", ")
}

// HomeRoute resolves the canonical landing route for a role set.
// ok is false when no held role has a dedicated home (moderator, user,
// empty or unrecognized sets); the caller chooses the fallback.
func HomeRoute(raw []string) (string, bool) {
	r, ok := PrimaryRole(raw)
	if !ok {
		return "", false
	}
	home, ok := roleHomes[r]
	return home, ok
}

// HasAnyRole reports whether the raw role set intersects the required
// set. Both sides are canonicalized, so a "teacher" user satisfies a
// lecturer requirement and vice versa. Unrecognized strings never match.
func HasAnyRole(raw []string, required []Role) bool {
	if len(required) == 0 {
		return true
	}
	want := make(map[Role]struct{}, len(required))
	for _, r := range required {
		if canon, ok := ParseRole(string(r)); ok {
			want[canon] = struct{}{}
		}
	}
	for _, s := range raw {
		if canon, ok := ParseRole(s); ok {
			if _, hit := want[canon]; hit {
				return true
			}
		}
	}
	return false
}
