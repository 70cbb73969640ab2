// Package routing owns the single declarative route-rule table and
// everything derived from it: path classification, the access gate and
// the navigation menus. Role logic lives here and nowhere else; call
// sites must consult this table instead of re-deriving checks locally.
package routing

import "github.com/Kwesikendy/academyos/core/session"

type Visibility int

const (
	Public Visibility = iota
	Authenticated
	RoleRestricted
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case RoleRestricted:
		return "role-restricted"
	}
	return "unknown"
}

// Rule statically declares a path's visibility and, for role-restricted
// paths, the roles allowed through.
type Rule struct {
	Pattern    string
	Visibility Visibility
	Roles      []session.Role
	NotFound   bool // catch-all for unregistered paths
}

// AllowsRole reports whether the rule admits the given role.
// Unrecognized roles belong to no allowed set (fail closed).
func (r Rule) AllowsRole(role session.Role) bool {
	if !role.Known() {
		return false
	}
	for _, allowed := range r.Roles {
		if role == allowed {
			return true
		}
	}
	return false
}

// notFoundRule renders the catch-all terminal state; it is public.
var notFoundRule = Rule{Pattern: "*", Visibility: Public, NotFound: true}

// ruleTable is the whole navigable application, one rule per path.
// The source SPA registered /student/courses twice; collapsed to one
// rule here.
var ruleTable = []Rule{
	{Pattern: "/", Visibility: Public},
	{Pattern: "/about", Visibility: Public},
	{Pattern: "/login", Visibility: Public},
	{Pattern: "/register", Visibility: Public},
	{Pattern: "/unauthorized", Visibility: Public},

	{Pattern: "/dashboard", Visibility: Authenticated},
	{Pattern: "/profile", Visibility: Authenticated},

	{Pattern: "/courses", Visibility: Public},
	{Pattern: "/courses/:id", Visibility: Public},
	{Pattern: "/courses/:id/edit", Visibility: RoleRestricted, Roles: []session.Role{session.RoleAdmin, session.RoleTeacher}},
	{Pattern: "/courses/:id/enrollments", Visibility: RoleRestricted, Roles: []session.Role{session.RoleAdmin, session.RoleTeacher}},
	{Pattern: "/create-course", Visibility: RoleRestricted, Roles: []session.Role{session.RoleAdmin, session.RoleTeacher}},

	{Pattern: "/student", Visibility: RoleRestricted, Roles: []session.Role{session.RoleStudent}},
	{Pattern: "/student/courses", Visibility: RoleRestricted, Roles: []session.Role{session.RoleStudent}},
	{Pattern: "/student/assignments", Visibility: RoleRestricted, Roles: []session.Role{session.RoleStudent}},

	{Pattern: "/teacher", Visibility: RoleRestricted, Roles: []session.Role{session.RoleTeacher}},
	{Pattern: "/teacher/classes/:classId/attendance", Visibility: RoleRestricted, Roles: []session.Role{session.RoleTeacher, session.RoleAdmin}},

	{Pattern: "/admin", Visibility: RoleRestricted, Roles: []session.Role{session.RoleAdmin}},
	{Pattern: "/admin/users", Visibility: RoleRestricted, Roles: []session.Role{session.RoleAdmin}},
	{Pattern: "/admin/analytics", Visibility: RoleRestricted, Roles: []session.Role{session.RoleAdmin}},
	{Pattern: "/admin/settings", Visibility: RoleRestricted, Roles: []session.Role{session.RoleAdmin}},
	{Pattern: "/admin/reports", Visibility: RoleRestricted, Roles: []session.Role{session.RoleAdmin}},
	{Pattern: "/admin/timetable", Visibility: RoleRestricted, Roles: []session.Role{session.RoleAdmin}},

	{Pattern: "/parent", Visibility: RoleRestricted, Roles: []session.Role{session.RoleParent}},
	{Pattern: "/parent/child/:id", Visibility: RoleRestricted, Roles: []session.Role{session.RoleParent}},
	{Pattern: "/parent/progress", Visibility: RoleRestricted, Roles: []session.Role{session.RoleParent}},
	{Pattern: "/parent/messages", Visibility: RoleRestricted, Roles: []session.Role{session.RoleParent}},

	{Pattern: "/assignments", Visibility: RoleRestricted, Roles: []session.Role{session.RoleStudent, session.RoleTeacher, session.RoleAdmin}},

	{Pattern: "/classes", Visibility: RoleRestricted, Roles: []session.Role{session.RoleTeacher, session.RoleAdmin, session.RoleStudent}},
	{Pattern: "/classes/create", Visibility: RoleRestricted, Roles: []session.Role{session.RoleTeacher, session.RoleAdmin}},

	{Pattern: "/students", Visibility: RoleRestricted, Roles: []session.Role{session.RoleTeacher, session.RoleAdmin}},
}

// Rules returns a copy of the full table, catch-all excluded.
// The web surface registers one route per entry.
func Rules() []Rule {
	out := make([]Rule, len(ruleTable))
	copy(out, ruleTable)
	return out
}
