package routing

import "github.com/Kwesikendy/academyos/core/session"

// MenuEntry is one navigation link. Ordering is significant: primary
// dashboard first, secondary tools after.
type MenuEntry struct {
	Label string
	Path  string
	Icon  string
}

var (
	publicMenu = []MenuEntry{
		{Label: "Home", Path: "/", Icon: "home"},
		{Label: "Browse Courses", Path: "/courses", Icon: "book-open"},
		{Label: "About", Path: "/about", Icon: "info"},
		{Label: "Login", Path: "/login", Icon: "log-in"},
		{Label: "Register", Path: "/register", Icon: "user-plus"},
	}

	// fallback for an authenticated identity whose role we do not
	// recognize: only the routes any authenticated user can reach.
	baseMenu = []MenuEntry{
		{Label: "Dashboard", Path: "/dashboard", Icon: "layout-dashboard"},
		{Label: "Profile", Path: "/profile", Icon: "user"},
	}

	roleMenus = map[session.Role][]MenuEntry{
		session.RoleStudent: {
			{Label: "Dashboard", Path: "/student", Icon: "layout-dashboard"},
			{Label: "My Courses", Path: "/student/courses", Icon: "book"},
			{Label: "Assignments", Path: "/student/assignments", Icon: "clipboard-list"},
			{Label: "Classes", Path: "/classes", Icon: "school"},
			{Label: "Browse Courses", Path: "/courses", Icon: "book-open"},
			{Label: "Profile", Path: "/profile", Icon: "user"},
		},
		session.RoleTeacher: {
			{Label: "Dashboard", Path: "/teacher", Icon: "layout-dashboard"},
			{Label: "Classes", Path: "/classes", Icon: "school"},
			{Label: "Students", Path: "/students", Icon: "users"},
			{Label: "Assignments", Path: "/assignments", Icon: "clipboard-list"},
			{Label: "Create Course", Path: "/create-course", Icon: "plus-circle"},
			{Label: "Browse Courses", Path: "/courses", Icon: "book-open"},
			{Label: "Profile", Path: "/profile", Icon: "user"},
		},
		session.RoleAdmin: {
			{Label: "Dashboard", Path: "/admin", Icon: "layout-dashboard"},
			{Label: "Users", Path: "/admin/users", Icon: "users"},
			{Label: "Classes", Path: "/classes", Icon: "school"},
			{Label: "Students", Path: "/students", Icon: "graduation-cap"},
			{Label: "Assignments", Path: "/assignments", Icon: "clipboard-list"},
			{Label: "Analytics", Path: "/admin/analytics", Icon: "bar-chart"},
			{Label: "Reports", Path: "/admin/reports", Icon: "file-text"},
			{Label: "Timetable", Path: "/admin/timetable", Icon: "calendar"},
			{Label: "Settings", Path: "/admin/settings", Icon: "settings"},
			{Label: "Profile", Path: "/profile", Icon: "user"},
		},
		session.RoleParent: {
			{Label: "Dashboard", Path: "/parent", Icon: "layout-dashboard"},
			{Label: "Progress", Path: "/parent/progress", Icon: "trending-up"},
			{Label: "Messages", Path: "/parent/messages", Icon: "mail"},
			{Label: "Browse Courses", Path: "/courses", Icon: "book-open"},
			{Label: "Profile", Path: "/profile", Icon: "user"},
		},
	}
)

// MenuFor returns the ordered navigation links for role. RoleNone gets
// the public menu; an unrecognized role degrades to the base
// authenticated menu so a link is never shown for a destination the
// gate would reject.
func MenuFor(role session.Role) []MenuEntry {
	var src []MenuEntry
	switch {
	case role == session.RoleNone:
		src = publicMenu
	case role.Known():
		src = roleMenus[role]
	default:
		src = baseMenu
	}
	out := make([]MenuEntry, len(src))
	copy(out, src)
	return out
}
