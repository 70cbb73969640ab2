package echoweb

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kwesikendy/academyos/core/routing"
	"github.com/Kwesikendy/academyos/core/session"
)

// pageData is what every template receives: the visitor's snapshot,
// the role-appropriate menu and page-specific content.
type pageData struct {
	Title    string
	Identity *session.Identity
	Menu     []routing.MenuEntry
	Content  interface{}
	Errors   map[string]string // field errors for forms
	Next     string
}

const layoutTmpl = `<!DOCTYPE html>
<html>
<head><title>{{.Title}} · AcademyOS</title></head>
<body>
<nav>
{{range .Menu}}<a href="{{.Path}}" data-icon="{{.Icon}}">{{.Label}}</a> {{end}}
{{if .Identity}}<form method="post" action="/logout" style="display:inline"><button>Logout ({{.Identity.FullName}})</button></form>{{end}}
</nav>
<main>{{template "content" .}}</main>
</body>
</html>`

var pageTmpls = map[string]string{
	"page": `{{define "content"}}<h1>{{.Title}}</h1>{{end}}`,

	"home": `{{define "content"}}<h1>Welcome to AcademyOS</h1>
<p>Your school, one place.</p>{{end}}`,

	"login": `{{define "content"}}<h1>Login</h1>
{{with .Errors}}<ul class="errors">{{range $f, $m := .}}<li>{{$f}}: {{$m}}</li>{{end}}</ul>{{end}}
<form method="post" action="/login">
<input type="hidden" name="next" value="{{.Next}}">
<label>Email <input name="email" value="{{with .Content}}{{.Email}}{{end}}"></label>
<label>Password <input type="password" name="password"></label>
<button>Login</button>
</form>{{end}}`,

	"register": `{{define "content"}}<h1>Register</h1>
{{with .Errors}}<ul class="errors">{{range $f, $m := .}}<li>{{$f}}: {{$m}}</li>{{end}}</ul>{{end}}
<form method="post" action="/register">
<label>First name <input name="first_name" value="{{with .Content}}{{.FirstName}}{{end}}"></label>
<label>Last name <input name="last_name" value="{{with .Content}}{{.LastName}}{{end}}"></label>
<label>Email <input name="email" value="{{with .Content}}{{.Email}}{{end}}"></label>
<label>Password <input type="password" name="password"></label>
<label>Confirm <input type="password" name="password_confirm"></label>
<button>Register</button>
</form>{{end}}`,

	"unauthorized": `{{define "content"}}<h1>Not allowed</h1>
{{if .Identity}}<p>You are signed in as a {{.Identity.Role}}. This page is reserved for other roles;
your own area is linked in the navigation above.</p>{{else}}<p>You need to sign in first.</p>{{end}}
<p><a href="/dashboard">Back to your dashboard</a></p>{{end}}`,

	"notfound": `{{define "content"}}<h1>Page not found</h1>
<p><a href="/">Back home</a></p>{{end}}`,

	"courses": `{{define "content"}}<h1>Courses</h1>
<ul>{{range .Content}}<li><a href="/courses/{{.ID}}">{{.Title}}</a> ({{.Enrolled}}/{{.Capacity}})</li>{{else}}<li>No courses yet.</li>{{end}}</ul>{{end}}`,

	"dashboard": `{{define "content"}}<h1>{{.Title}}</h1>
{{with .Content}}<ul>
<li>Courses: {{.Courses}}</li>
<li>Classes: {{.Classes}}</li>
<li>Assignments: {{.Assignments}}</li>
</ul>{{end}}{{end}}`,

	"retry": `{{define "content"}}<h1>{{.Title}}</h1>
<p>We could not reach the server. Your session is untouched.</p>
<form method="get"><button>Retry</button></form>{{end}}`,
}

type renderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer() *renderer {
	r := &renderer{templates: make(map[string]*template.Template, len(pageTmpls))}
	for name, content := range pageTmpls {
		r.templates[name] = template.Must(
			template.Must(template.New("layout").Parse(layoutTmpl)).Parse(content),
		)
	}
	return r
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	return errors.Wrapf(tmpl.ExecuteTemplate(w, "layout", data), "rendering %s", name)
}
