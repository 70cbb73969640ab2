package echoweb

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/routing"
	"github.com/Kwesikendy/academyos/core/session"
	"github.com/Kwesikendy/academyos/services/api"
)

type pageHandlers struct {
	auth       *cookieAuth
	client     *api.Client
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator
}

// apiFor returns a client reading the bearer token from this request's
// session cookie.
func (h *pageHandlers) apiFor(ctx echo.Context) *api.Client {
	return h.client.WithToken(api.StaticToken(h.auth.apiToken(ctx)))
}

func (h *pageHandlers) data(ctx echo.Context, title string) pageData {
	snap, _ := ctx.Get(ctxSnapshotKey).(session.Snapshot)
	return pageData{
		Title:    title,
		Identity: snap.Identity,
		Menu:     routing.MenuFor(snap.Role()),
	}
}

// page builds the GET handler for one route rule.
func (h *pageHandlers) page(rule routing.Rule) echo.HandlerFunc {
	switch rule.Pattern {
	case "/":
		return func(ctx echo.Context) error {
			return ctx.Render(http.StatusOK, "home", h.data(ctx, "Home"))
		}
	case "/login":
		return h.loginForm
	case "/register":
		return h.registerForm
	case "/unauthorized":
		return func(ctx echo.Context) error {
			return ctx.Render(http.StatusOK, "unauthorized", h.data(ctx, "Not allowed"))
		}
	case "/courses":
		return h.courses
	case "/dashboard", "/student", "/teacher", "/admin", "/parent":
		return h.dashboard(rule.Pattern)
	default:
		title := pageTitle(rule.Pattern)
		return func(ctx echo.Context) error {
			return ctx.Render(http.StatusOK, "page", h.data(ctx, title))
		}
	}
}

func (h *pageHandlers) notFound(ctx echo.Context) error {
	return ctx.Render(http.StatusNotFound, "notfound", h.data(ctx, "Page not found"))
}

func (h *pageHandlers) loginForm(ctx echo.Context) error {
	data := h.data(ctx, "Login")
	data.Next = ctx.QueryParam(nextParam)
	return ctx.Render(http.StatusOK, "login", data)
}

func (h *pageHandlers) registerForm(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "register", h.data(ctx, "Register"))
}

// courses is a public page backed by a backend fetch; transient
// failures stay view-local with a retry affordance.
func (h *pageHandlers) courses(ctx echo.Context) error {
	list, err := api.NewCoursesService(h.apiFor(ctx)).List(ctx.Request().Context(), ctx.QueryParam("search"))
	if err != nil {
		if api.IsTransient(err) {
			h.logger.Warn("fetching courses", err)
			return ctx.Render(http.StatusOK, "retry", h.data(ctx, "Courses"))
		}
		return errors.Wrap(err, "fetching courses")
	}
	data := h.data(ctx, "Courses")
	data.Content = list
	return ctx.Render(http.StatusOK, "courses", data)
}

func (h *pageHandlers) dashboard(pattern string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		snap, _ := ctx.Get(ctxSnapshotKey).(session.Snapshot)
		data := h.data(ctx, pageTitle(pattern))
		summary, err := api.NewDashboardsService(h.apiFor(ctx)).Summary(ctx.Request().Context(), snap.Role())
		if err != nil {
			if api.IsTransient(err) {
				h.logger.Warn("fetching dashboard summary", err)
				return ctx.Render(http.StatusOK, "retry", data)
			}
			return errors.Wrap(err, "fetching dashboard summary")
		}
		data.Content = summary
		return ctx.Render(http.StatusOK, "dashboard", data)
	}
}

// Form endpoints

func (h *pageHandlers) login(ctx echo.Context) error {
	var creds session.Login
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding login form")
	}
	next := ctx.FormValue(nextParam)

	renderErr := func(flds map[string]string) error {
		data := h.data(ctx, "Login")
		data.Errors = flds
		data.Next = next
		data.Content = creds // entered input survives
		return ctx.Render(http.StatusBadRequest, "login", data)
	}

	if err := creds.Validate(h.validate); err != nil {
		return renderErr(h.fieldErrors(err))
	}
	cred, err := api.NewAuthService(h.apiFor(ctx)).Login(ctx.Request().Context(), creds)
	if err != nil {
		if session.IsAuthRejected(err) {
			return renderErr(map[string]string{"credentials": "invalid credentials"})
		}
		if flds := h.fieldErrors(err); flds != nil {
			return renderErr(flds)
		}
		return errors.Wrap(err, "logging in")
	}
	if err = h.auth.establish(ctx, cred); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, safeNext(next))
}

func (h *pageHandlers) register(ctx echo.Context) error {
	var acct session.NewAccount
	if err := ctx.Bind(&acct); err != nil {
		return errors.Wrap(err, "binding registration form")
	}

	renderErr := func(flds map[string]string) error {
		data := h.data(ctx, "Register")
		data.Errors = flds
		data.Content = acct
		return ctx.Render(http.StatusBadRequest, "register", data)
	}

	if err := acct.Validate(h.validate); err != nil {
		return renderErr(h.fieldErrors(err))
	}
	cred, err := api.NewAuthService(h.apiFor(ctx)).Register(ctx.Request().Context(), acct)
	if err != nil {
		if flds := h.fieldErrors(err); flds != nil {
			return renderErr(flds)
		}
		return errors.Wrap(err, "registering")
	}
	if err = h.auth.establish(ctx, cred); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, "/dashboard")
}

func (h *pageHandlers) logout(ctx echo.Context) error {
	if err := api.NewAuthService(h.apiFor(ctx)).Logout(ctx.Request().Context()); err != nil {
		h.logger.Debug("server-side logout", err)
	}
	h.auth.clear(ctx)
	return ctx.Redirect(http.StatusFound, "/")
}

// fieldErrors flattens validation errors into a field -> message map,
// nil when err carries no field detail.
func (h *pageHandlers) fieldErrors(err error) map[string]string {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		flds := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			flds[vErr.Field()] = vErr.Translate(h.translator)
		}
		return flds
	case *core.ValidationError:
		if len(origErr.Fields) == 0 {
			return map[string]string{"form": origErr.Error()}
		}
		flds := make(map[string]string, len(origErr.Fields))
		for _, fErr := range origErr.Fields {
			flds[fErr.Field] = fErr.Error
		}
		return flds
	}
	return nil
}

// safeNext only honors internal return targets.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/dashboard"
}

// pageTitle derives a display title from a route pattern.
func pageTitle(pattern string) string {
	segs := splitTitleSegs(pattern)
	if len(segs) == 0 {
		return "Home"
	}
	for i, seg := range segs {
		segs[i] = strings.Title(strings.ReplaceAll(seg, "-", " "))
	}
	return strings.Join(segs, " · ")
}

func splitTitleSegs(pattern string) []string {
	var segs []string
	for _, seg := range strings.Split(strings.Trim(pattern, "/"), "/") {
		if seg == "" || strings.HasPrefix(seg, ":") {
			continue
		}
		segs = append(segs, seg)
	}
	return segs
}
