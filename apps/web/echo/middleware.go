package echoweb

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/Kwesikendy/academyos/core/routing"
)

const (
	ctxSnapshotKey = "sessionSnapshot"
	nextParam      = "next"
)

// gateMiddleware evaluates the access gate before any guarded view
// renders. Redirects are silent for unauthenticated visitors; the
// originally requested path rides along so login can return them to it.
func (s *server) gateMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			snap := s.auth.snapshot(ctx)
			ctx.Set(ctxSnapshotKey, snap)

			outcome := routing.Evaluate(snap, ctx.Request().URL.Path)
			switch outcome.Decision {
			case routing.Allow:
				return next(ctx)
			case routing.RedirectToLogin:
				return ctx.Redirect(http.StatusFound, "/login?"+nextParam+"="+url.QueryEscape(outcome.ReturnTo))
			case routing.RedirectToUnauthorized:
				return ctx.Redirect(http.StatusFound, "/unauthorized")
			default:
				// cookie resolution is synchronous; loading cannot happen here
				return ctx.Redirect(http.StatusFound, "/")
			}
		}
	}
}
