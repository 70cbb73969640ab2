package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/routing"
	"github.com/Kwesikendy/academyos/core/session"
)

// newHTTPErrorHandler returns a custom echo.HTTPErrorHandler for this
// surface. A rejected backend token anywhere is treated as logout: the
// cookie is cleared and the visitor lands on login with their intended
// destination preserved. Everything else renders in place.
func (s *server) newHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		// SessionExpired: clear and re-gate
		if session.IsAuthRejected(err) {
			s.auth.clear(ctx)
			target := ctx.Request().URL.Path
			_ = ctx.Redirect(http.StatusFound, "/login?"+nextParam+"="+target)
			return
		}

		code := http.StatusInternalServerError
		title := "Something went wrong"
		if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
			code = herr.Code
			if msg, ok := herr.Message.(string); ok {
				title = msg
			}
		}
		if code >= 500 {
			s.opts.Logger.Error(title, err)
			if core.IsShutdown(err) {
				s.shutdownCh <- nil
			}
		}

		snap := s.auth.snapshot(ctx)
		data := pageData{Title: title, Identity: snap.Identity, Menu: routing.MenuFor(snap.Role())}
		if rErr := ctx.Render(code, "page", data); rErr != nil {
			ctx.Echo().Logger.Error(rErr)
		}
	}
}
