// Package echoweb is the server-rendered surface: one route per entry
// of the route-rule table, with the access gate enforced as middleware
// before any guarded view renders.
package echoweb

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/routing"
	"github.com/Kwesikendy/academyos/services/api"
)

type (
	Options struct {
		Conf       *core.Config
		Logger     core.Logger
		Client     *api.Client
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts *Options
		app  *echo.Echo
		auth *cookieAuth

		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:       opts,
		app:        echo.New(),
		auth:       newCookieAuth(opts.Conf),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Web.DisableRequestLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = s.newHTTPErrorHandler()
	s.app.Renderer = newRenderer()
	s.app.Debug = conf.Debug

	h := &pageHandlers{
		auth:       s.auth,
		client:     s.opts.Client,
		logger:     s.opts.Logger,
		validate:   s.opts.Validate,
		translator: s.opts.Translator,
	}

	// form endpoints (outside the gate; their GET pages are public rules)
	s.app.POST("/login", h.login)
	s.app.POST("/register", h.register)
	s.app.POST("/logout", h.logout)

	// one route per rule, every one behind the gate
	gated := s.app.Group("", s.gateMiddleware())
	for _, rule := range routing.Rules() {
		gated.GET(rule.Pattern, h.page(rule))
	}
	gated.GET("/*", h.notFound)
}

func (s *server) Start() {
	go func() {
		if err := s.app.Start(s.opts.Conf.Web.Addr); err != nil && err != http.ErrServerClosed {
			s.errCh <- err
		}
	}()
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
