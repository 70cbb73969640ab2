package echoweb

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/session"
	"github.com/Kwesikendy/academyos/services/api"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func testConf() *core.Config {
	return &core.Config{
		AppName:   "AcademyOS",
		Env:       "TEST",
		Debug:     true,
		TestMode:  true,
		SecretKey: "test-secret",
		Web: core.WebConfig{
			Addr:               ":0",
			SessionCookieName:  "academyos_session",
			SessionMaxAge:      time.Hour,
			DisableRequestLogs: true,
		},
	}
}

// fakeBackend is a minimal AcademyOS REST backend.
func fakeBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/courses", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "c1", "title": "Algebra I", "capacity": 30, "enrolled": 12,
			"created_at": "2026-01-05T08:00:00Z", "updated_at": "2026-01-05T08:00:00Z"}]`))
	})
	dashboard := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"courses": 3, "classes": 2, "assignments": 5}`))
	}
	mux.HandleFunc("/dashboards/", dashboard)
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "right-password") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"token": "tok-backend",
			"user": {"id": "u1", "first_name": "Efua", "last_name": "Asante", "email": "efua@academyos.test", "role": "student"}
		}`))
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newTestServer(t *testing.T, conf *core.Config, backend http.Handler) Server {
	t.Helper()
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	validate := validator.New()
	enLoc := en.New()
	translator, _ := ut.New(enLoc, enLoc).GetTranslator("en")
	core.InitValidators(validate, translator)
	session.InitValidators(validate, translator)

	client := api.NewClient(
		core.APIConfig{BaseURL: backendSrv.URL, Timeout: 2 * time.Second, RequestsPerS: 1000},
		api.StaticToken(""), nopLogger{},
	)
	return NewServer(&Options{
		Conf:       conf,
		Logger:     nopLogger{},
		Client:     client,
		Validate:   validate,
		Translator: translator,
	})
}

// sessionCookie mints a signed session cookie the way login would.
func sessionCookie(t *testing.T, conf *core.Config, role session.Role, apiToken string) *http.Cookie {
	t.Helper()
	auth := newCookieAuth(conf)
	cred := session.Credential{
		Token: apiToken,
		Identity: session.Identity{
			ID: "u1", FirstName: "Efua", LastName: "Asante",
			Email: "efua@academyos.test", Role: role,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.claims(cred)).SignedString(auth.secretKey)
	if err != nil {
		t.Fatalf("signing test cookie: %v", err)
	}
	return &http.Cookie{Name: auth.name, Value: signed}
}

func TestServer_gate(t *testing.T) {
	conf := testConf()
	srv := newTestServer(t, conf, fakeBackend())

	tests := []struct {
		name         string
		path         string
		role         session.Role // RoleNone means no cookie at all
		wantStatus   int
		wantLocation string
	}{
		{"public home", "/", session.RoleNone, http.StatusOK, ""},
		{"public catalog", "/courses", session.RoleNone, http.StatusOK, ""},
		{"public course detail", "/courses/c1", session.RoleNone, http.StatusOK, ""},
		{"anonymous to authenticated page", "/dashboard", session.RoleNone, http.StatusFound, "/login?next=%2Fdashboard"},
		{"anonymous to admin page", "/admin/users", session.RoleNone, http.StatusFound, "/login?next=%2Fadmin%2Fusers"},
		{"student to own dashboard", "/student", session.RoleStudent, http.StatusOK, ""},
		{"student to shared page", "/classes", session.RoleStudent, http.StatusOK, ""},
		{"student to admin page", "/admin/settings", session.RoleStudent, http.StatusFound, "/unauthorized"},
		{"teacher to class creation", "/classes/create", session.RoleTeacher, http.StatusOK, ""},
		{"teacher to student area", "/student", session.RoleTeacher, http.StatusFound, "/unauthorized"},
		{"unknown role to authenticated page", "/dashboard", session.Role("superuser"), http.StatusOK, ""},
		{"unknown role fails closed", "/admin/users", session.Role("superuser"), http.StatusFound, "/unauthorized"},
		{"unregistered path", "/definitely/not/a/page", session.RoleNone, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.role != session.RoleNone {
				req.AddCookie(sessionCookie(t, conf, tt.role, "tok-backend"))
			}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("GET %s status = %d; expected %d", tt.path, rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("GET %s location = %q; expected %q", tt.path, got, tt.wantLocation)
			}
		})
	}
}

func TestServer_tamperedCookieIsAnonymous(t *testing.T) {
	conf := testConf()
	srv := newTestServer(t, conf, fakeBackend())

	cookie := sessionCookie(t, conf, session.RoleAdmin, "tok-backend")
	cookie.Value += "x" // break the signature

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d; expected a redirect", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?") {
		t.Errorf("location = %q; a broken cookie must gate as anonymous, not as admin", loc)
	}
}

func TestServer_login(t *testing.T) {
	conf := testConf()
	srv := newTestServer(t, conf, fakeBackend())

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	t.Run("success sets the cookie and honors next", func(t *testing.T) {
		rec := post(url.Values{
			"email":    {"efua@academyos.test"},
			"password": {"right-password"},
			"next":     {"/student/courses"},
		})
		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d (%s); expected 302", rec.Code, rec.Body.String())
		}
		if loc := rec.Header().Get("Location"); loc != "/student/courses" {
			t.Errorf("location = %q; expected the requested destination", loc)
		}
		var found bool
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == conf.Web.SessionCookieName && cookie.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("login did not set a session cookie")
		}
	})

	t.Run("external next is ignored", func(t *testing.T) {
		rec := post(url.Values{
			"email":    {"efua@academyos.test"},
			"password": {"right-password"},
			"next":     {"https://evil.example/phish"},
		})
		if loc := rec.Header().Get("Location"); loc != "/dashboard" {
			t.Errorf("location = %q; expected the external target replaced", loc)
		}
	})

	t.Run("rejected credentials re-render the form", func(t *testing.T) {
		rec := post(url.Values{
			"email":    {"efua@academyos.test"},
			"password": {"wrong-password"},
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; expected 400", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, "invalid credentials") {
			t.Error("expected the rejection message rendered inline")
		}
		if body := rec.Body.String(); !strings.Contains(body, "efua@academyos.test") {
			t.Error("entered email must survive a failed attempt")
		}
	})

	t.Run("invalid input never reaches the backend", func(t *testing.T) {
		rec := post(url.Values{"email": {"not-an-email"}, "password": {""}})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; expected 400", rec.Code)
		}
	})
}

func TestServer_logout(t *testing.T) {
	conf := testConf()
	srv := newTestServer(t, conf, fakeBackend())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(sessionCookie(t, conf, session.RoleStudent, "tok-backend"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("status = %d location = %q; expected a redirect home", rec.Code, rec.Header().Get("Location"))
	}
	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == conf.Web.SessionCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout must drop the session cookie")
	}
}

// A 401 from the backend on any page means the bearer token died while
// the cookie still looks valid: clear the cookie and send the visitor
// back through login towards where they were going.
func TestServer_expiredBackendToken(t *testing.T) {
	conf := testConf()
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "token expired"}`))
	})
	srv := newTestServer(t, conf, backend)

	req := httptest.NewRequest(http.MethodGet, "/student", nil)
	req.AddCookie(sessionCookie(t, conf, session.RoleStudent, "tok-stale"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d; expected a redirect to login", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?next=") {
		t.Errorf("location = %q; expected login with the destination preserved", loc)
	}
	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == conf.Web.SessionCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("a rejected token must clear the session cookie")
	}
}

// A flaky backend keeps the failure view-local: the page renders with a
// retry affordance instead of bouncing the session.
func TestServer_transientBackendFailure(t *testing.T) {
	conf := testConf()
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := newTestServer(t, conf, backend)

	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; expected the retry view, not an error page", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Retry") {
		t.Error("expected a retry affordance in the body")
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/student/courses", "/student/courses"},
		{"", "/dashboard"},
		{"https://evil.example", "/dashboard"},
		{"//evil.example", "/dashboard"},
		{"dashboard", "/dashboard"},
	}
	for _, tt := range tests {
		if got := safeNext(tt.in); got != tt.want {
			t.Errorf("safeNext(%q) = %q; expected %q", tt.in, got, tt.want)
		}
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"/", "Home"},
		{"/create-course", "Create Course"},
		{"/admin/users", "Admin · Users"},
		{"/teacher/classes/:classId/attendance", "Teacher · Classes · Attendance"},
	}
	for _, tt := range tests {
		if got := pageTitle(tt.pattern); got != tt.want {
			t.Errorf("pageTitle(%q) = %q; expected %q", tt.pattern, got, tt.want)
		}
	}
}
