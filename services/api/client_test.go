package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/session"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	conf := core.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, RequestsPerS: 1000}
	return NewClient(conf, StaticToken(""), nopLogger{}), srv
}

func TestClient_requestShape(t *testing.T) {
	var got *http.Request
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))

	var out struct{}
	if err := client.WithToken(StaticToken("tok-abc")).get(context.Background(), "/auth/me", &out); err != nil {
		t.Fatalf("get() = %v; expected nil", err)
	}
	if got.URL.Path != "/auth/me" {
		t.Errorf("path = %s; expected /auth/me", got.URL.Path)
	}
	if auth := got.Header.Get("Authorization"); auth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q; expected Bearer tok-abc", auth)
	}
	if got.Header.Get("Accept") != "application/json" {
		t.Error("missing Accept header")
	}
	if got.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestClient_noTokenNoAuthHeader(t *testing.T) {
	var auth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	if err := client.get(context.Background(), "/courses", nil); err != nil {
		t.Fatalf("get() = %v; expected nil", err)
	}
	if auth != "" {
		t.Errorf("Authorization = %q; expected none for an anonymous client", auth)
	}
}

func TestClient_errorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			"401 is an auth rejection", http.StatusUnauthorized, `{"error": "token expired"}`,
			func(t *testing.T, err error) {
				if !session.IsAuthRejected(err) {
					t.Errorf("expected IsAuthRejected; got %v", err)
				}
			},
		},
		{
			"403 is forbidden", http.StatusForbidden, `{"error": "admins only"}`,
			func(t *testing.T, err error) {
				if !errors.Is(err, ErrForbidden) {
					t.Errorf("expected ErrForbidden; got %v", err)
				}
				if session.IsAuthRejected(err) {
					t.Error("forbidden must not count as an auth rejection")
				}
			},
		},
		{
			"404 is not found", http.StatusNotFound, `{"error": "no such course"}`,
			func(t *testing.T, err error) {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("expected ErrNotFound; got %v", err)
				}
			},
		},
		{
			"400 carries field errors", http.StatusBadRequest, `{"error": "invalid input", "errors": {"email": "already taken"}}`,
			func(t *testing.T, err error) {
				var vErr *core.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected *core.ValidationError; got %T (%v)", err, err)
				}
				if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" {
					t.Errorf("fields = %+v; expected the email detail preserved", vErr.Fields)
				}
			},
		},
		{
			"500 is transient", http.StatusInternalServerError, `{"error": "boom"}`,
			func(t *testing.T, err error) {
				if !IsTransient(err) {
					t.Errorf("expected IsTransient; got %v", err)
				}
				var tErr *TransientError
				if errors.As(err, &tErr) && tErr.Status != http.StatusInternalServerError {
					t.Errorf("status = %d; expected 500", tErr.Status)
				}
			},
		},
		{
			"empty error body falls back to the status text", http.StatusBadGateway, ``,
			func(t *testing.T, err error) {
				if !IsTransient(err) {
					t.Errorf("expected IsTransient; got %v", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			err := client.get(context.Background(), "/whatever", nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			tt.check(t, err)
		})
	}
}

func TestClient_authRejectHookFires(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	var fired int
	client.OnAuthReject(func() { fired++ })

	// request-scoped copies share the hook
	scoped := client.WithToken(StaticToken("stale-token"))
	_ = scoped.get(context.Background(), "/auth/me", nil)
	if fired != 1 {
		t.Errorf("hook fired %d times; expected 1", fired)
	}

	client.OnAuthReject(nil)
	_ = client.get(context.Background(), "/auth/me", nil) // must not panic
}

func TestClient_transportFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nobody listening anymore
	conf := core.APIConfig{BaseURL: srv.URL, Timeout: time.Second, RequestsPerS: 1000}
	client := NewClient(conf, StaticToken(""), nopLogger{})

	err := client.get(context.Background(), "/courses", nil)
	if !IsTransient(err) {
		t.Errorf("expected a transport failure to be transient; got %v", err)
	}
	if session.IsAuthRejected(err) {
		t.Error("a transport failure must never count as an auth rejection")
	}
}

func TestClient_getBytes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	data, contentType, err := client.getBytes(context.Background(), "/users/u1/avatar")
	if err != nil {
		t.Fatalf("getBytes() = %v; expected nil", err)
	}
	if string(data) != "png-bytes" || contentType != "image/png" {
		t.Errorf("getBytes() = (%q, %q); expected the raw body and content type", data, contentType)
	}
}

func TestAuthService(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"token": "tok-xyz",
			"user": {"id": "u7", "first_name": "Ama", "last_name": "Owusu", "email": "ama@academyos.test", "role": "Teacher"}
		}`))
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "u7", "first_name": "Ama", "last_name": "Owusu", "email": "ama@academyos.test", "role": "superuser"}`))
	})
	client, _ := newTestClient(t, mux)
	svc := NewAuthService(client)

	t.Run("login normalizes the role", func(t *testing.T) {
		cred, err := svc.Login(context.Background(), session.Login{Email: "ama@academyos.test", Password: "pw"})
		if err != nil {
			t.Fatalf("Login() = %v; expected nil", err)
		}
		assert.Equal(t, "tok-xyz", cred.Token)
		assert.Equal(t, session.RoleTeacher, cred.Identity.Role, "the backend casing should be normalized")
		assert.Equal(t, "Ama Owusu", cred.Identity.FullName())
	})

	t.Run("unknown role survives for the gate to reject", func(t *testing.T) {
		ident, err := svc.Me(context.Background())
		if err != nil {
			t.Fatalf("Me() = %v; expected nil", err)
		}
		if ident.Role != session.Role("superuser") {
			t.Errorf("role = %q; expected the raw unknown value", ident.Role)
		}
		if ident.Role.Known() {
			t.Error("an unrecognized role must not be in the closed set")
		}
	})
}
