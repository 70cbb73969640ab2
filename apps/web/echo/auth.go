package echoweb

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/session"
)

// Claims is the signed session cookie payload: the cached identity for
// instant paint plus the backend bearer token. The cookie is the web
// twin of the persisted credential and this package is its only writer.
type Claims struct {
	jwt.StandardClaims
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	APIToken  string `json:"api_token,omitempty"`
}

type cookieAuth struct {
	name      string
	secretKey []byte
	maxAge    time.Duration
	appName   string
	secure    bool
}

func newCookieAuth(conf *core.Config) *cookieAuth {
	return &cookieAuth{
		name:      conf.Web.SessionCookieName,
		secretKey: []byte(conf.SecretKey),
		maxAge:    conf.Web.SessionMaxAge,
		appName:   conf.AppName,
		secure:    !conf.Debug,
	}
}

func (a *cookieAuth) claims(cred session.Credential) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.appName,
			Subject:   cred.Identity.ID,
			ExpiresAt: now.Add(a.maxAge).Unix(),
			IssuedAt:  now.Unix(),
		},
		FirstName: cred.Identity.FirstName,
		LastName:  cred.Identity.LastName,
		Email:     cred.Identity.Email,
		Role:      cred.Identity.Role.String(),
		APIToken:  cred.Token,
	}
}

// establish signs a session cookie for the credential.
func (a *cookieAuth) establish(ctx echo.Context, cred session.Credential) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, a.claims(cred))
	signed, err := token.SignedString(a.secretKey)
	if err != nil {
		return errors.Wrap(err, "signing session cookie")
	}
	ctx.SetCookie(&http.Cookie{
		Name:     a.name,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(a.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (a *cookieAuth) clear(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     a.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// snapshot resolves the visitor's session from the cookie. Resolution
// is synchronous here, so the snapshot is never loading. A missing,
// expired or tampered cookie just means anonymous.
func (a *cookieAuth) snapshot(ctx echo.Context) session.Snapshot {
	cookie, err := ctx.Cookie(a.name)
	if err != nil || cookie.Value == "" {
		return session.Snapshot{}
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secretKey, nil
	})
	if err != nil || !token.Valid {
		return session.Snapshot{}
	}
	return session.Snapshot{
		Identity: &session.Identity{
			ID:        claims.Subject,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Email:     claims.Email,
			Role:      session.Role(claims.Role),
		},
	}
}

// apiToken extracts the backend bearer token from the cookie, empty
// when anonymous.
func (a *cookieAuth) apiToken(ctx echo.Context) string {
	cookie, err := ctx.Cookie(a.name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secretKey, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.APIToken
}
