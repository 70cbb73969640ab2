package api

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/session"
)

// AuthService talks to the authentication endpoints and satisfies the
// session store's AuthAPI contract.
type AuthService struct {
	c *Client
}

var _ session.AuthAPI = (*AuthService)(nil)

func NewAuthService(c *Client) *AuthService {
	return &AuthService{c: c}
}

type (
	// userPayload is the backend's user representation. The role comes
	// back as a free string and is normalized here; an unrecognized
	// value survives as-is so the gate can fail closed on it.
	userPayload struct {
		ID        string    `json:"id"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		AvatarURL null.String `json:"avatar_url"`
		LastLogin null.Time   `json:"last_login"`
	}

	authResponse struct {
		Token string      `json:"token"`
		User  userPayload `json:"user"`
	}
)

func (p userPayload) identity() session.Identity {
	return session.Identity{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      session.Role(core.CleanString(p.Role, true /* lower */)),
	}
}

func (s *AuthService) Login(ctx context.Context, creds session.Login) (session.Credential, error) {
	var resp authResponse
	if err := s.c.post(ctx, "/auth/login", creds, &resp); err != nil {
		return session.Credential{}, errors.Wrap(err, "posting login")
	}
	return session.Credential{Token: resp.Token, Identity: resp.User.identity()}, nil
}

func (s *AuthService) Register(ctx context.Context, acct session.NewAccount) (session.Credential, error) {
	var resp authResponse
	if err := s.c.post(ctx, "/auth/register", acct, &resp); err != nil {
		return session.Credential{}, errors.Wrap(err, "posting registration")
	}
	return session.Credential{Token: resp.Token, Identity: resp.User.identity()}, nil
}

// Me confirms the persisted credential against the backend.
func (s *AuthService) Me(ctx context.Context) (session.Identity, error) {
	var resp userPayload
	if err := s.c.get(ctx, "/auth/me", &resp); err != nil {
		return session.Identity{}, errors.Wrap(err, "getting current identity")
	}
	return resp.identity(), nil
}

// Logout is best-effort; the caller clears local state regardless.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.c.post(ctx, "/auth/logout", nil, nil)
}
