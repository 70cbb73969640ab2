package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

type (
	User struct {
		ID        string      `json:"id"`
		FirstName string      `json:"first_name"`
		LastName  string      `json:"last_name"`
		Email     string      `json:"email"`
		Role      string      `json:"role"`
		IsActive  bool        `json:"is_active"`
		AvatarURL null.String `json:"avatar_url"`
		LastLogin null.Time   `json:"last_login"`
		CreatedAt time.Time   `json:"created_at"`
	}

	UpdateUser struct {
		FirstName null.String `json:"first_name"`
		LastName  null.String `json:"last_name"`
		Email     null.String `json:"email"`
		IsActive  null.Bool   `json:"is_active"`
	}

	UserStats struct {
		Total     int            `json:"total"`
		ByRole    map[string]int `json:"by_role"`
		ActiveNow int            `json:"active_now"`
	}
)

type UsersService struct {
	c *Client
}

func NewUsersService(c *Client) *UsersService {
	return &UsersService{c: c}
}

// List queries users; role filters when non-empty.
func (s *UsersService) List(ctx context.Context, role string) ([]User, error) {
	path := "/users"
	if role != "" {
		path += "?role=" + url.QueryEscape(role)
	}
	var out []User
	if err := s.c.get(ctx, path, &out); err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	return out, nil
}

func (s *UsersService) Get(ctx context.Context, id string) (User, error) {
	var out User
	if err := s.c.get(ctx, "/users/"+url.PathEscape(id), &out); err != nil {
		return User{}, errors.Wrapf(err, "getting user %s", id)
	}
	return out, nil
}

func (s *UsersService) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	var out User
	if err := s.c.put(ctx, "/users/"+url.PathEscape(id), uu, &out); err != nil {
		return User{}, errors.Wrapf(err, "updating user %s", id)
	}
	return out, nil
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(s.c.delete(ctx, "/users/"+url.PathEscape(id)), "deleting user %s", id)
}

func (s *UsersService) ChangeRole(ctx context.Context, id, role string) (User, error) {
	var out User
	body := map[string]string{"role": role}
	if err := s.c.put(ctx, fmt.Sprintf("/users/%s/role", url.PathEscape(id)), body, &out); err != nil {
		return User{}, errors.Wrapf(err, "changing role of user %s", id)
	}
	return out, nil
}

func (s *UsersService) Stats(ctx context.Context) (UserStats, error) {
	var out UserStats
	if err := s.c.get(ctx, "/users/stats", &out); err != nil {
		return UserStats{}, errors.Wrap(err, "getting user stats")
	}
	return out, nil
}

// ProfileImage fetches a user's avatar bytes for local caching.
func (s *UsersService) ProfileImage(ctx context.Context, id string) ([]byte, string, error) {
	data, contentType, err := s.c.getBytes(ctx, fmt.Sprintf("/users/%s/avatar", url.PathEscape(id)))
	if err != nil {
		return nil, "", errors.Wrapf(err, "getting avatar of user %s", id)
	}
	return data, contentType, nil
}

// LinkChild associates a student account with a parent account.
func (s *UsersService) LinkChild(ctx context.Context, parentID, childID string) error {
	body := map[string]string{"child_id": childID}
	return errors.Wrapf(
		s.c.post(ctx, fmt.Sprintf("/users/%s/children", url.PathEscape(parentID)), body, nil),
		"linking child %s to parent %s", childID, parentID,
	)
}
