package api

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Kwesikendy/academyos/core/session"
)

type (
	// DashboardSummary is the per-role landing aggregate; the backend
	// omits blocks that do not apply to the requesting role.
	DashboardSummary struct {
		Courses       int         `json:"courses"`
		Classes       int         `json:"classes"`
		Assignments   int         `json:"assignments"`
		PendingGrades null.Int    `json:"pending_grades"`
		Attendance    null.Float64 `json:"attendance_rate"`
		NextClass     null.String `json:"next_class"`
	}

	Notification struct {
		ID        string    `json:"id"`
		Message   string    `json:"message"`
		ReadAt    null.Time `json:"read_at"`
		CreatedAt string    `json:"created_at"`
	}
)

type DashboardsService struct {
	c *Client
}

func NewDashboardsService(c *Client) *DashboardsService {
	return &DashboardsService{c: c}
}

// Summary fetches the landing aggregate for the given role.
func (s *DashboardsService) Summary(ctx context.Context, role session.Role) (DashboardSummary, error) {
	var out DashboardSummary
	if err := s.c.get(ctx, "/dashboards/"+url.PathEscape(role.String()), &out); err != nil {
		return DashboardSummary{}, errors.Wrapf(err, "getting %s dashboard", role)
	}
	return out, nil
}

type NotificationsService struct {
	c *Client
}

func NewNotificationsService(c *Client) *NotificationsService {
	return &NotificationsService{c: c}
}

func (s *NotificationsService) List(ctx context.Context) ([]Notification, error) {
	var out []Notification
	if err := s.c.get(ctx, "/notifications", &out); err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	return out, nil
}

func (s *NotificationsService) MarkRead(ctx context.Context, id string) error {
	return errors.Wrapf(
		s.c.post(ctx, "/notifications/"+url.PathEscape(id)+"/read", nil, nil),
		"marking notification %s read", id,
	)
}
