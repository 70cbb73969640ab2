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
	Class struct {
		ID        string      `json:"id"`
		Name      string      `json:"name"`
		CourseID  null.String `json:"course_id"`
		TeacherID null.String `json:"teacher_id"`
		Room      null.String `json:"room"`
		Schedule  null.String `json:"schedule"`
		CreatedAt time.Time   `json:"created_at"`
	}

	NewClass struct {
		Name     string      `json:"name" validate:"required"`
		CourseID null.String `json:"course_id"`
		Room     null.String `json:"room"`
		Schedule null.String `json:"schedule"`
	}

	UpdateClass struct {
		Name     null.String `json:"name"`
		Room     null.String `json:"room"`
		Schedule null.String `json:"schedule"`
	}

	RosterEntry struct {
		StudentID string `json:"student_id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
	}

	// AttendanceMark records one student's presence for a session date.
	AttendanceMark struct {
		StudentID string `json:"student_id" validate:"required"`
		Date      string `json:"date" validate:"required"` // YYYY-MM-DD
		Status    string `json:"status" validate:"required,oneof=present absent late excused"`
	}
)

type ClassesService struct {
	c *Client
}

func NewClassesService(c *Client) *ClassesService {
	return &ClassesService{c: c}
}

func (s *ClassesService) List(ctx context.Context) ([]Class, error) {
	var out []Class
	if err := s.c.get(ctx, "/classes", &out); err != nil {
		return nil, errors.Wrap(err, "listing classes")
	}
	return out, nil
}

func (s *ClassesService) Get(ctx context.Context, id string) (Class, error) {
	var out Class
	if err := s.c.get(ctx, "/classes/"+url.PathEscape(id), &out); err != nil {
		return Class{}, errors.Wrapf(err, "getting class %s", id)
	}
	return out, nil
}

func (s *ClassesService) Create(ctx context.Context, nc NewClass) (Class, error) {
	var out Class
	if err := s.c.post(ctx, "/classes", nc, &out); err != nil {
		return Class{}, errors.Wrap(err, "creating class")
	}
	return out, nil
}

func (s *ClassesService) Update(ctx context.Context, id string, uc UpdateClass) (Class, error) {
	var out Class
	if err := s.c.put(ctx, "/classes/"+url.PathEscape(id), uc, &out); err != nil {
		return Class{}, errors.Wrapf(err, "updating class %s", id)
	}
	return out, nil
}

func (s *ClassesService) Roster(ctx context.Context, id string) ([]RosterEntry, error) {
	var out []RosterEntry
	if err := s.c.get(ctx, fmt.Sprintf("/classes/%s/roster", url.PathEscape(id)), &out); err != nil {
		return nil, errors.Wrapf(err, "getting roster for class %s", id)
	}
	return out, nil
}

func (s *ClassesService) MarkAttendance(ctx context.Context, id string, marks []AttendanceMark) error {
	return errors.Wrapf(
		s.c.post(ctx, fmt.Sprintf("/classes/%s/attendance", url.PathEscape(id)), marks, nil),
		"marking attendance for class %s", id,
	)
}
