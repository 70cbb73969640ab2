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
	Course struct {
		ID          string      `json:"id"`
		Title       string      `json:"title"`
		Description null.String `json:"description"`
		TeacherID   null.String `json:"teacher_id"`
		TeacherName null.String `json:"teacher_name"`
		Capacity    int         `json:"capacity"`
		Enrolled    int         `json:"enrolled"`
		PublishedAt null.Time   `json:"published_at"`
		CreatedAt   time.Time   `json:"created_at"`
		UpdatedAt   time.Time   `json:"updated_at"`
	}

	NewCourse struct {
		Title       string      `json:"title" validate:"required"`
		Description null.String `json:"description"`
		Capacity    int         `json:"capacity" validate:"omitempty,min=1"`
	}

	UpdateCourse struct {
		Title       null.String `json:"title"`
		Description null.String `json:"description"`
		Capacity    null.Int    `json:"capacity"`
	}

	Enrollment struct {
		ID         string    `json:"id"`
		CourseID   string    `json:"course_id"`
		StudentID  string    `json:"student_id"`
		Student    string    `json:"student_name"`
		EnrolledAt time.Time `json:"enrolled_at"`
	}
)

type CoursesService struct {
	c *Client
}

func NewCoursesService(c *Client) *CoursesService {
	return &CoursesService{c: c}
}

// List queries the course catalog; search is optional.
func (s *CoursesService) List(ctx context.Context, search string) ([]Course, error) {
	path := "/courses"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []Course
	if err := s.c.get(ctx, path, &out); err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}
	return out, nil
}

func (s *CoursesService) Get(ctx context.Context, id string) (Course, error) {
	var out Course
	if err := s.c.get(ctx, "/courses/"+url.PathEscape(id), &out); err != nil {
		return Course{}, errors.Wrapf(err, "getting course %s", id)
	}
	return out, nil
}

func (s *CoursesService) Create(ctx context.Context, nc NewCourse) (Course, error) {
	var out Course
	if err := s.c.post(ctx, "/courses", nc, &out); err != nil {
		return Course{}, errors.Wrap(err, "creating course")
	}
	return out, nil
}

func (s *CoursesService) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	var out Course
	if err := s.c.put(ctx, "/courses/"+url.PathEscape(id), uc, &out); err != nil {
		return Course{}, errors.Wrapf(err, "updating course %s", id)
	}
	return out, nil
}

func (s *CoursesService) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(s.c.delete(ctx, "/courses/"+url.PathEscape(id)), "deleting course %s", id)
}

func (s *CoursesService) Enrollments(ctx context.Context, id string) ([]Enrollment, error) {
	var out []Enrollment
	if err := s.c.get(ctx, fmt.Sprintf("/courses/%s/enrollments", url.PathEscape(id)), &out); err != nil {
		return nil, errors.Wrapf(err, "listing enrollments for course %s", id)
	}
	return out, nil
}

func (s *CoursesService) Enroll(ctx context.Context, id string) error {
	return errors.Wrapf(
		s.c.post(ctx, fmt.Sprintf("/courses/%s/enroll", url.PathEscape(id)), nil, nil),
		"enrolling in course %s", id,
	)
}

func (s *CoursesService) Unenroll(ctx context.Context, id string) error {
	return errors.Wrapf(
		s.c.post(ctx, fmt.Sprintf("/courses/%s/unenroll", url.PathEscape(id)), nil, nil),
		"unenrolling from course %s", id,
	)
}
