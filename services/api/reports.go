package api

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

type (
	// AnalyticsOverview is the aggregate read-only view behind
	// /admin/analytics.
	AnalyticsOverview struct {
		TotalStudents    int                `json:"total_students"`
		TotalTeachers    int                `json:"total_teachers"`
		TotalCourses     int                `json:"total_courses"`
		EnrollmentsByDay map[string]int     `json:"enrollments_by_day"`
		AttendanceByClass map[string]float64 `json:"attendance_by_class"`
	}

	Report struct {
		ID          string      `json:"id"`
		Kind        string      `json:"kind"`
		RequestedBy string      `json:"requested_by"`
		Status      string      `json:"status"`
		FileURL     null.String `json:"file_url"`
		CreatedAt   time.Time   `json:"created_at"`
	}

	// Settings is the school-wide configuration blob.
	Settings struct {
		SchoolName       string      `json:"school_name"`
		AcademicYear     string      `json:"academic_year"`
		TermStart        null.Time   `json:"term_start"`
		TermEnd          null.Time   `json:"term_end"`
		EnrollmentOpen   bool        `json:"enrollment_open"`
		SupportEmail     null.String `json:"support_email"`
	}
)

type ReportsService struct {
	c *Client
}

func NewReportsService(c *Client) *ReportsService {
	return &ReportsService{c: c}
}

func (s *ReportsService) Overview(ctx context.Context) (AnalyticsOverview, error) {
	var out AnalyticsOverview
	if err := s.c.get(ctx, "/analytics/overview", &out); err != nil {
		return AnalyticsOverview{}, errors.Wrap(err, "getting analytics overview")
	}
	return out, nil
}

func (s *ReportsService) List(ctx context.Context) ([]Report, error) {
	var out []Report
	if err := s.c.get(ctx, "/reports", &out); err != nil {
		return nil, errors.Wrap(err, "listing reports")
	}
	return out, nil
}

// Generate asks the backend to build a report of the given kind.
func (s *ReportsService) Generate(ctx context.Context, kind string) (Report, error) {
	var out Report
	body := map[string]string{"kind": kind}
	if err := s.c.post(ctx, "/reports", body, &out); err != nil {
		return Report{}, errors.Wrapf(err, "generating %s report", kind)
	}
	return out, nil
}

type SettingsService struct {
	c *Client
}

func NewSettingsService(c *Client) *SettingsService {
	return &SettingsService{c: c}
}

func (s *SettingsService) Get(ctx context.Context) (Settings, error) {
	var out Settings
	if err := s.c.get(ctx, "/settings", &out); err != nil {
		return Settings{}, errors.Wrap(err, "getting settings")
	}
	return out, nil
}

func (s *SettingsService) Update(ctx context.Context, in Settings) (Settings, error) {
	var out Settings
	if err := s.c.put(ctx, "/settings", in, &out); err != nil {
		return Settings{}, errors.Wrap(err, "updating settings")
	}
	return out, nil
}
