package analytics

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrClassNotFound is returned when a class name matches no students.
var ErrClassNotFound = errors.New("class not found")

// Overview is the system-wide entity census.
type Overview struct {
	Users       int       `json:"users"`
	Students    int       `json:"students"`
	Teachers    int       `json:"teachers"`
	Lessons     int       `json:"lessons"`
	Grades      int       `json:"grades"`
	Attendance  int       `json:"attendance"`
	Homework    int       `json:"homework"`
	Submissions int       `json:"submissions"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ClassStudent identifies one member of a class roster.
type ClassStudent struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// ClassOverview summarizes a class: its roster and how many grades were
// recorded for its students over the trailing window.
type ClassOverview struct {
	ClassName    string         `json:"class_name"`
	WindowDays   int            `json:"window_days"`
	StudentCount int            `json:"student_count"`
	RecentGrades int            `json:"recent_grades_count"`
	Students     []ClassStudent `json:"students"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

func (svc *Service) Overview(ctx context.Context) (Overview, error) {
	ov, err := svc.repo.CountRecords(ctx)
	if err != nil {
		return Overview{}, errors.Wrap(err, "counting records")
	}
	ov.GeneratedAt = svc.now()
	return ov, nil
}

// ClassOverview reports the roster of className and its recent grading
// activity. A class with no students is ErrClassNotFound.
func (svc *Service) ClassOverview(ctx context.Context, className string, days int) (ClassOverview, error) {
	w := Window{EntityID: className, Days: days, Now: svc.now()}
	if err := w.Validate(); err != nil {
		return ClassOverview{}, err
	}
	since, now := w.Bounds()

	roster, err := svc.repo.FetchClassRoster(ctx, className)
	if err != nil {
		return ClassOverview{}, errors.Wrap(err, "fetching class roster")
	}
	if len(roster) == 0 {
		return ClassOverview{}, ErrClassNotFound
	}

	ids := make([]string, len(roster))
	for i, s := range roster {
		ids[i] = s.ID
	}
	recent, err := svc.repo.CountGradesSince(ctx, ids, since)
	if err != nil {
		return ClassOverview{}, errors.Wrap(err, "counting recent grades")
	}

	return ClassOverview{
		ClassName:    className,
		WindowDays:   days,
		StudentCount: len(roster),
		RecentGrades: recent,
		Students:     roster,
		GeneratedAt:  now,
	}, nil
}
