package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/logsmart/designer/pkg/canvas"
)

// Template is a named form layout with its recurrence schedule.
//
// Layout order is z-order. Version counts the snapshots persisted for the
// template and is assigned by the store; zero means never saved.
type Template struct {
	ID        string        `json:"id" yaml:"id" bson:"_id"`
	Name      string        `json:"name" yaml:"name" bson:"name"`
	Schedule  Schedule      `json:"schedule" yaml:"schedule" bson:"schedule"`
	Layout    []canvas.Item `json:"layout" yaml:"layout" bson:"layout"`
	Version   int           `json:"version,omitempty" yaml:"version,omitempty" bson:"version"`
	CreatedAt time.Time     `json:"created_at,omitzero" yaml:"created_at,omitempty" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at,omitzero" yaml:"updated_at,omitempty" bson:"updated_at"`
}

// Clone returns a deep copy of t.
func (t Template) Clone() Template {
	t.Layout = canvas.CloneLayout(t.Layout)
	t.Schedule = t.Schedule.Clone()
	return t
}

// IsNew reports whether the template has not been persisted yet.
func (t Template) IsNew() bool { return t.ID == "" }

// Frequency is how often a form built from the template is due.
type Frequency string

const (
	Daily   Frequency = "Daily"
	Weekly  Frequency = "Weekly"
	Monthly Frequency = "Monthly"
	Yearly  Frequency = "Yearly"
)

// ParseFrequency converts a case-insensitive frequency name.
func ParseFrequency(s string) (Frequency, error) {
	for _, f := range []Frequency{Daily, Weekly, Monthly, Yearly} {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// Schedule describes when a form is due. Which day fields apply depends on
// Frequency: DaysOfWeek for daily, DayOfWeek for weekly, DayOfMonth for
// monthly, DayOfMonth and MonthOfYear for yearly. Days of the week count from
// 0 (Sunday).
//
// The layout engine never interprets a schedule; it is carried through
// untouched.
type Schedule struct {
	Frequency   Frequency `json:"frequency" yaml:"frequency" bson:"frequency"`
	DaysOfWeek  []int     `json:"days_of_week,omitempty" yaml:"days_of_week,omitempty" bson:"days_of_week,omitempty"`
	DayOfWeek   *int      `json:"day_of_week,omitempty" yaml:"day_of_week,omitempty" bson:"day_of_week,omitempty"`
	DayOfMonth  *int      `json:"day_of_month,omitempty" yaml:"day_of_month,omitempty" bson:"day_of_month,omitempty"`
	MonthOfYear *int      `json:"month_of_year,omitempty" yaml:"month_of_year,omitempty" bson:"month_of_year,omitempty"`
}

// DefaultSchedule is a daily schedule on every day of the week.
func DefaultSchedule() Schedule {
	return Schedule{Frequency: Daily, DaysOfWeek: []int{0, 1, 2, 3, 4, 5, 6}}
}

// Clone returns a deep copy of s.
func (s Schedule) Clone() Schedule {
	if s.DaysOfWeek != nil {
		s.DaysOfWeek = append([]int(nil), s.DaysOfWeek...)
	}
	s.DayOfWeek = cloneInt(s.DayOfWeek)
	s.DayOfMonth = cloneInt(s.DayOfMonth)
	s.MonthOfYear = cloneInt(s.MonthOfYear)
	return s
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Validate checks that the fields the frequency needs are present and in
// range. It is offered to callers such as import tooling; the session never
// calls it.
func (s Schedule) Validate() error {
	switch s.Frequency {
	case Daily:
		if len(s.DaysOfWeek) == 0 {
			return fmt.Errorf("daily schedule needs days_of_week")
		}
		for _, d := range s.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("day of week %d out of range 0-6", d)
			}
		}
	case Weekly:
		if s.DayOfWeek == nil {
			return fmt.Errorf("weekly schedule needs day_of_week")
		}
		if *s.DayOfWeek < 0 || *s.DayOfWeek > 6 {
			return fmt.Errorf("day of week %d out of range 0-6", *s.DayOfWeek)
		}
	case Monthly, Yearly:
		if s.DayOfMonth == nil {
			return fmt.Errorf("%s schedule needs day_of_month", strings.ToLower(string(s.Frequency)))
		}
		if *s.DayOfMonth < 1 || *s.DayOfMonth > 31 {
			return fmt.Errorf("day of month %d out of range 1-31", *s.DayOfMonth)
		}
		if s.Frequency == Yearly {
			if s.MonthOfYear == nil {
				return fmt.Errorf("yearly schedule needs month_of_year")
			}
			if *s.MonthOfYear < 1 || *s.MonthOfYear > 12 {
				return fmt.Errorf("month %d out of range 1-12", *s.MonthOfYear)
			}
		}
	default:
		return fmt.Errorf("unknown frequency %q", s.Frequency)
	}
	return nil
}
