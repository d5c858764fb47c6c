package types

import (
	"fmt"
	"time"
)

// NoDegree is the college value used when no final education can be determined.
// The education prompt echoes it verbatim and Merge drops it.
const NoDegree = "최종학력없음"

// YearMonth is a calendar month. Month 0 means the month was not specified.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Compare returns -1, 0 or 1 depending on whether ym is before, equal to or after other.
func (ym YearMonth) Compare(other YearMonth) int {
	switch {
	case ym.Year < other.Year:
		return -1
	case ym.Year > other.Year:
		return 1
	case ym.Month < other.Month:
		return -1
	case ym.Month > other.Month:
		return 1
	default:
		return 0
	}
}

// FirstDay returns midnight UTC of the first day of the month, defaulting to January.
func (ym YearMonth) FirstDay() time.Time {
	month := ym.Month
	if month < 1 || month > 12 {
		month = 1
	}
	return time.Date(ym.Year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns midnight UTC of the last calendar day of the month, defaulting to December.
func (ym YearMonth) LastDay() time.Time {
	month := ym.Month
	if month < 1 || month > 12 {
		month = 12
	}
	// Day 0 of the following month normalises to the last day of this one.
	return time.Date(ym.Year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Interval is an employment period. A nil End means the period is still open.
type Interval struct {
	Start YearMonth  `json:"start"`
	End   *YearMonth `json:"end"`
}

// CompanyEmployment groups the merged employment intervals of one company.
type CompanyEmployment struct {
	CompanyName string     `json:"companyName"`
	Intervals   []Interval `json:"startEndDates"`
}

// CandidateProfile is the input state of the profiling workflow.
type CandidateProfile struct {
	College      string              `json:"college"`
	Skills       []string            `json:"skills"`
	Titles       []string            `json:"titles"`
	Companies    []CompanyEmployment `json:"companynames_and_dates"`
	Descriptions []string            `json:"descriptions"`
}

// CompanyNames returns the names of all companies in candidate order.
func (c CandidateProfile) CompanyNames() []string {
	names := make([]string, 0, len(c.Companies))
	for _, company := range c.Companies {
		names = append(names, company.CompanyName)
	}
	return names
}

// DateWindow bounds a similarity search by publication date. Either bound may be nil.
type DateWindow struct {
	Start *YearMonth
	End   *YearMonth
}

// WindowFromInterval converts an employment interval into a search window.
func WindowFromInterval(iv Interval) *DateWindow {
	start := iv.Start
	return &DateWindow{Start: &start, End: iv.End}
}

// TextChunk is one chunk of the company news corpus returned by similarity search.
type TextChunk struct {
	ID        int64      `json:"id"`
	CompanyID int64      `json:"company_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Date      *time.Time `json:"date,omitempty"`
	Score     float64    `json:"score"`
}
