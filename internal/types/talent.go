// Package types provides type definitions for structured data used throughout the talent profiler.
package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// TalentRequest is the body accepted by POST /profilling, as read by
// talent.ParseRequest. Every field is optional; missing collections are treated as empty.
type TalentRequest struct {
	Educations []Education `json:"educations" validate:"omitempty,max=50,dive"`
	Skills     []string    `json:"skills" validate:"omitempty,max=500"`
	Positions  []Position  `json:"positions" validate:"omitempty,max=200,dive"`
}

// Education is one entry of the candidate's education history.
// StartEndDate is either a "YYYY - YYYY" string or an object, depending on the source.
type Education struct {
	SchoolName         string          `json:"schoolName" validate:"max=300"`
	DegreeName         string          `json:"degreeName,omitempty"`
	FieldOfStudy       string          `json:"fieldOfStudy,omitempty"`
	StartEndDate       json.RawMessage `json:"startEndDate,omitempty"`
	OriginStartEndDate *OriginDates    `json:"originStartEndDate,omitempty"`
}

// OriginDates holds the structured education date range.
type OriginDates struct {
	StartDateOn *DatePart `json:"startDateOn,omitempty"`
	EndDateOn   *DatePart `json:"endDateOn,omitempty"`
}

// Position is one entry of the candidate's work history.
type Position struct {
	CompanyName     string         `json:"companyName" validate:"max=300"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	CompanyLocation string         `json:"companyLocation,omitempty"`
	StartEndDate    *PositionDates `json:"startEndDate,omitempty"`
}

// PositionDates is the employment period of a position. End is nil while employed.
type PositionDates struct {
	Start *DatePart `json:"start,omitempty"`
	End   *DatePart `json:"end,omitempty"`
}

// DatePart is a partial calendar date. Zero values mean "not provided".
type DatePart struct {
	Year  int `json:"year" validate:"min=0,max=9999"`
	Month int `json:"month,omitempty" validate:"min=0,max=12"`
	Day   int `json:"day,omitempty" validate:"min=0,max=31"`
}

// Validate validates the TalentRequest using the validator.
func (r *TalentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
