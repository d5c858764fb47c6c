// Package talent turns a raw talent request into the candidate state consumed by the profiling workflow.
package talent

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jonathan/talent-profiler/internal/types"
)

// Extract builds the workflow input from a request. It never fails: malformed or
// missing fields fall back to empty collections and the NoDegree sentinel.
func Extract(req *types.TalentRequest) types.CandidateProfile {
	if req == nil {
		req = &types.TalentRequest{}
	}
	return types.CandidateProfile{
		College:      FinalSchool(req.Educations),
		Skills:       nonEmpty(req.Skills),
		Titles:       Titles(req.Positions),
		Companies:    CompanyEmployments(req.Positions),
		Descriptions: Descriptions(req.Positions),
	}
}

// FinalSchool returns the school with the latest graduation year.
// The year comes from originStartEndDate.endDateOn, or from a "YYYY - YYYY"
// startEndDate string when the structured form is missing. When no entry carries
// a usable year the first named school is returned, and NoDegree when there is none.
func FinalSchool(educations []types.Education) string {
	latestYear := -1
	final := ""
	fallback := ""

	for _, edu := range educations {
		name := strings.TrimSpace(edu.SchoolName)
		if name == "" {
			continue
		}
		if fallback == "" {
			fallback = name
		}

		year, ok := graduationYear(edu)
		if ok && year > latestYear {
			latestYear = year
			final = name
		}
	}

	switch {
	case final != "":
		return final
	case fallback != "":
		return fallback
	default:
		return types.NoDegree
	}
}

func graduationYear(edu types.Education) (int, bool) {
	if edu.OriginStartEndDate != nil && edu.OriginStartEndDate.EndDateOn != nil {
		if y := edu.OriginStartEndDate.EndDateOn.Year; y > 0 {
			return y, true
		}
		return 0, false
	}

	if len(edu.StartEndDate) == 0 {
		return 0, false
	}
	var raw string
	if err := json.Unmarshal(edu.StartEndDate, &raw); err != nil {
		return 0, false
	}
	parts := strings.Split(raw, " - ")
	if len(parts) < 2 {
		return 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return year, true
}

// Titles returns the non-empty job titles in position order.
func Titles(positions []types.Position) []string {
	titles := make([]string, 0, len(positions))
	for _, p := range positions {
		if t := strings.TrimSpace(p.Title); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// Descriptions returns the non-empty role descriptions in position order.
func Descriptions(positions []types.Position) []string {
	descriptions := make([]string, 0, len(positions))
	for _, p := range positions {
		if d := strings.TrimSpace(p.Description); d != "" {
			descriptions = append(descriptions, p.Description)
		}
	}
	return descriptions
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
