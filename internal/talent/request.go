package talent

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/talent-profiler/internal/types"
)

// Errors returned by ParseRequest.
var (
	ErrInvalidJSON = errors.New("body is not valid JSON")
	ErrNotObject   = errors.New("body must be a JSON object")
)

// ParseRequest reads a talent body leniently. Only a body that is not a JSON
// object is rejected. Inside it, a collection of the wrong type reads as empty,
// an entry that is not an object is skipped and a field of the wrong type or
// out of range reads as not provided. Years, months and days may be numbers
// or numeric strings.
func ParseRequest(data []byte) (*types.TalentRequest, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	body := gjson.ParseBytes(data)
	if !body.IsObject() {
		return nil, ErrNotObject
	}

	req := &types.TalentRequest{}
	eachObject(body.Get("educations"), func(e gjson.Result) {
		req.Educations = append(req.Educations, parseEducation(e))
	})
	if skills := body.Get("skills"); skills.IsArray() {
		for _, s := range skills.Array() {
			if s.Type == gjson.String {
				req.Skills = append(req.Skills, s.Str)
			}
		}
	}
	eachObject(body.Get("positions"), func(p gjson.Result) {
		req.Positions = append(req.Positions, parsePosition(p))
	})
	return req, nil
}

func parseEducation(e gjson.Result) types.Education {
	edu := types.Education{
		SchoolName:   str(e.Get("schoolName")),
		DegreeName:   str(e.Get("degreeName")),
		FieldOfStudy: str(e.Get("fieldOfStudy")),
	}
	if d := e.Get("startEndDate"); d.Type == gjson.String || d.IsObject() {
		edu.StartEndDate = json.RawMessage(d.Raw)
	}
	if o := e.Get("originStartEndDate"); o.IsObject() {
		edu.OriginStartEndDate = &types.OriginDates{
			StartDateOn: parseDatePart(o.Get("startDateOn")),
			EndDateOn:   parseDatePart(o.Get("endDateOn")),
		}
	}
	return edu
}

func parsePosition(p gjson.Result) types.Position {
	pos := types.Position{
		CompanyName:     str(p.Get("companyName")),
		Title:           str(p.Get("title")),
		Description:     str(p.Get("description")),
		CompanyLocation: str(p.Get("companyLocation")),
	}
	if d := p.Get("startEndDate"); d.IsObject() {
		pos.StartEndDate = &types.PositionDates{
			Start: parseDatePart(d.Get("start")),
			End:   parseDatePart(d.Get("end")),
		}
	}
	return pos
}

func parseDatePart(r gjson.Result) *types.DatePart {
	if !r.IsObject() {
		return nil
	}
	return &types.DatePart{
		Year:  intIn(r.Get("year"), 1, 9999),
		Month: intIn(r.Get("month"), 1, 12),
		Day:   intIn(r.Get("day"), 1, 31),
	}
}

// intIn returns the integer held by r, or 0 when r is missing, not an integer
// or outside [lo, hi].
func intIn(r gjson.Result, lo, hi int) int {
	var n int
	switch r.Type {
	case gjson.Number:
		if r.Num != float64(int(r.Num)) {
			return 0
		}
		n = int(r.Num)
	case gjson.String:
		v, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0
		}
		n = v
	default:
		return 0
	}
	if n < lo || n > hi {
		return 0
	}
	return n
}

func str(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func eachObject(r gjson.Result, fn func(gjson.Result)) {
	if !r.IsArray() {
		return
	}
	for _, item := range r.Array() {
		if item.IsObject() {
			fn(item)
		}
	}
}
