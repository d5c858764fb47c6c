package talent

import (
	"sort"

	"github.com/jonathan/talent-profiler/internal/types"
)

// openEnd stands in for a missing end date while intervals are merged.
var openEnd = types.YearMonth{Year: 9999, Month: 12}

// CompanyEmployments groups positions by company name and merges each company's
// employment periods. Companies keep the order of their first position. Positions
// without a company name or a start year are skipped.
func CompanyEmployments(positions []types.Position) []types.CompanyEmployment {
	var order []string
	byCompany := make(map[string][]types.Interval)

	for _, p := range positions {
		if p.CompanyName == "" || p.StartEndDate == nil {
			continue
		}
		start, ok := parseMonth(p.StartEndDate.Start, 1)
		if !ok {
			continue
		}
		iv := types.Interval{Start: start}
		if end, ok := parseMonth(p.StartEndDate.End, 12); ok {
			iv.End = &end
		}

		if _, seen := byCompany[p.CompanyName]; !seen {
			order = append(order, p.CompanyName)
		}
		byCompany[p.CompanyName] = append(byCompany[p.CompanyName], iv)
	}

	result := make([]types.CompanyEmployment, 0, len(order))
	for _, name := range order {
		result = append(result, types.CompanyEmployment{
			CompanyName: name,
			Intervals:   MergeIntervals(byCompany[name]),
		})
	}
	return result
}

// MergeIntervals sorts intervals by start and coalesces each interval whose start
// is not after the running end. Open intervals are treated as ending in 9999-12
// during the merge and come back with a nil End. The input is not modified.
func MergeIntervals(intervals []types.Interval) []types.Interval {
	if len(intervals) == 0 {
		return []types.Interval{}
	}

	type span struct{ start, end types.YearMonth }
	spans := make([]span, 0, len(intervals))
	for _, iv := range intervals {
		end := openEnd
		if iv.End != nil {
			end = *iv.End
		}
		spans = append(spans, span{start: iv.Start, end: end})
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].start.Compare(spans[j].start) < 0
	})

	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start.Compare(last.end) > 0 {
			merged = append(merged, s)
			continue
		}
		if s.end.Compare(last.end) > 0 {
			last.end = s.end
		}
	}

	result := make([]types.Interval, 0, len(merged))
	for _, s := range merged {
		iv := types.Interval{Start: s.start}
		if s.end != openEnd {
			end := s.end
			iv.End = &end
		}
		result = append(result, iv)
	}
	return result
}

// parseMonth reads a partial date, substituting defaultMonth when the month is missing.
func parseMonth(d *types.DatePart, defaultMonth int) (types.YearMonth, bool) {
	if d == nil || d.Year <= 0 {
		return types.YearMonth{}, false
	}
	month := d.Month
	if month < 1 || month > 12 {
		month = defaultMonth
	}
	return types.YearMonth{Year: d.Year, Month: month}, true
}
