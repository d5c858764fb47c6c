package companydata

import (
	"time"

	"github.com/jonathan/talent-profiler/internal/types"
)

// NewsQuery is the similarity search keyword used for a company missing from storage.
func NewsQuery(companyName string) string {
	return companyName + "의 투자 규모, 조직 규모"
}

// Join matches the candidate's companies against records by exact name and
// time-slices each matched record to the candidate's intervals. Facts follow
// candidate order; missing lists unmatched company names in candidate order.
func Join(companies []types.CompanyEmployment, records []types.CompanyRecord) (facts []types.TimeSlicedCompanyFact, missing []string) {
	byName := indexByName(records)
	facts = make([]types.TimeSlicedCompanyFact, 0, len(companies))
	missing = make([]string, 0)

	for _, company := range companies {
		record, ok := byName[company.CompanyName]
		if !ok {
			missing = append(missing, company.CompanyName)
			continue
		}
		facts = append(facts, Slice(record, company.Intervals))
	}
	return facts, missing
}

// Slice picks, independently for investment and headcount, the most recent dated
// entry that falls inside any of the intervals. Undated entries are skipped.
func Slice(record types.CompanyRecord, intervals []types.Interval) types.TimeSlicedCompanyFact {
	fact := types.TimeSlicedCompanyFact{
		Name:    record.Name,
		Capital: record.Capital,
	}

	var bestInvestment *types.InvestmentEntry
	for i := range record.Investments {
		inv := &record.Investments[i]
		if !withinAny(inv.AnnouncedAt, intervals) {
			continue
		}
		if bestInvestment == nil || inv.AnnouncedAt.After(*bestInvestment.AnnouncedAt) {
			bestInvestment = inv
		}
	}
	if bestInvestment != nil {
		fact.Investment = &types.InvestmentAtTime{
			Level:                 bestInvestment.Level,
			TotalInvestmentAmount: record.TotalInvestmentAmount,
		}
	}

	var bestHeadcount *types.HeadcountEntry
	for i := range record.Headcounts {
		hc := &record.Headcounts[i]
		if !withinAny(hc.Date, intervals) {
			continue
		}
		if bestHeadcount == nil || hc.Date.After(*bestHeadcount.Date) {
			bestHeadcount = hc
		}
	}
	if bestHeadcount != nil {
		fact.Organization = &types.HeadcountAtTime{
			Value:          bestHeadcount.Value,
			GrowRate:       bestHeadcount.GrowRate,
			ReferenceMonth: bestHeadcount.ReferenceMonth,
		}
	}

	return fact
}

// Products lists product names for every candidate company found in records.
func Products(companies []types.CompanyEmployment, records []types.CompanyRecord) []types.CompanyProducts {
	byName := indexByName(records)
	out := make([]types.CompanyProducts, 0, len(companies))
	for _, company := range companies {
		record, ok := byName[company.CompanyName]
		if !ok {
			continue
		}
		products := record.Products
		if products == nil {
			products = []string{}
		}
		out = append(out, types.CompanyProducts{Name: record.Name, Products: products})
	}
	return out
}

// withinAny reports whether d lies in at least one interval. Bounds are whole
// months: the first day of the start month through the last day of the end month.
func withinAny(d *time.Time, intervals []types.Interval) bool {
	if d == nil {
		return false
	}
	for _, iv := range intervals {
		if d.Before(iv.Start.FirstDay()) {
			continue
		}
		if iv.End != nil && d.After(iv.End.LastDay()) {
			continue
		}
		return true
	}
	return false
}

func indexByName(records []types.CompanyRecord) map[string]types.CompanyRecord {
	byName := make(map[string]types.CompanyRecord, len(records))
	for _, r := range records {
		if _, seen := byName[r.Name]; !seen {
			byName[r.Name] = r
		}
	}
	return byName
}
