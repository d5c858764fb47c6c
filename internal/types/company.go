package types

import "time"

// CompanyRecord is the parsed form of a stored company row.
// Capital and TotalInvestmentAmount keep whatever JSON scalar the source provided.
type CompanyRecord struct {
	ID                    int64             `json:"id"`
	Name                  string            `json:"name"`
	Capital               any               `json:"mae"`
	TotalInvestmentAmount any               `json:"totalInvestmentAmount"`
	Investments           []InvestmentEntry `json:"investments"`
	Headcounts            []HeadcountEntry  `json:"headcounts"`
	Products              []string          `json:"products"`
}

// InvestmentEntry is a funding round. AnnouncedAt is nil when the date could not be parsed.
type InvestmentEntry struct {
	Level       string     `json:"level"`
	AnnouncedAt *time.Time `json:"announcedAt"`
}

// HeadcountEntry is a monthly organization size sample.
type HeadcountEntry struct {
	Value          int64      `json:"value"`
	GrowRate       *float64   `json:"growRate"`
	ReferenceMonth string     `json:"referenceMonth"`
	Date           *time.Time `json:"-"`
}

// TimeSlicedCompanyFact is a company record restricted to what was true while the
// candidate worked there. JSON keys follow the names the company scale rubric uses.
type TimeSlicedCompanyFact struct {
	Name         string            `json:"name"`
	Capital      any               `json:"mae"`
	Investment   *InvestmentAtTime `json:"investment"`
	Organization *HeadcountAtTime  `json:"organization"`
}

// InvestmentAtTime is the most recent round announced during employment.
type InvestmentAtTime struct {
	Level                 string `json:"level"`
	TotalInvestmentAmount any    `json:"totalInvestmentAmount"`
}

// HeadcountAtTime is the most recent headcount sample taken during employment.
type HeadcountAtTime struct {
	Value          int64    `json:"value"`
	GrowRate       *float64 `json:"growRate"`
	ReferenceMonth string   `json:"referenceMonth"`
}

// CompanyProducts lists the products a matched company operates.
type CompanyProducts struct {
	Name     string   `json:"name"`
	Products []string `json:"products"`
}
