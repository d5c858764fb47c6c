package types

// Leadership labels produced by the leadership rubric.
const (
	LeadershipLabel = "리더쉽"
	NoLeadership    = "리더쉽경험없음"
)

// EducationLevel is the institution tier of the candidate's final school.
type EducationLevel struct {
	Tier string `json:"college_level"`
}

// IsNoDegree reports whether the tier is the no-degree sentinel.
func (e EducationLevel) IsNoDegree() bool {
	return e.Tier == NoDegree
}

// Leadership is the result of the leadership classification.
type Leadership struct {
	HasLeadership bool     `json:"has_leadership"`
	Label         string   `json:"leadership"`
	Reasons       []string `json:"reason"`
}

// NewLeadership builds a Leadership result, deriving HasLeadership from the label.
func NewLeadership(label string, reasons []string) Leadership {
	return Leadership{
		HasLeadership: label != NoLeadership,
		Label:         label,
		Reasons:       reasons,
	}
}

// CompanyScaleItem is one company scale category with its supporting reasons.
type CompanyScaleItem struct {
	Category string   `json:"company_size"`
	Reasons  []string `json:"reasons"`
}

// CompanyScaleFindings is the result of the company scale classification.
type CompanyScaleFindings struct {
	Items []CompanyScaleItem `json:"company_size_and_reason"`
}

// ExperienceItem is one distinct experience tag with a short justification.
type ExperienceItem struct {
	Tag    string `json:"experience"`
	Reason string `json:"reasons"`
}

// ExperienceFindings is the result of the experience classification.
type ExperienceFindings struct {
	Items []ExperienceItem `json:"experience_and_reason"`
}
