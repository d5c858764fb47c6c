package workflow

import "github.com/jonathan/talent-profiler/internal/types"

// Merge reduces the branch results into a Profile. Nil results contribute
// nothing, as do the no-degree tier and a no-leadership verdict.
//
// Keys are inserted in a fixed order: education, leadership, company scale
// categories, experience tags. Company scale reasons accumulate across items
// with the same category; a repeated experience tag keeps only its last reason.
//
// Labels from different nodes share one key space. When they collide the key
// keeps its first position and the later write decides the value: a company
// scale category appends to an existing list (including the leadership
// reasons) and replaces an education string, and an experience tag replaces
// whatever the key held.
func Merge(college string, education *types.EducationLevel, leadership *types.Leadership,
	scale *types.CompanyScaleFindings, experience *types.ExperienceFindings) types.Profile {
	profile := types.NewProfile()

	if education != nil && education.Tier != "" && !education.IsNoDegree() {
		profile.SetString(education.Tier, college)
	}

	if leadership != nil && leadership.HasLeadership && leadership.Label != "" {
		profile.SetList(leadership.Label, nonNil(leadership.Reasons))
	}

	if scale != nil {
		for _, item := range scale.Items {
			if item.Category == "" {
				continue
			}
			profile.AppendList(item.Category, nonNil(item.Reasons))
		}
	}

	if experience != nil {
		for _, item := range experience.Items {
			if item.Tag == "" {
				continue
			}
			profile.SetString(item.Tag, item.Reason)
		}
	}

	return profile
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
