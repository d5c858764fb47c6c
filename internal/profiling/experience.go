package profiling

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/talent-profiler/internal/companydata"
	"github.com/jonathan/talent-profiler/internal/prompts"
	"github.com/jonathan/talent-profiler/internal/types"
	schemafiles "github.com/jonathan/talent-profiler/schemas"
)

// Experience extracts distinct domain experiences from position descriptions,
// using the products of each employer as context.
func (n *Nodes) Experience(ctx context.Context, descriptions []string, companies []types.CompanyEmployment, lookup CompanyLookup) (types.ExperienceFindings, error) {
	descriptions, companies = orEmpty(descriptions), orEmpty(companies)

	tmpl, err := template(NodeExperience, promptExperience)
	if err != nil {
		return types.ExperienceFindings{}, err
	}
	key, err := cacheKey(NodeExperience, descriptions, companies, tmpl)
	if err != nil {
		return types.ExperienceFindings{}, err
	}

	result, cached, err := n.experience.Do(ctx, key, func(ctx context.Context) (types.ExperienceFindings, error) {
		records, err := lookup(ctx)
		if err != nil {
			return types.ExperienceFindings{}, &APICallError{Node: NodeExperience, Message: "company lookup failed", Cause: err}
		}

		descriptionsJSON, err := encode(descriptions)
		if err != nil {
			return types.ExperienceFindings{}, err
		}
		productsJSON, err := encode(companydata.Products(companies, records))
		if err != nil {
			return types.ExperienceFindings{}, err
		}
		prompt := prompts.Format(tmpl, map[string]string{
			"Descriptions": descriptionsJSON,
			"CompanyData":  productsJSON,
		})

		var findings types.ExperienceFindings
		if err := n.generateStructured(ctx, NodeExperience, prompt, schemafiles.Experience, &findings); err != nil {
			return types.ExperienceFindings{}, err
		}
		return findings, nil
	})
	if err != nil {
		return types.ExperienceFindings{}, err
	}

	n.logResult(NodeExperience, cached, zap.Int("items", len(result.Items)))
	return result, nil
}
