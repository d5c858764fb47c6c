package profiling

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/talent-profiler/internal/prompts"
	"github.com/jonathan/talent-profiler/internal/types"
	schemafiles "github.com/jonathan/talent-profiler/schemas"
)

type leadershipResponse struct {
	Leadership string   `json:"leadership"`
	Reason     []string `json:"reason"`
}

// Leadership decides from skills and titles whether the candidate has led people.
func (n *Nodes) Leadership(ctx context.Context, skills, titles []string) (types.Leadership, error) {
	skills, titles = orEmpty(skills), orEmpty(titles)

	tmpl, err := template(NodeLeadership, promptLeadership)
	if err != nil {
		return types.Leadership{}, err
	}
	key, err := cacheKey(NodeLeadership, skills, titles, tmpl)
	if err != nil {
		return types.Leadership{}, err
	}

	result, cached, err := n.leadership.Do(ctx, key, func(ctx context.Context) (types.Leadership, error) {
		skillsJSON, err := encode(skills)
		if err != nil {
			return types.Leadership{}, err
		}
		titlesJSON, err := encode(titles)
		if err != nil {
			return types.Leadership{}, err
		}
		prompt := prompts.Format(tmpl, map[string]string{
			"Skills": skillsJSON,
			"Titles": titlesJSON,
		})

		var resp leadershipResponse
		if err := n.generateStructured(ctx, NodeLeadership, prompt, schemafiles.Leadership, &resp); err != nil {
			return types.Leadership{}, err
		}
		return types.NewLeadership(resp.Leadership, orEmpty(resp.Reason)), nil
	})
	if err != nil {
		return types.Leadership{}, err
	}

	n.logResult(NodeLeadership, cached,
		zap.Bool("has_leadership", result.HasLeadership),
		zap.Int("reasons", len(result.Reasons)))
	return result, nil
}
