package profiling

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/jonathan/talent-profiler/internal/llm"
	"github.com/jonathan/talent-profiler/internal/prompts"
	"github.com/jonathan/talent-profiler/internal/types"
)

// EducationLevel classifies the tier of the candidate's final school.
// A NoDegree college always yields a NoDegree tier.
func (n *Nodes) EducationLevel(ctx context.Context, college string) (types.EducationLevel, error) {
	if college == types.NoDegree {
		n.logResult(NodeCollegeLevel, false, zap.String("tier", types.NoDegree))
		return types.EducationLevel{Tier: types.NoDegree}, nil
	}

	tmpl, err := template(NodeCollegeLevel, promptCollegeLevel)
	if err != nil {
		return types.EducationLevel{}, err
	}
	key, err := cacheKey(NodeCollegeLevel, college, tmpl)
	if err != nil {
		return types.EducationLevel{}, err
	}

	result, cached, err := n.education.Do(ctx, key, func(ctx context.Context) (types.EducationLevel, error) {
		prompt := prompts.Format(tmpl, map[string]string{"College": college})

		resp, err := n.client.GenerateContent(ctx, prompt, llm.TierLite)
		if err != nil {
			return types.EducationLevel{}, &APICallError{Node: NodeCollegeLevel, Message: "LLM generation failed", Cause: err}
		}

		tier := normalizeLabel(resp)
		if tier == "" {
			return types.EducationLevel{}, &ParseError{Node: NodeCollegeLevel, Message: "empty classification", Content: resp}
		}
		return types.EducationLevel{Tier: tier}, nil
	})
	if err != nil {
		return types.EducationLevel{}, err
	}

	n.logResult(NodeCollegeLevel, cached, zap.String("tier", result.Tier))
	return result, nil
}

// normalizeLabel reduces a free-text answer such as "1. (상위권대학교)" to the
// bare label on its first non-empty line.
func normalizeLabel(s string) string {
	line := ""
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	// Leading list numbering: "1." or "1)".
	trimmed := strings.TrimLeftFunc(line, unicode.IsDigit)
	if trimmed != line && (strings.HasPrefix(trimmed, ".") || strings.HasPrefix(trimmed, ")")) {
		line = strings.TrimSpace(trimmed[1:])
	}

	line = strings.Trim(line, "\"'`()[] ")
	return strings.TrimSuffix(line, ".")
}
