package profiling

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-profiler/internal/companydata"
	"github.com/jonathan/talent-profiler/internal/prompts"
	"github.com/jonathan/talent-profiler/internal/types"
	schemafiles "github.com/jonathan/talent-profiler/schemas"
)

// CompanyScale classifies each employment as large-company or growth-stage
// startup experience. Companies without a stored record are researched in the
// news corpus, one search per employment interval.
func (n *Nodes) CompanyScale(ctx context.Context, companies []types.CompanyEmployment, lookup CompanyLookup) (types.CompanyScaleFindings, error) {
	companies = orEmpty(companies)

	tmpl, err := template(NodeCompanyScale, promptCompanyScale)
	if err != nil {
		return types.CompanyScaleFindings{}, err
	}
	key, err := cacheKey(NodeCompanyScale, companies, tmpl)
	if err != nil {
		return types.CompanyScaleFindings{}, err
	}

	result, cached, err := n.companyScale.Do(ctx, key, func(ctx context.Context) (types.CompanyScaleFindings, error) {
		records, err := lookup(ctx)
		if err != nil {
			return types.CompanyScaleFindings{}, &APICallError{Node: NodeCompanyScale, Message: "company lookup failed", Cause: err}
		}

		facts, missing := companydata.Join(companies, records)
		news, err := n.searchMissing(ctx, companies, missing)
		if err != nil {
			return types.CompanyScaleFindings{}, err
		}

		companiesJSON, err := encode(companies)
		if err != nil {
			return types.CompanyScaleFindings{}, err
		}
		factsJSON, err := encode(orEmpty(facts))
		if err != nil {
			return types.CompanyScaleFindings{}, err
		}
		newsJSON, err := encode(news)
		if err != nil {
			return types.CompanyScaleFindings{}, err
		}
		prompt := prompts.Format(tmpl, map[string]string{
			"CompaniesAndDates": companiesJSON,
			"CompanyData":       factsJSON,
			"CompanyNews":       newsJSON,
		})

		var findings types.CompanyScaleFindings
		if err := n.generateStructured(ctx, NodeCompanyScale, prompt, schemafiles.CompanyScale, &findings); err != nil {
			return types.CompanyScaleFindings{}, err
		}
		n.logger.Debug("company scale inputs",
			zap.Int("matched", len(facts)),
			zap.Strings("missing", missing),
			zap.Int("news_chunks", len(news)))
		return findings, nil
	})
	if err != nil {
		return types.CompanyScaleFindings{}, err
	}

	n.logResult(NodeCompanyScale, cached, zap.Int("items", len(result.Items)))
	return result, nil
}

// searchMissing runs one news search per interval of every missing company,
// at most searchConcurrency at a time. Chunk texts come back in company,
// interval, rank order regardless of completion order.
func (n *Nodes) searchMissing(ctx context.Context, companies []types.CompanyEmployment, missing []string) ([]string, error) {
	if len(missing) == 0 {
		return []string{}, nil
	}
	isMissing := make(map[string]bool, len(missing))
	for _, name := range missing {
		isMissing[name] = true
	}

	type job struct {
		keyword string
		window  *types.DateWindow
	}
	var jobs []job
	for _, c := range companies {
		if !isMissing[c.CompanyName] {
			continue
		}
		query := companydata.NewsQuery(c.CompanyName)
		for _, iv := range c.Intervals {
			jobs = append(jobs, job{keyword: query, window: types.WindowFromInterval(iv)})
		}
	}

	results := make([][]types.TextChunk, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.searchConcurrency)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = n.searcher.Search(gctx, j.keyword, n.searchK, j.window)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &APICallError{Node: NodeCompanyScale, Message: "news search interrupted", Cause: err}
	}

	contents := []string{}
	for _, chunks := range results {
		for _, c := range chunks {
			contents = append(contents, c.Content)
		}
	}
	return contents, nil
}
