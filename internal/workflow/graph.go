// Package workflow runs the profiling graph: the four classification nodes
// fan out from the candidate state and their results are merged into a Profile.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-profiler/internal/companydata"
	"github.com/jonathan/talent-profiler/internal/profiling"
	"github.com/jonathan/talent-profiler/internal/types"
)

// Policy decides what a failing branch does to the run.
type Policy string

const (
	// PolicyAbort fails the whole run on the first branch error and cancels the others.
	PolicyAbort Policy = "abort"
	// PolicyDegrade drops the failing branch's contribution and keeps the rest.
	PolicyDegrade Policy = "degrade"
)

// ParsePolicy converts a configuration value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicyDegrade:
		return PolicyDegrade, nil
	default:
		return "", fmt.Errorf("unknown branch policy %q (want %q or %q)", s, PolicyAbort, PolicyDegrade)
	}
}

// Classifier is the set of classification nodes the graph fans out to.
// *profiling.Nodes implements it.
type Classifier interface {
	EducationLevel(ctx context.Context, college string) (types.EducationLevel, error)
	Leadership(ctx context.Context, skills, titles []string) (types.Leadership, error)
	CompanyScale(ctx context.Context, companies []types.CompanyEmployment, lookup profiling.CompanyLookup) (types.CompanyScaleFindings, error)
	Experience(ctx context.Context, descriptions []string, companies []types.CompanyEmployment, lookup profiling.CompanyLookup) (types.ExperienceFindings, error)
}

// BranchError identifies the node whose failure ended or degraded a run.
type BranchError struct {
	Node string
	Err  error
}

func (e *BranchError) Error() string {
	return fmt.Sprintf("%s branch failed: %v", e.Node, e.Err)
}

func (e *BranchError) Unwrap() error {
	return e.Err
}

// State is the per-run workflow state. Each branch writes only its own field.
type State struct {
	Candidate types.CandidateProfile

	CollegeLevel *types.EducationLevel
	Leadership   *types.Leadership
	CompanyScale *types.CompanyScaleFindings
	Experience   *types.ExperienceFindings

	// Failed lists the branches dropped under PolicyDegrade.
	Failed []*BranchError
}

// Profile merges the branch results into the final profile.
func (s *State) Profile() types.Profile {
	return Merge(s.Candidate.College, s.CollegeLevel, s.Leadership, s.CompanyScale, s.Experience)
}

// Options configures a Graph.
type Options struct {
	Policy Policy
	// BranchTimeout bounds each branch when positive.
	BranchTimeout time.Duration
	Logger        *zap.Logger
}

// Graph is the fixed fan-out/fan-in profiling topology. It holds no per-run
// state and is safe for concurrent use.
type Graph struct {
	nodes         Classifier
	companies     companydata.Source
	policy        Policy
	branchTimeout time.Duration
	logger        *zap.Logger
}

// New creates a Graph.
func New(nodes Classifier, companies companydata.Source, opts Options) *Graph {
	if opts.Policy == "" {
		opts.Policy = PolicyAbort
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Graph{
		nodes:         nodes,
		companies:     companies,
		policy:        opts.Policy,
		branchTimeout: opts.BranchTimeout,
		logger:        opts.Logger,
	}
}

// Run executes the four branches concurrently on a fresh State and waits for all of them.
func (g *Graph) Run(ctx context.Context, candidate types.CandidateProfile) (*State, error) {
	st := &State{Candidate: candidate}
	start := time.Now()

	eg, gctx := errgroup.WithContext(ctx)

	// Company scale and experience share one batch lookup per run. It runs on
	// the context of the node body that asks first, which the node cache has
	// already detached from this run, so another request sharing that body
	// does not lose its company data when this run is cancelled.
	names := candidate.CompanyNames()
	var (
		lookupOnce sync.Once
		records    []types.CompanyRecord
		lookupErr  error
	)
	lookup := func(ctx context.Context) ([]types.CompanyRecord, error) {
		lookupOnce.Do(func() {
			if len(names) > 0 {
				records, lookupErr = companydata.Lookup(ctx, g.companies, names, g.logger)
			}
		})
		return records, lookupErr
	}

	var failedMu sync.Mutex
	branch := func(node string, fn func(ctx context.Context) error) {
		eg.Go(func() error {
			bctx := gctx
			if g.branchTimeout > 0 {
				var cancel context.CancelFunc
				bctx, cancel = context.WithTimeout(gctx, g.branchTimeout)
				defer cancel()
			}

			branchStart := time.Now()
			err := fn(bctx)
			if err == nil {
				g.logger.Debug("branch complete",
					zap.String("node", node),
					zap.Duration("duration", time.Since(branchStart)))
				return nil
			}

			berr := &BranchError{Node: node, Err: err}
			if g.policy == PolicyDegrade {
				g.logger.Warn("branch failed, continuing without it",
					zap.String("node", node),
					zap.Error(err))
				failedMu.Lock()
				st.Failed = append(st.Failed, berr)
				failedMu.Unlock()
				return nil
			}
			return berr
		})
	}

	branch(profiling.NodeCollegeLevel, func(ctx context.Context) error {
		r, err := g.nodes.EducationLevel(ctx, candidate.College)
		if err == nil {
			st.CollegeLevel = &r
		}
		return err
	})
	branch(profiling.NodeLeadership, func(ctx context.Context) error {
		r, err := g.nodes.Leadership(ctx, candidate.Skills, candidate.Titles)
		if err == nil {
			st.Leadership = &r
		}
		return err
	})
	branch(profiling.NodeCompanyScale, func(ctx context.Context) error {
		r, err := g.nodes.CompanyScale(ctx, candidate.Companies, lookup)
		if err == nil {
			st.CompanyScale = &r
		}
		return err
	})
	branch(profiling.NodeExperience, func(ctx context.Context) error {
		r, err := g.nodes.Experience(ctx, candidate.Descriptions, candidate.Companies, lookup)
		if err == nil {
			st.Experience = &r
		}
		return err
	})

	if err := eg.Wait(); err != nil {
		g.logger.Error("profiling workflow failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	g.logger.Info("profiling workflow complete",
		zap.Duration("duration", time.Since(start)),
		zap.Int("failed_branches", len(st.Failed)))
	return st, nil
}

// Profile runs the graph and merges the result.
func (g *Graph) Profile(ctx context.Context, candidate types.CandidateProfile) (types.Profile, error) {
	st, err := g.Run(ctx, candidate)
	if err != nil {
		return types.Profile{}, err
	}
	return st.Profile(), nil
}
