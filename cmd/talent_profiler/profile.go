package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-profiler/internal/observability"
	"github.com/jonathan/talent-profiler/internal/talent"
	"github.com/jonathan/talent-profiler/internal/types"
	"github.com/jonathan/talent-profiler/internal/workflow"
)

var (
	profileFormat  string
	profileVerbose bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <talent.json>",
	Short: "Profile a talent JSON file",
	Long:  `Run the profiling workflow on a talent JSON file (the POST /profilling body) and print the profile.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileFormat, "format", "text", "Output format: text or json")
	profileCmd.Flags().BoolVarP(&profileVerbose, "verbose", "v", false, "Print the candidate and branch results")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	if profileFormat != "text" && profileFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", profileFormat)
	}

	req, err := readTalent(args[0])
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := contextOrBackground(cmd.Context())
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return executeProfile(ctx, a.graph, req, cmd.OutOrStdout(), profileFormat == "json", profileVerbose)
}

// stateRunner runs the graph and keeps the per-branch state. *workflow.Graph implements it.
type stateRunner interface {
	Run(ctx context.Context, candidate types.CandidateProfile) (*workflow.State, error)
}

// executeProfile runs one profile and writes it to out.
func executeProfile(ctx context.Context, graph stateRunner, req *types.TalentRequest, out io.Writer, asJSON, verbose bool) error {
	candidate := talent.Extract(req)
	printer := observability.NewPrinter(out)
	if verbose && !asJSON {
		printer.PrintCandidate(candidate)
	}

	st, err := graph.Run(ctx, candidate)
	if err != nil {
		return fmt.Errorf("profiling failed: %w", err)
	}
	profile := st.Profile()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}

	if verbose {
		printer.PrintState(st)
	}
	printer.PrintProfile(profile)
	return nil
}

// readTalent loads and validates a talent request file.
func readTalent(path string) (*types.TalentRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read talent file %s: %w", path, err)
	}

	req, err := talent.ParseRequest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse talent JSON: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid talent file: %w", err)
	}
	return req, nil
}
