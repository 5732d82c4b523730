package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jairajbhatia/reviewgraph/pkg/models"
)

// ErrUnsupportedLanguage means the classifier produced a tag with no
// configured bundle. This is a configuration error and fatal to the job;
// silently running zero analyses would complete a review that reviewed nothing.
var ErrUnsupportedLanguage = errors.New("no analysis bundle for language")

// State is the per-job accumulator threaded through one graph run. It is
// owned by exactly one execution and never shared across jobs. Reports is
// written only at the join, from deltas the steps return.
type State struct {
	Code        string
	SubmitterID string
	Language    string
	Reports     map[string]string
}

// Graph is the orchestration engine for one review: classify the code,
// fan out the selected language's bundle concurrently, join on all of its
// steps, then synthesize the final report. The graph is acyclic and every
// run is bounded by the bundle size.
type Graph struct {
	provider models.AIProvider
	bundles  map[string][]Step
	timeout  time.Duration
}

// NewGraph builds the engine with the standard bundle registry. The provider
// timeout bounds each individual model invocation, not the whole run.
func NewGraph(provider models.AIProvider, timeout time.Duration) *Graph {
	return &Graph{
		provider: provider,
		bundles: map[string][]Step{
			LanguagePython: pythonBundle(),
			LanguageReact:  reactBundle(),
		},
		timeout: timeout,
	}
}

// Run executes the full graph for one submission. Step-level provider
// failures surface inside the report (see Step.run); an error return here
// means the job itself failed.
func (g *Graph) Run(ctx context.Context, sub models.Submission) (*models.ReviewResult, error) {
	state := &State{
		Code:        sub.Code,
		SubmitterID: sub.SubmitterID,
		Language:    Classify(sub.Code),
		Reports:     make(map[string]string),
	}

	bundle, ok := g.bundles[state.Language]
	if !ok || len(bundle) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, state.Language)
	}

	slog.Info("analysis fan-out",
		"language", state.Language,
		"steps", len(bundle),
		"code_bytes", len(state.Code),
	)

	// Fan-out: every step in the bundle starts before any result is
	// consumed. The channel is sized to the bundle so no sender blocks.
	results := make(chan delta, len(bundle))
	for _, step := range bundle {
		go func(s Step) {
			stepCtx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()
			results <- s.run(stepCtx, g.provider, state.Code)
		}(step)
	}

	// Fan-in: the join waits for exactly one delta per dispatched step.
	// Each delta carries a distinct concern key.
	for range bundle {
		d := <-results
		state.Reports[d.concern] = d.report
	}

	return g.synthesize(ctx, state, bundle)
}

// synthesize runs once per job, strictly after the join. A failure here is
// fatal to the job.
func (g *Graph) synthesize(ctx context.Context, state *State, bundle []Step) (*models.ReviewResult, error) {
	sections := make([]string, 0, len(bundle))
	for _, step := range bundle {
		sections = append(sections, step.Concern)
	}

	synthCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	report, err := g.provider.Invoke(synthCtx, synthesisPrompt(state.Language, sections, state.Reports))
	if err != nil {
		return nil, fmt.Errorf("synthesizing final report: %w", err)
	}

	return &models.ReviewResult{
		FinalReport: report,
		Metadata: models.ReviewMetadata{
			ReviewDate:  time.Now().UTC(),
			Language:    state.Language,
			CodeLength:  len(state.Code),
			SectionsRun: sections,
		},
	}, nil
}
