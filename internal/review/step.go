package review

import (
	"context"
	"fmt"

	"github.com/jairajbhatia/reviewgraph/pkg/models"
)

// Step is one analysis node: a named concern plus its prompt template. Steps
// are stateless and independent of their siblings; many run concurrently
// against the same submitted code.
type Step struct {
	Concern string
	Prompt  promptBuilder
}

// delta is the single resolved concern a step contributes to the workflow
// state. The join merges deltas, so concurrent steps never share a map.
type delta struct {
	concern string
	report  string
}

// run invokes the provider and always resolves the step's concern. Provider
// failures become report text instead of errors: one failing analysis must
// never abort its siblings or the job. Steps run on their own goroutines, so
// a provider panic is absorbed here too.
func (s Step) run(ctx context.Context, provider models.AIProvider, code string) (d delta) {
	defer func() {
		if r := recover(); r != nil {
			d = delta{
				concern: s.Concern,
				report:  fmt.Sprintf("Error during %s analysis: panic: %v", s.Concern, r),
			}
		}
	}()

	text, err := provider.Invoke(ctx, s.Prompt(code))
	if err != nil {
		return delta{
			concern: s.Concern,
			report:  fmt.Sprintf("Error during %s analysis: %v", s.Concern, err),
		}
	}
	return delta{concern: s.Concern, report: text}
}

// pythonBundle lists the analysis steps activated for python submissions.
func pythonBundle() []Step {
	return []Step{
		{Concern: ConcernCodeQuality, Prompt: promptFor(pythonQualityTemplate)},
		{Concern: ConcernSecurity, Prompt: promptFor(pythonSecurityTemplate)},
		{Concern: ConcernPerformance, Prompt: promptFor(pythonPerformanceTemplate)},
		{Concern: ConcernBestPractices, Prompt: promptFor(pythonBestPracticesTemplate)},
		{Concern: ConcernComplexity, Prompt: promptFor(pythonComplexityTemplate)},
		{Concern: ConcernDocumentation, Prompt: promptFor(pythonDocumentationTemplate)},
	}
}

// reactBundle lists the analysis steps activated for react submissions. It
// carries the two framework-conditional concerns on top of the common six.
func reactBundle() []Step {
	return []Step{
		{Concern: ConcernCodeQuality, Prompt: promptFor(reactQualityTemplate)},
		{Concern: ConcernSecurity, Prompt: promptFor(reactSecurityTemplate)},
		{Concern: ConcernPerformance, Prompt: promptFor(reactPerformanceTemplate)},
		{Concern: ConcernBestPractices, Prompt: promptFor(reactBestPracticesTemplate)},
		{Concern: ConcernComplexity, Prompt: promptFor(reactComplexityTemplate)},
		{Concern: ConcernDocumentation, Prompt: promptFor(reactDocumentationTemplate)},
		{Concern: ConcernFrameworkSpecific, Prompt: promptFor(reactSpecificTemplate)},
		{Concern: ConcernAccessibility, Prompt: promptFor(reactAccessibilityTemplate)},
	}
}
