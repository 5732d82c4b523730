package review

import (
	"fmt"
	"strings"
)

// Concern names. Each dispatched analysis step resolves exactly one of these
// keys, and the synthesis step stitches them into the final report.
const (
	ConcernCodeQuality       = "code_quality"
	ConcernSecurity          = "security"
	ConcernPerformance       = "performance"
	ConcernBestPractices     = "best_practices"
	ConcernComplexity        = "complexity"
	ConcernDocumentation     = "documentation"
	ConcernFrameworkSpecific = "framework_specific"
	ConcernAccessibility     = "accessibility"
)

// reportUnavailable substitutes for any section that never produced a report.
const reportUnavailable = "not available"

type promptBuilder func(code string) string

func promptFor(template string) promptBuilder {
	return func(code string) string {
		return fmt.Sprintf(template, code)
	}
}

// Every analysis prompt instructs the model to list issues only. The service
// never asks for, and never promises, corrected code.

const pythonQualityTemplate = `You are an expert Python code analyst.

Analyze the following code against PEP 8 and general code quality standards:
- naming conventions, formatting, import ordering
- syntax errors or likely runtime errors
- unused variables, functions, classes, and imports
- leftover debugging statements

List every issue with a line reference and a severity (Critical, High, Medium, Low).
DO NOT provide corrected code. Only list issues.

` + "```python\n%s\n```"

const pythonSecurityTemplate = `You are a security expert specializing in Python applications.

Audit the following code for security flaws:
- injection risks (SQL, shell, template)
- unsafe deserialization, eval/exec usage
- hardcoded secrets, credentials, or API keys
- data exposure and insufficient input validation
- insecure use of cryptography or random numbers

List every vulnerability with a severity (Critical, High, Medium, Low).
DO NOT provide corrected code. Only identify vulnerabilities.

` + "```python\n%s\n```"

const pythonPerformanceTemplate = `You are a performance optimization expert for Python.

Analyze the following code for performance bottlenecks:
- algorithmic complexity problems where a better approach exists
- inefficient data structures or repeated work inside loops
- blocking I/O that should be batched or made concurrent
- memory growth and unnecessary object creation
- missing caching or memoization opportunities

List every issue with its estimated impact.
DO NOT provide corrected code. Only identify issues.

` + "```python\n%s\n```"

const pythonBestPracticesTemplate = `You are a Python best practices expert and software architect.

Review the following code for adherence to best practices:
- idiomatic Python usage and anti-patterns
- SOLID violations and separation of concerns
- hardcoded configuration that belongs in the environment
- error handling discipline (bare except, swallowed exceptions)
- logging and testability concerns

DO NOT provide corrected code. Only identify areas for improvement.

` + "```python\n%s\n```"

const pythonComplexityTemplate = `You are a software engineering expert specializing in code maintainability.

Analyze the complexity of the following Python code:
- functions with high cyclomatic complexity or deep nesting
- functions that are too long or take too many parameters
- duplicated logic that should be extracted
- tight coupling and hidden dependencies

Provide a maintainability assessment and name the areas that most need refactoring.
DO NOT provide corrected code. Only analyze complexity.

` + "```python\n%s\n```"

const pythonDocumentationTemplate = `You are a technical documentation expert for Python.

Review the documentation quality of the following code:
- missing or incomplete docstrings (parameters, returns, raises)
- comments that are outdated, misleading, or state the obvious
- unclear names and unexplained magic values
- public APIs without usage documentation

DO NOT provide corrected code. Only review documentation.

` + "```python\n%s\n```"

const reactQualityTemplate = `You are an expert React/JavaScript/TypeScript code analyst.

Analyze the following code for style and correctness:
- ESLint/Prettier-level style issues and naming conventions
- syntax errors or likely runtime errors
- unused variables, imports, and functions
- leftover console.log or debugging code
- const/let discipline and missing type annotations

List every issue with a line reference and a severity (Critical, High, Medium, Low).
DO NOT provide corrected code. Only list issues.

` + "```javascript\n%s\n```"

const reactSecurityTemplate = `You are a web application security expert specializing in React and frontend security.

Audit the following code for vulnerabilities:
- XSS vectors: dangerouslySetInnerHTML, unescaped input, eval, user-controlled URLs
- insecure token storage and client-side-only authorization
- hardcoded API keys, secrets, or sensitive data in client code
- insecure API calls, missing CSRF protection, CORS issues
- trusting client-side validation alone

List every vulnerability with a severity (Critical, High, Medium, Low).
DO NOT provide corrected code. Only identify vulnerabilities.

` + "```javascript\n%s\n```"

const reactPerformanceTemplate = `You are a performance optimization expert for React applications.

Analyze the following code for performance bottlenecks:
- unnecessary re-renders, missing React.memo/useCallback/useMemo
- inline definitions in render paths
- large components that should be code-split
- inefficient algorithms, loops, or DOM manipulation
- missing debouncing/throttling and caching opportunities

List every issue with its estimated impact.
DO NOT provide corrected code. Only identify issues.

` + "```javascript\n%s\n```"

const reactBestPracticesTemplate = `You are a React best practices expert and software architect.

Review the following code for adherence to best practices:
- modern React patterns (hooks over classes, declarative style)
- immutability discipline and functional patterns
- component and module organization, separation of concerns
- hardcoded configuration and environment variable usage
- testability and coupling issues

DO NOT provide corrected code. Only identify areas for improvement.

` + "```javascript\n%s\n```"

const reactComplexityTemplate = `You are a software engineering expert specializing in code maintainability.

Analyze the complexity of the following React code:
- components and functions with high cyclomatic or cognitive complexity
- deeply nested conditionals and complex control flow
- duplicated blocks that should be shared
- components doing too many things

Provide a maintainability assessment and name the areas that most need refactoring.
DO NOT provide corrected code. Only analyze complexity.

` + "```javascript\n%s\n```"

const reactDocumentationTemplate = `You are a technical documentation expert for React.

Review the documentation quality of the following code:
- missing JSDoc for components, hooks, and exported functions
- undocumented props, types, and interfaces
- comments that are outdated, misleading, or state the obvious
- unclear names and unexplained magic values

DO NOT provide corrected code. Only review documentation.

` + "```javascript\n%s\n```"

const reactSpecificTemplate = `You are a React expert specializing in hooks, state management, and component architecture.

Analyze the following code for React-specific issues:
- rules-of-hooks violations and missing dependency arrays
- stale closures, missing effect cleanup, and effect-driven infinite loops
- unnecessary state, derived state that should be computed, props drilling
- key prop problems in lists and controlled/uncontrolled confusion
- component composition and extraction opportunities

DO NOT provide corrected code. Only identify issues.

` + "```javascript\n%s\n```"

const reactAccessibilityTemplate = `You are a web accessibility (a11y) expert specializing in React applications.

Review the following code for accessibility issues:
- non-semantic markup and incorrect heading structure
- missing or incorrect ARIA attributes
- keyboard navigation gaps and focus management problems
- form inputs without associated labels
- missing alt text and color-only information

Categorize findings by WCAG level (A, AA, AAA).
DO NOT provide corrected code. Only identify issues.

` + "```javascript\n%s\n```"

// synthesisPrompt merges the section reports into one executive review.
// Sections that never produced a report are shown as "not available" so the
// model accounts for every dispatched concern.
func synthesisPrompt(language string, sections []string, reports map[string]string) string {
	var b strings.Builder
	b.WriteString("You are a technical lead assembling an executive code review.\n\n")
	fmt.Fprintf(&b, "The following %s code analysis sections were produced by independent reviewers. ", language)
	b.WriteString("Merge them into one comprehensive report that covers every issue, flaw, and risk found, ")
	b.WriteString("ordered by severity, with a short executive summary up front. ")
	b.WriteString("Sections marked \"not available\" should be noted as such, not invented.\n")
	b.WriteString("DO NOT provide corrected code.\n")

	for _, section := range sections {
		report, ok := reports[section]
		if !ok || report == "" {
			report = reportUnavailable
		}
		fmt.Fprintf(&b, "\n## %s\n%s\n", section, report)
	}

	return b.String()
}
