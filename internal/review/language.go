package review

import "regexp"

// Supported language tags. Each tag names one analysis bundle.
const (
	LanguagePython = "python"
	LanguageReact  = "react"
)

// defaultLanguage wins ties, including the zero/zero score of text that
// matches no signature at all. The service has always routed ambiguous
// snippets to the react bundle; the python bundle runs only when python
// strictly outscores it.
const defaultLanguage = LanguageReact

var pythonSignatures = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*def\s+\w+\s*\(`),
	regexp.MustCompile(`(?m)^\s*class\s+\w+.*:`),
	regexp.MustCompile(`(?m)^\s*import\s+\w+`),
	regexp.MustCompile(`(?m)^\s*from\s+[\w.]+\s+import\s`),
	regexp.MustCompile(`(?m)^\s*(elif|pass|lambda|raise|yield)\b`),
	regexp.MustCompile(`\bself\b`),
	regexp.MustCompile(`\b(True|False|None)\b`),
	regexp.MustCompile(`(?m)^\s*if\s+__name__\s*==`),
	regexp.MustCompile(`print\s*\(`),
	regexp.MustCompile(`(?m):\s*$`),
}

var reactSignatures = []*regexp.Regexp{
	regexp.MustCompile(`import\s+React`),
	regexp.MustCompile(`from\s+['"]react['"]`),
	regexp.MustCompile(`\buse(State|Effect|Memo|Callback|Context|Reducer|Ref)\s*\(`),
	regexp.MustCompile(`<[A-Z]\w*[\s/>]`),
	regexp.MustCompile(`\bexport\s+(default\s+)?(function|const|class)\b`),
	regexp.MustCompile(`\b(const|let)\s+\w+\s*=`),
	regexp.MustCompile(`=>`),
	regexp.MustCompile(`\bclassName=`),
	regexp.MustCompile(`</\w+>`),
	regexp.MustCompile(`console\.log\s*\(`),
}

// Classify heuristically labels raw source text with a language tag. It is
// deterministic and total: every input gets a tag, never an error. Each
// signature counts at most once no matter how often it matches, and the tag
// with the strictly greater count wins. The result is advisory only and
// downstream steps must not assume it is correct.
func Classify(code string) string {
	python := countMatches(pythonSignatures, code)
	react := countMatches(reactSignatures, code)

	if python > react {
		return LanguagePython
	}
	return defaultLanguage
}

func countMatches(signatures []*regexp.Regexp, code string) int {
	n := 0
	for _, sig := range signatures {
		if sig.MatchString(code) {
			n++
		}
	}
	return n
}
