package prompts

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed feature_analysis.md
var featureAnalysisPromptTemplate string

//go:embed summary_system.md
var summarySystemPromptTemplate string

//go:embed summary_first.md
var summaryFirstPromptTemplate string

//go:embed summary_next.md
var summaryNextPromptTemplate string

//go:embed doc_system.md
var docSystemPromptTemplate string

//go:embed doc_create_first.md
var docCreateFirstPromptTemplate string

//go:embed doc_update_first.md
var docUpdateFirstPromptTemplate string

//go:embed doc_next.md
var docNextPromptTemplate string

func BuildFeatureAnalysisPrompt(language, diff string) string {
	return fmt.Sprintf(strings.TrimSpace(featureAnalysisPromptTemplate), language, diff)
}

func BuildSummarySystemPrompt(language string) string {
	return fmt.Sprintf(strings.TrimSpace(summarySystemPromptTemplate), language)
}

func BuildSummaryFirstPrompt(part string) string {
	return fmt.Sprintf(strings.TrimSpace(summaryFirstPromptTemplate), part)
}

func BuildSummaryNextPrompt(summary, part string) string {
	return fmt.Sprintf(strings.TrimSpace(summaryNextPromptTemplate), summary, part)
}

func BuildDocSystemPrompt(language string) string {
	return fmt.Sprintf(strings.TrimSpace(docSystemPromptTemplate), language)
}

func BuildDocCreateFirstPrompt(part string) string {
	return fmt.Sprintf(strings.TrimSpace(docCreateFirstPromptTemplate), part)
}

func BuildDocUpdateFirstPrompt(existing, part string) string {
	return fmt.Sprintf(strings.TrimSpace(docUpdateFirstPromptTemplate), existing, part)
}

func BuildDocNextPrompt(document, part string) string {
	return fmt.Sprintf(strings.TrimSpace(docNextPromptTemplate), document, part)
}
