// internal/workers/communication/report-send/report.go
package reportsend

import (
	"fmt"
	"sort"
	"strings"

	"assessment-workers/internal/assessment/scoring"
)

// buildSubject renders the email subject line for an assessment report.
func buildSubject(input *Input) string {
	if input.OrganizationName != "" {
		return fmt.Sprintf("Assessment results for %s", input.OrganizationName)
	}
	return "Your assessment results"
}

// buildEmailBody renders the plain-text report: quadrant placement, pillar
// scores at display precision, then the ranked recommendations.
func buildEmailBody(input *Input) string {
	var b strings.Builder

	b.WriteString("Assessment Summary\n")
	b.WriteString("==================\n\n")

	if input.Quadrant != "" {
		b.WriteString(fmt.Sprintf("Classification: %s (impact %s, effort %s)\n\n",
			scoring.QuadrantLabel(input.Quadrant),
			scoring.Format(input.Impact),
			scoring.Format(input.Effort),
		))
	}

	if len(input.Scores) > 0 {
		b.WriteString("Maturity scores:\n")
		pillars := make([]string, 0, len(input.Scores))
		for pillar := range input.Scores {
			pillars = append(pillars, pillar)
		}
		sort.Strings(pillars)
		for _, pillar := range pillars {
			b.WriteString(fmt.Sprintf("  - %s: %s\n", pillar, scoring.Format(input.Scores[pillar])))
		}
		b.WriteString("\n")
	}

	if len(input.RecommendedUseCases) > 0 {
		b.WriteString("Recommended use cases:\n")
		for _, uc := range input.RecommendedUseCases {
			b.WriteString(fmt.Sprintf("  %d. %s (fit %s)\n", uc.Rank, uc.Name, scoring.Format(uc.FitScore)))
		}
	} else {
		b.WriteString("No use cases met the recommendation threshold yet.\n")
	}

	return b.String()
}

// buildSMSBody renders the short-form summary sent over SMS.
func buildSMSBody(input *Input) string {
	label := scoring.QuadrantLabel(input.Quadrant)
	if label == "" {
		label = "complete"
	}

	top := ""
	if len(input.RecommendedUseCases) > 0 {
		top = fmt.Sprintf(" Top recommendation: %s.", input.RecommendedUseCases[0].Name)
	}

	return fmt.Sprintf("Assessment complete: %s.%s", label, top)
}
