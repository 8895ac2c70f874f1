package summarize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/devtrail/devtrail/internal/contract"
)

// messagesToken is the placeholder substituted with the joined message block
// in every prompt template.
const messagesToken = "[MESSAGES]"

const (
	dailyPromptTemplate = "The block below contains git commit messages from one day of work on a " +
		"software project. Write a single concise paragraph, in past tense, describing what was " +
		"accomplished that day. Mention concrete features and fixes, skip file names and ticket numbers.\n\n" +
		messagesToken

	weeklyPromptTemplate = "The block below contains daily work summaries from one week on a " +
		"software project. Combine them into one paragraph, in past tense, describing the week's " +
		"main accomplishments. Merge related items instead of listing every day separately.\n\n" +
		messagesToken

	monthlyPromptTemplate = "The block below contains weekly work summaries from one month on a " +
		"software project. Write a short paragraph, in past tense, capturing the month's overall " +
		"direction and most significant outcomes.\n\n" +
		messagesToken
)

// describe summarizes the given member texts with the template's
// instruction. An estimated prompt size over the configured token budget
// fails with ErrTokenBudgetExceeded instead of truncating.
func (s *Summarizer) describe(ctx context.Context, texts []string, template string) (string, error) {
	prompt := strings.ReplaceAll(template, messagesToken, joinTexts(texts))

	if s.tokenBudget > 0 {
		if n := s.model.EstimateTokens(prompt); n > s.tokenBudget {
			return "", fmt.Errorf("%w: prompt is %d tokens, budget is %d",
				contract.ErrTokenBudgetExceeded, n, s.tokenBudget)
		}
	}

	out, err := s.model.Generate(ctx, prompt, contract.GenerateOptions{Temperature: 0.2})
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

var newlineRuns = regexp.MustCompile(`\n+`)

// joinTexts flattens each member text to a single line, turning newline
// runs into sentence breaks, joins them with ". " and fences the result so
// instruction text and input stay separated.
func joinTexts(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if flat := strings.TrimSpace(newlineRuns.ReplaceAllString(t, ". ")); flat != "" {
			parts = append(parts, flat)
		}
	}
	return "```\n" + strings.Join(parts, ". ") + "\n```"
}
