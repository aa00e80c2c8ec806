package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/healthmesh/core"
	"github.com/hupe1980/healthmesh/model"
	"github.com/hupe1980/healthmesh/role"
)

const (
	noInformationText = "I don't have enough information to answer your health question."

	synthesisFailedText = "I processed your health query but had trouble synthesizing the insights."

	synthesisTemperature = 0.7
	synthesisMaxTokens   = 2048
)

// Synthesize merges multiple agent results into one coherent answer and
// reports which roles contributed. The fallback order on synthesis
// failure is fixed: the recommendation engine's raw response verbatim if
// present, else a fixed apologetic text. Synthesize never fails.
func (o *Orchestrator) Synthesize(ctx context.Context, query string, results []core.AgentResult) (string, []role.Role) {
	if len(results) == 0 {
		return noInformationText, nil
	}

	text, err := model.Complete(ctx, o.model, model.Request{
		Prompt:      synthesisPrompt(query, results),
		Temperature: synthesisTemperature,
		MaxTokens:   synthesisMaxTokens,
	})
	if err != nil {
		o.logger.Error("Response synthesis failed", "error", err.Error())
		for _, r := range results {
			if r.Role == role.RecommendationEngine {
				return r.Response, []role.Role{r.Role}
			}
		}
		return synthesisFailedText, nil
	}

	contributors := make([]role.Role, len(results))
	for i, r := range results {
		contributors[i] = r.Role
	}
	return text, contributors
}

// synthesisPrompt embeds every result's role name and response text plus
// the four merge requirements.
func synthesisPrompt(query string, results []core.AgentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original Query: %s\n\nAgent Insights:\n", query)
	for _, r := range results {
		fmt.Fprintf(&b, "\n%s:\n%s\n", r.Role, r.Response)
	}
	b.WriteString("\nSynthesize these insights into a comprehensive response that:")
	b.WriteString("\n1. Directly answers the user's question")
	b.WriteString("\n2. Highlights key findings from the analysis")
	b.WriteString("\n3. Provides actionable recommendations")
	b.WriteString("\n4. Notes any important limitations or caveats")
	return b.String()
}
