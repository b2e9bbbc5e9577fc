package judge

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the evaluation prompt. Candidates appear as
// anonymous numbered entries in the order received so the judge cannot
// exhibit brand bias toward any provider.
func buildPrompt(in Input) string {
	var sb strings.Builder

	sb.WriteString("You are an impartial evaluator comparing anonymous candidate responses.\n")
	fmt.Fprintf(&sb, "Task type: %s\n", in.TaskType)
	fmt.Fprintf(&sb, "Evaluation criteria: %s\n\n", strings.Join(in.Criteria, ", "))

	sb.WriteString("Original prompt:\n")
	sb.WriteString(in.Prompt)
	sb.WriteString("\n\n")

	for i, candidate := range in.Candidates {
		fmt.Fprintf(&sb, "=== Candidate %d ===\n", i+1)
		sb.WriteString(candidate)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Score each candidate on each criterion (0-10), sum a total per candidate, ")
	sb.WriteString("and declare exactly one winner.\n")
	sb.WriteString("Return ONLY JSON, no prose, in this shape:\n")
	sb.WriteString(`{"winner": 1, "candidates": [{"index": 1, "scores": {"<criterion>": 0}, "total": 0}], "rationale": "..."}`)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "The winner must be an index between 1 and %d.\n", len(in.Candidates))

	return sb.String()
}
