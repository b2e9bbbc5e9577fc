package judge

import (
	"encoding/json"
	"fmt"
	"strings"
)

type verdictReply struct {
	Winner     int              `json:"winner"`
	Candidates []candidateScore `json:"candidates"`
	Rationale  string           `json:"rationale"`
}

type candidateScore struct {
	Index  int                `json:"index"`
	Scores map[string]float64 `json:"scores"`
	Total  float64            `json:"total"`
}

// parseVerdict parses the judge model's raw text against the expected
// structure. The winner index is 1-based on the wire and 0-based in the
// returned verdict. Any structural problem is an error; the caller
// converts it into the fallback tie-break.
func parseVerdict(raw string, candidates int) (*Verdict, error) {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var reply verdictReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, err
	}

	if reply.Winner < 1 || reply.Winner > candidates {
		return nil, fmt.Errorf("winner index %d out of range 1..%d", reply.Winner, candidates)
	}

	scores := make([]float64, candidates)
	for _, cs := range reply.Candidates {
		if cs.Index < 1 || cs.Index > candidates {
			return nil, fmt.Errorf("candidate index %d out of range 1..%d", cs.Index, candidates)
		}
		total := cs.Total
		if total == 0 {
			for _, s := range cs.Scores {
				total += s
			}
		}
		scores[cs.Index-1] = total
	}

	return &Verdict{
		WinnerIndex: reply.Winner - 1,
		Scores:      scores,
		Rationale:   reply.Rationale,
	}, nil
}
