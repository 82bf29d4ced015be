package services

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// AnswerParser extracts numbered answers from completion text.
//
// A line is recognised when it splits on the first ". " into a part made
// only of ASCII digits and a rest. Lines whose number falls outside the
// batch range are dropped.
type AnswerParser struct {
	joinContinuations bool
}

// NewAnswerParser creates a parser. With joinContinuations set, unnumbered
// non-blank lines are appended to the previous recognised answer.
func NewAnswerParser(joinContinuations bool) *AnswerParser {
	return &AnswerParser{joinContinuations: joinContinuations}
}

// Parse maps global question indices in [lo, hi] to their answer text.
// Later lines with the same number overwrite earlier ones.
func (p *AnswerParser) Parse(raw string, lo, hi int) domain.AnswerMap {
	out := make(domain.AnswerMap)
	last := -1

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		num, rest, ok := splitNumbered(line)
		if !ok {
			if p.joinContinuations && last >= 0 {
				if extra := strings.TrimSpace(line); extra != "" {
					out[last] = strings.TrimSpace(out[last] + " " + extra)
				}
			}
			continue
		}
		if num < lo || num > hi {
			last = -1
			continue
		}
		out[num] = strings.TrimSpace(rest)
		last = num
	}
	return out
}

func splitNumbered(line string) (int, string, bool) {
	head, rest, found := strings.Cut(line, ". ")
	if !found || head == "" {
		return 0, "", false
	}
	for _, r := range head {
		if r < '0' || r > '9' {
			return 0, "", false
		}
	}
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, "", false
	}
	return n, rest, true
}
