package services

import "regexp"

// Grey zone band, inclusive. Scores here are too ambiguous for the
// keyword tables alone and get a secondary co-occurrence pass.
const (
	greyZoneLow  = 20
	greyZoneHigh = 55
)

// Escalator is the secondary scoring stage for grey-zone text. It
// receives the raw text and the pre-escalation score and returns a
// point boost, or ok=false for no adjustment. Implementations may be
// heuristic or backed by an external classifier; the checker wraps
// every call in a recover so a faulty implementation degrades to no
// adjustment.
type Escalator interface {
	Escalate(text string, score int) (boost int, ok bool)
}

// cooccurrencePattern flags text where two concept fragments appear
// together. Either alone is common in legitimate postings; the pair is
// the signal.
type cooccurrencePattern struct {
	first  *regexp.Regexp
	second *regexp.Regexp
	boost  int
}

var heuristicPatterns = []cooccurrencePattern{
	// immediate pay plus an identity-document request
	{
		first:  regexp.MustCompile(`即日|日払い|その日に`),
		second: regexp.MustCompile(`身分証|免許証|マイナンバー`),
		boost:  15,
	},
	// reward talk routed through an anonymous messenger
	{
		first:  regexp.MustCompile(`報酬|謝礼`),
		second: regexp.MustCompile(`Telegram|テレグラム|シグナル`),
		boost:  10,
	},
	// "easy work" that is really package or cash handling
	{
		first:  regexp.MustCompile(`簡単|楽に`),
		second: regexp.MustCompile(`荷物|受け取|回収`),
		boost:  10,
	},
	// recruiting with no job description at all
	{
		first:  regexp.MustCompile(`詳細はDM|詳しくは連絡`),
		second: regexp.MustCompile(`稼げる|儲かる`),
		boost:  10,
	},
}

// HeuristicEscalator is the default grey-zone strategy: a fixed set of
// regex co-occurrence checks, each contributing an independent boost.
type HeuristicEscalator struct {
	patterns []cooccurrencePattern
}

// NewHeuristicEscalator creates the default escalator
func NewHeuristicEscalator() *HeuristicEscalator {
	return &HeuristicEscalator{patterns: heuristicPatterns}
}

// Escalate sums the boosts of every matching co-occurrence pair.
func (e *HeuristicEscalator) Escalate(text string, score int) (int, bool) {
	total := 0
	for _, p := range e.patterns {
		if p.first.MatchString(text) && p.second.MatchString(text) {
			total += p.boost
		}
	}
	if total == 0 {
		return 0, false
	}
	return total, true
}
