package tiebreak

import "github.com/shopspring/decimal"

// History holds the full season history the tiebreaker rules evaluate.
// It works for drivers and teams alike: subjects are just ids, finishes
// are whatever "position" means for the subject kind (race finishing
// position for drivers, round classification for teams).
type History struct {
	rounds  map[int]map[int]decimal.Decimal // subject -> round -> points
	wins    map[int]int
	podiums map[int]int
}

func NewHistory() *History {
	return &History{
		rounds:  make(map[int]map[int]decimal.Decimal),
		wins:    make(map[int]int),
		podiums: make(map[int]int),
	}
}

func (h *History) AddRoundPoints(subjectID, roundID int, pts decimal.Decimal) {
	byRound, ok := h.rounds[subjectID]
	if !ok {
		byRound = make(map[int]decimal.Decimal)
		h.rounds[subjectID] = byRound
	}
	byRound[roundID] = pts
}

func (h *History) AddFinish(subjectID, position int) {
	if position == 1 {
		h.wins[subjectID]++
	}
	if position >= 1 && position <= 3 {
		h.podiums[subjectID]++
	}
}

func (h *History) Wins(subjectID int) int    { return h.wins[subjectID] }
func (h *History) Podiums(subjectID int) int { return h.podiums[subjectID] }

// BestRound returns the subject's highest single round score.
func (h *History) BestRound(subjectID int) decimal.Decimal {
	best := decimal.Zero
	first := true
	for _, pts := range h.rounds[subjectID] {
		if first || pts.GreaterThan(best) {
			best = pts
			first = false
		}
	}
	return best
}

// HeadToHead counts the rounds in which a outscored b. Rounds where either
// subject has no score do not count.
func (h *History) HeadToHead(a, b int) int {
	ret := 0
	for roundID, ptsA := range h.rounds[a] {
		if ptsB, ok := h.rounds[b][roundID]; ok && ptsA.GreaterThan(ptsB) {
			ret++
		}
	}
	return ret
}
