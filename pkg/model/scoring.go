package model

import "github.com/shopspring/decimal"

type (
	BonusKind        string
	BonusRestriction string
)

const (
	BonusFastestLap BonusKind = "fastest_lap"
	BonusPole       BonusKind = "pole"

	RestrictionNone      BonusRestriction = "none"
	RestrictionTop10Only BonusRestriction = "top10_only"
)

// PointsSystem maps finishing positions to points. Positions without an
// entry earn nothing. DNF/DNS values are optional extras (zero if unused).
type PointsSystem struct {
	ID        int                     `json:"id"`
	Name      string                  `json:"name"`
	Table     map[int]decimal.Decimal `json:"table"`
	DNFPoints decimal.Decimal         `json:"dnfPoints"`
	DNSPoints decimal.Decimal         `json:"dnsPoints"`
}

type BonusRule struct {
	Kind        BonusKind        `json:"kind"`
	Value       decimal.Decimal  `json:"value"`
	Restriction BonusRestriction `json:"restriction"`
}

// DropRoundPolicy configures how many of the lowest round scores are
// excluded from a season total. Drivers and teams carry separate instances.
type DropRoundPolicy struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// EffectiveCount returns how many rounds get dropped for a season with the
// given number of completed rounds.
func (p DropRoundPolicy) EffectiveCount(completedRounds int) int {
	if !p.Enabled || p.Count <= 0 {
		return 0
	}
	if p.Count > completedRounds {
		return completedRounds
	}
	return p.Count
}

// SeasonConfig is the full scoring configuration of a season, read as one
// consistent snapshot before a recomputation pass starts.
type SeasonConfig struct {
	Season        Season
	Divisions     []Division
	Rounds        []Round // ordered by Seq
	Events        []RaceEvent
	PointsSystems map[int]*PointsSystem
	BonusRules    []BonusRule
	DriverDrop    DropRoundPolicy
	TeamDrop      DropRoundPolicy
	Tiebreakers   []string // ordered rule slugs
	Drivers       []Driver
	Teams         []Team
	Rosters       []TeamRoster
}

// CompletedRounds returns the season's completed rounds in calendar order.
func (c *SeasonConfig) CompletedRounds() []Round {
	ret := make([]Round, 0, len(c.Rounds))
	for _, r := range c.Rounds {
		if r.Status == RoundCompleted {
			ret = append(ret, r)
		}
	}
	return ret
}
