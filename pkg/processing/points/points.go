package points

import (
	"github.com/shopspring/decimal"

	"github.com/virtualracing/league-standings-go/pkg/model"
)

// Calculator converts one race event's scored results into awarded points.
type Calculator struct {
	bonusRules []model.BonusRule
}

type Option func(c *Calculator)

func WithBonusRules(rules []model.BonusRule) Option {
	return func(c *Calculator) {
		c.bonusRules = rules
	}
}

func NewCalculator(opts ...Option) *Calculator {
	ret := &Calculator{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Calculate awards points per driver for one race event.
//
// A driver earns the points the table defines for their position (nothing
// when unranked or out of range), applicable bonuses, and the DNF/DNS value.
// DNF points are additive: a flagged DNF with a recorded position earns
// position points plus the DNF value.
func (c *Calculator) Calculate(
	ps *model.PointsSystem,
	results []model.ScoredResult,
) (map[int]decimal.Decimal, error) {
	if err := ValidateSystem(ps); err != nil {
		return nil, err
	}

	ret := make(map[int]decimal.Decimal, len(results))
	for i := range results {
		res := &results[i]
		pts := decimal.Zero
		if res.Position > 0 {
			if tablePts, ok := ps.Table[res.Position]; ok {
				pts = pts.Add(tablePts)
			}
		}
		pts = pts.Add(c.bonusPoints(res))
		if res.DNF {
			pts = pts.Add(ps.DNFPoints)
		}
		if res.DNS {
			pts = pts.Add(ps.DNSPoints)
		}
		ret[res.DriverID] = pts
	}
	return ret, nil
}

func (c *Calculator) bonusPoints(res *model.ScoredResult) decimal.Decimal {
	ret := decimal.Zero
	for _, rule := range c.bonusRules {
		switch rule.Kind {
		case model.BonusFastestLap:
			if !res.HasFastestLap {
				continue
			}
		case model.BonusPole:
			if !res.HasPole {
				continue
			}
		default:
			continue
		}
		if rule.Restriction == model.RestrictionTop10Only &&
			(res.Position < 1 || res.Position > 10) {
			continue
		}
		ret = ret.Add(rule.Value)
	}
	return ret
}

// ValidateSystem checks a points table for structural problems: entries for
// impossible positions, negative values and more than two decimal places.
func ValidateSystem(ps *model.PointsSystem) error {
	if ps == nil || len(ps.Table) == 0 {
		return model.NewConfigurationError("points system has no entries")
	}
	for pos, val := range ps.Table {
		if pos < 1 {
			return model.NewConfigurationError(
				"points system %d defines invalid position %d", ps.ID, pos)
		}
		if val.IsNegative() {
			return model.NewConfigurationError(
				"points system %d has negative points for position %d", ps.ID, pos)
		}
		if !val.Round(2).Equal(val) {
			return model.NewConfigurationError(
				"points system %d has more than 2 decimals for position %d", ps.ID, pos)
		}
	}
	for _, val := range []decimal.Decimal{ps.DNFPoints, ps.DNSPoints} {
		if !val.Round(2).Equal(val) {
			return model.NewConfigurationError(
				"points system %d has more than 2 decimals in dnf/dns points", ps.ID)
		}
	}
	return nil
}
