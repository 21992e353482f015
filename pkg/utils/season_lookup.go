package utils

import (
	"github.com/virtualracing/league-standings-go/pkg/model"
)

// SeasonLookup provides id-keyed access to a season's configuration.
// It is built fresh for every recomputation pass from one consistent
// config snapshot; nothing in here is shared between passes.
type SeasonLookup struct {
	Divisions     map[int]model.Division
	Rounds        map[int]model.Round
	Events        map[int]model.RaceEvent
	EventsByRound map[int][]model.RaceEvent
	Drivers       map[int]model.Driver
	Teams         map[int]model.Team
	Rosters       map[int]model.TeamRoster
}

func NewSeasonLookup(cfg *model.SeasonConfig) *SeasonLookup {
	ret := &SeasonLookup{
		Divisions:     make(map[int]model.Division, len(cfg.Divisions)),
		Rounds:        make(map[int]model.Round, len(cfg.Rounds)),
		Events:        make(map[int]model.RaceEvent, len(cfg.Events)),
		EventsByRound: make(map[int][]model.RaceEvent, len(cfg.Rounds)),
		Drivers:       make(map[int]model.Driver, len(cfg.Drivers)),
		Teams:         make(map[int]model.Team, len(cfg.Teams)),
		Rosters:       make(map[int]model.TeamRoster, len(cfg.Rosters)),
	}
	for _, d := range cfg.Divisions {
		ret.Divisions[d.ID] = d
	}
	for _, r := range cfg.Rounds {
		ret.Rounds[r.ID] = r
	}
	for _, e := range cfg.Events {
		ret.Events[e.ID] = e
		ret.EventsByRound[e.RoundID] = append(ret.EventsByRound[e.RoundID], e)
	}
	for _, d := range cfg.Drivers {
		ret.Drivers[d.ID] = d
	}
	for _, t := range cfg.Teams {
		ret.Teams[t.ID] = t
	}
	for _, r := range cfg.Rosters {
		ret.Rosters[r.TeamID] = r
	}
	return ret
}

// RoundOfEvent resolves the round a race event belongs to.
func (l *SeasonLookup) RoundOfEvent(eventID int) (model.Round, bool) {
	ev, ok := l.Events[eventID]
	if !ok {
		return model.Round{}, false
	}
	round, ok := l.Rounds[ev.RoundID]
	return round, ok
}
