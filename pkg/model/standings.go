package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// RoundScore is a driver's derived score for one round. It is never
// authoritative on its own and gets regenerated on every pass.
type RoundScore struct {
	DriverID int             `json:"driverId"`
	RoundID  int             `json:"roundId"`
	RoundSeq int             `json:"roundSeq"`
	Points   decimal.Decimal `json:"points"`
	// per race event id
	Breakdown map[int]decimal.Decimal `json:"breakdown"`
}

type DriverStanding struct {
	Rank          int             `json:"rank"`
	DriverID      int             `json:"driverId"`
	DivisionID    int             `json:"divisionId"`
	TotalPoints   decimal.Decimal `json:"totalPoints"`
	RoundsCounted int             `json:"roundsCounted"`
	TieGroupSize  int             `json:"tieGroupSize"`
}

type TeamStanding struct {
	Rank          int             `json:"rank"`
	TeamID        int             `json:"teamId"`
	TotalPoints   decimal.Decimal `json:"totalPoints"`
	RoundsCounted int             `json:"roundsCounted"`
	TieGroupSize  int             `json:"tieGroupSize"`
}

// StandingsSnapshot is the complete outcome of one recomputation pass.
// Snapshots replace each other wholesale; they are never patched.
type StandingsSnapshot struct {
	ID         uuid.UUID                `json:"id"`
	SeasonID   int                      `json:"seasonId"`
	ComputedAt time.Time                `json:"computedAt"`
	Drivers    map[int][]DriverStanding `json:"drivers"` // by division id
	Teams      []TeamStanding           `json:"teams"`
}
