package model

import "time"

type ResultStatus string

const (
	ResultPending   ResultStatus = "pending"
	ResultConfirmed ResultStatus = "confirmed"
)

// RaceResult is a raw per-driver result row as stored by the result store.
type RaceResult struct {
	ID          int          `json:"id"`
	RaceEventID int          `json:"raceEventId"`
	DriverID    int          `json:"driverId"`
	DivisionID  int          `json:"divisionId"`
	Position    int          `json:"position"` // 0 = unranked
	DNF         bool         `json:"dnf"`
	DNS         bool         `json:"dns"`
	FastestLap  bool         `json:"fastestLap"`
	Pole        bool         `json:"pole"`
	Status      ResultStatus `json:"status"`
	RecordStamp time.Time    `json:"recordStamp"`
}

// ScoredResult is the normalized, immutable form of a confirmed result as
// consumed by the scoring pipeline.
type ScoredResult struct {
	DriverID      int  `json:"driverId"`
	RaceEventID   int  `json:"raceEventId"`
	DivisionID    int  `json:"divisionId"`
	Position      int  `json:"position"` // 0 = unranked
	DNF           bool `json:"dnf"`
	DNS           bool `json:"dns"`
	HasFastestLap bool `json:"hasFastestLap"`
	HasPole       bool `json:"hasPole"`
}
