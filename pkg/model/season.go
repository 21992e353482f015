package model

import "time"

type RoundStatus string

const (
	RoundScheduled RoundStatus = "scheduled"
	RoundCompleted RoundStatus = "completed"
	RoundReopened  RoundStatus = "reopened"
)

type EventKind string

const (
	EventKindQualifying EventKind = "qualifying"
	EventKindRace       EventKind = "race"
)

type Season struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	StartsAt    time.Time `json:"startsAt"`
	RecordStamp time.Time `json:"recordStamp"`
}

// Division is an independently scored sub-group within a season.
type Division struct {
	ID       int    `json:"id"`
	SeasonID int    `json:"seasonId"`
	Name     string `json:"name"`
}

type Round struct {
	ID       int         `json:"id"`
	SeasonID int         `json:"seasonId"`
	Seq      int         `json:"seq"` // 1-based position in the season calendar
	Name     string      `json:"name"`
	Status   RoundStatus `json:"status"`
	// optional points table applied to the aggregated round classification,
	// on top of the per-event points
	RoundPointsSystemID *int `json:"roundPointsSystemId,omitempty"`
}

// RaceEvent is one scored session (qualifying or race) within a round.
type RaceEvent struct {
	ID             int       `json:"id"`
	RoundID        int       `json:"roundId"`
	Kind           EventKind `json:"kind"`
	Seq            int       `json:"seq"`
	PointsSystemID int       `json:"pointsSystemId"`
}

type Driver struct {
	ID         int    `json:"id"`
	SeasonID   int    `json:"seasonId"`
	DivisionID int    `json:"divisionId"`
	Name       string `json:"name"`
}

type Team struct {
	ID       int    `json:"id"`
	SeasonID int    `json:"seasonId"`
	Name     string `json:"name"`
}

// RosterEntry describes a driver's membership on a team for a range of
// rounds. ToRoundSeq 0 means "until the end of the season".
type RosterEntry struct {
	TeamID       int `json:"teamId"`
	DriverID     int `json:"driverId"`
	FromRoundSeq int `json:"fromRoundSeq"`
	ToRoundSeq   int `json:"toRoundSeq"`
}

// TeamRoster is a team's driver set plus the subset size used for team
// scoring. DriversForCalculation 0 means "all".
type TeamRoster struct {
	TeamID                int           `json:"teamId"`
	Entries               []RosterEntry `json:"entries"`
	DriversForCalculation int           `json:"driversForCalculation"`
}

// DriversAt returns the ids of the drivers belonging to the team for the
// given round. Membership is evaluated per round, so mid-season transfers
// take effect from the configured round on.
func (r TeamRoster) DriversAt(roundSeq int) []int {
	ret := make([]int, 0, len(r.Entries))
	for _, e := range r.Entries {
		if roundSeq < e.FromRoundSeq {
			continue
		}
		if e.ToRoundSeq != 0 && roundSeq > e.ToRoundSeq {
			continue
		}
		ret = append(ret, e.DriverID)
	}
	return ret
}

// Size returns the number of distinct drivers ever on the roster.
func (r TeamRoster) Size() int {
	seen := map[int]struct{}{}
	for _, e := range r.Entries {
		seen[e.DriverID] = struct{}{}
	}
	return len(seen)
}
