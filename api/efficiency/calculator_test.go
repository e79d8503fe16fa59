/* calculator_test.go
 * Contains unit tests for the efficiency calculator
 */

package efficiency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rosteriq/api/shared"
)

func f64(v float64) *float64 { return &v }

// fakeLeague implements LeagueStore from in-memory fixtures
type fakeLeague struct {
	teams   map[string][]shared.TeamSnapshot
	entries map[string]map[int][]shared.MatchupEntry
	configs map[string]shared.LineupConfiguration
	playoff map[string]int
}

func (f *fakeLeague) Teams(seasonID string) ([]shared.TeamSnapshot, error) {
	return f.teams[seasonID], nil
}

func (f *fakeLeague) MatchupEntries(seasonID string, week int) ([]shared.MatchupEntry, error) {
	return f.entries[seasonID][week], nil
}

func (f *fakeLeague) LineupConfiguration(seasonID string) (shared.LineupConfiguration, error) {
	return f.configs[seasonID], nil
}

func (f *fakeLeague) PlayoffStartWeek(seasonID string) (int, error) {
	if w, ok := f.playoff[seasonID]; ok {
		return w, nil
	}
	return 15, nil
}

func weekScore(week int, pts float64) []shared.WeeklyScore {
	return []shared.WeeklyScore{{Week: week, Standard: pts}}
}

func fixtureTeam() shared.TeamSnapshot {
	return shared.TeamSnapshot{
		SeasonID: "2023",
		TeamID:   "t1",
		OwnerID:  "owner-a",
		Roster: []shared.Player{
			{ID: "qb1", Position: "QB", WeeklyScores: weekScore(1, 20)},
			{ID: "rb1", Position: "RB", WeeklyScores: weekScore(1, 15)},
			{ID: "rb2", Position: "RB", WeeklyScores: weekScore(1, 8)},
			{ID: "wr1", Position: "WR", WeeklyScores: weekScore(1, 12)},
			{ID: "wr2", Position: "WR", WeeklyScores: weekScore(1, 6)},
			{ID: "wr3", Position: "WR", WeeklyScores: weekScore(1, 14)},
			{ID: "te1", Position: "TE", WeeklyScores: weekScore(1, 9)},
			{ID: "k1", Position: "K", WeeklyScores: weekScore(1, 7)},
		},
	}
}

func fixtureLeague(entry shared.MatchupEntry) *fakeLeague {
	return &fakeLeague{
		teams:   map[string][]shared.TeamSnapshot{"2023": {fixtureTeam()}},
		entries: map[string]map[int][]shared.MatchupEntry{"2023": {1: {entry}}},
		configs: map[string]shared.LineupConfiguration{
			"2023": {SeasonID: "2023", Slots: []string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "K"}},
		},
	}
}

// TestComputeWeek_SuboptimalLineup tests a manager who benched his best WR
func TestComputeWeek_SuboptimalLineup(t *testing.T) {
	entry := shared.MatchupEntry{
		SeasonID: "2023", Week: 1, MatchupID: "m1", RosterID: "t1",
		Starters: []string{"qb1", "rb1", "rb2", "wr1", "wr2", "te1", "k1"}, // wr3 benched
		Players:  []string{"qb1", "rb1", "rb2", "wr1", "wr2", "wr3", "te1", "k1"},
	}
	calc := NewCalculator(fixtureLeague(entry), nil)

	got, err := calc.ComputeWeek(fixtureTeam(), 1)

	assert.NoError(t, err)
	assert.InDelta(t, 77.0, got.ActualTotal, 1e-9)  // 20+15+8+12+6+9+7
	assert.InDelta(t, 91.0, got.OptimalTotal, 1e-9) // wr3 replaces wr2 in a WR slot, wr2 fills flex
	assert.GreaterOrEqual(t, got.OptimalTotal, got.ActualTotal)
	assert.InDelta(t, 77.0/91.0*100, got.ManagementPercent, 1e-9)
	assert.False(t, got.LowConfidence)
}

// TestComputeWeek_ScalarFallback tests the empty-score-map scenario: scalar
// total becomes the actual total, attributed 100% to offense, low confidence
func TestComputeWeek_ScalarFallback(t *testing.T) {
	entry := shared.MatchupEntry{
		SeasonID: "2023", Week: 1, RosterID: "t1",
		Starters:    []string{"ghost1", "ghost2"},
		TotalPoints: f64(110.4),
	}
	league := fixtureLeague(entry)
	// Roster carries no scores for the ghost starters.
	team := fixtureTeam()
	for i := range team.Roster {
		team.Roster[i].WeeklyScores = nil
	}
	league.teams["2023"] = []shared.TeamSnapshot{team}
	calc := NewCalculator(league, nil)

	got, err := calc.ComputeWeek(team, 1)

	assert.NoError(t, err)
	assert.InDelta(t, 110.4, got.ActualTotal, 1e-9)
	assert.InDelta(t, 110.4, got.ActualOffense, 1e-9)
	assert.InDelta(t, 0.0, got.ActualDefense, 1e-9)
	assert.True(t, got.LowConfidence)
}

// TestComputeWeek_ScalarProportionalSplit tests scalar reconciliation when
// part of the lineup resolved: the known offense/defense split scales to the
// authoritative total instead of collapsing to all-offense
func TestComputeWeek_ScalarProportionalSplit(t *testing.T) {
	team := shared.TeamSnapshot{
		SeasonID: "2023", TeamID: "t1",
		Roster: []shared.Player{
			{ID: "qb1", Position: "QB", WeeklyScores: weekScore(1, 20)},
			{ID: "lb1", Position: "LB", WeeklyScores: weekScore(1, 10)},
		},
	}
	entry := shared.MatchupEntry{
		SeasonID: "2023", Week: 1, RosterID: "t1",
		Starters:    []string{"qb1", "lb1", "ghost"}, // ghost never resolves
		TotalPoints: f64(45),
	}
	league := &fakeLeague{
		teams:   map[string][]shared.TeamSnapshot{"2023": {team}},
		entries: map[string]map[int][]shared.MatchupEntry{"2023": {1: {entry}}},
		configs: map[string]shared.LineupConfiguration{
			"2023": {SeasonID: "2023", Slots: []string{"QB", "LB"}},
		},
	}
	calc := NewCalculator(league, nil)

	got, err := calc.ComputeWeek(team, 1)

	assert.NoError(t, err)
	// Known split 20/10 scales by 45/30.
	assert.InDelta(t, 45.0, got.ActualTotal, 1e-9)
	assert.InDelta(t, 30.0, got.ActualOffense, 1e-9)
	assert.InDelta(t, 15.0, got.ActualDefense, 1e-9)
	assert.True(t, got.LowConfidence)
}

// TestComputeWeek_InsufficientData tests that no scores and no scalar is an
// explicit error, never a zero result
func TestComputeWeek_InsufficientData(t *testing.T) {
	entry := shared.MatchupEntry{SeasonID: "2023", Week: 1, RosterID: "t1", Starters: []string{"ghost"}}
	league := fixtureLeague(entry)
	team := fixtureTeam()
	for i := range team.Roster {
		team.Roster[i].WeeklyScores = nil
	}
	league.teams["2023"] = []shared.TeamSnapshot{team}
	calc := NewCalculator(league, nil)

	_, err := calc.ComputeWeek(team, 1)

	assert.ErrorIs(t, err, ErrInsufficientData)
}

// TestComputeWeek_InferredConfiguration tests lineup inference from roster
// composition when the league configuration is empty
func TestComputeWeek_InferredConfiguration(t *testing.T) {
	entry := shared.MatchupEntry{
		SeasonID: "2023", Week: 1, RosterID: "t1",
		Starters: []string{"qb1", "rb1", "wr1", "te1", "k1"},
	}
	league := fixtureLeague(entry)
	league.configs["2023"] = shared.LineupConfiguration{SeasonID: "2023"}
	calc := NewCalculator(league, nil)

	got, err := calc.ComputeWeek(fixtureTeam(), 1)

	assert.NoError(t, err)
	// Inferred: 1 QB, 2 RB, 3 WR (capped), 1 TE, 1 K.
	assert.InDelta(t, 20+15+8+12+6+14+9+7, got.OptimalTotal, 1e-9)
}

// TestComputeWeek_AmbiguousConfiguration tests that an empty configuration and
// an empty roster yield insufficient data
func TestComputeWeek_AmbiguousConfiguration(t *testing.T) {
	entry := shared.MatchupEntry{
		SeasonID: "2023", Week: 1, RosterID: "t1",
		Starters:     []string{"qb1"},
		PlayerPoints: map[string]float64{"qb1": 10},
	}
	league := fixtureLeague(entry)
	league.configs["2023"] = shared.LineupConfiguration{SeasonID: "2023"}
	team := fixtureTeam()
	team.Roster = nil
	league.teams["2023"] = []shared.TeamSnapshot{team}
	calc := NewCalculator(league, nil)

	_, err := calc.ComputeWeek(team, 1)

	assert.ErrorIs(t, err, ErrAmbiguousSlots)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

// TestComputeWeek_DefenseSplit tests the offense/defense sub-totals with IDP slots
func TestComputeWeek_DefenseSplit(t *testing.T) {
	team := shared.TeamSnapshot{
		SeasonID: "2023", TeamID: "t1",
		Roster: []shared.Player{
			{ID: "qb1", Position: "QB", WeeklyScores: weekScore(1, 20)},
			{ID: "de1", Position: "DE", WeeklyScores: weekScore(1, 11)},
			{ID: "cb1", Position: "CB", WeeklyScores: weekScore(1, 9)},
		},
	}
	entry := shared.MatchupEntry{
		SeasonID: "2023", Week: 1, RosterID: "t1",
		Starters: []string{"qb1", "de1", "cb1"},
	}
	league := &fakeLeague{
		teams:   map[string][]shared.TeamSnapshot{"2023": {team}},
		entries: map[string]map[int][]shared.MatchupEntry{"2023": {1: {entry}}},
		configs: map[string]shared.LineupConfiguration{
			"2023": {SeasonID: "2023", Slots: []string{"QB", "DL", "IDP_FLEX"}},
		},
	}
	calc := NewCalculator(league, nil)

	got, err := calc.ComputeWeek(team, 1)

	assert.NoError(t, err)
	assert.InDelta(t, 20.0, got.ActualOffense, 1e-9)
	assert.InDelta(t, 20.0, got.OptimalOffense, 1e-9)
	assert.InDelta(t, 20.0, got.ActualDefense, 1e-9) // de1 + cb1
	assert.InDelta(t, 20.0, got.OptimalDefense, 1e-9)
}

// TestComputeWeek_MetadataCachePosition tests that pool-only ids pick up their
// position from the global metadata cache
func TestComputeWeek_MetadataCachePosition(t *testing.T) {
	entry := shared.MatchupEntry{
		SeasonID: "2023", Week: 1, RosterID: "t1",
		Starters:     []string{"qb1"},
		Players:      []string{"qb1", "cached-wr"},
		PlayerPoints: map[string]float64{"qb1": 20, "cached-wr": 25},
	}
	league := fixtureLeague(entry)
	league.configs["2023"] = shared.LineupConfiguration{SeasonID: "2023", Slots: []string{"QB", "WR"}}
	calc := NewCalculator(league, positionMap{"cached-wr": shared.WR})

	got, err := calc.ComputeWeek(fixtureTeam(), 1)

	assert.NoError(t, err)
	assert.InDelta(t, 45.0, got.OptimalTotal, 1e-9) // cached-wr fills the WR slot
}

type positionMap map[string]shared.Position

func (m positionMap) Position(id string) (shared.Position, bool) {
	pos, ok := m[id]
	return pos, ok
}
