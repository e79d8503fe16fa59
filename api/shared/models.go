/* models.go
 * This file contains the types that are shared between sub packages: the position
 * taxonomy, roster snapshots, matchup entries and the derived efficiency/aggregate
 * records persisted by the store
 */

package shared

// CurrentSchemaVersion is bumped whenever the efficiency calculation rules change.
// Persisted records carrying an older version are regenerated by the migration engine.
const CurrentSchemaVersion = 3

// SeasonWeekCap bounds per-season week scans; no supported league has ever
// played past week 18.
const SeasonWeekCap = 18

// Position is a canonical roster position. Raw position strings from historical
// imports are mapped onto this set by the taxonomy package.
type Position string

const (
	QB      Position = "QB"
	RB      Position = "RB"
	WR      Position = "WR"
	TE      Position = "TE"
	K       Position = "K"
	DL      Position = "DL"
	LB      Position = "LB"
	DB      Position = "DB"
	UNKNOWN Position = "UNKNOWN"
)

// OffensePositions and DefensePositions partition the canonical set.
// UNKNOWN belongs to neither, so it never contributes to either sub-total.
var (
	OffensePositions = []Position{QB, RB, WR, TE, K}
	DefensePositions = []Position{DL, LB, DB}
)

// IsOffense reports whether p is an offensive position.
func (p Position) IsOffense() bool {
	switch p {
	case QB, RB, WR, TE, K:
		return true
	}
	return false
}

// IsDefense reports whether p is a defensive (IDP) position.
func (p Position) IsDefense() bool {
	switch p {
	case DL, LB, DB:
		return true
	}
	return false
}

// WeeklyScore holds a player's points for one week across the scoring format
// variants the import pipeline records. HalfPPR is a pointer because older
// seasons only carry standard points.
type WeeklyScore struct {
	Week     int      `bson:"week"`
	Standard float64  `bson:"standard"`
	PPR      float64  `bson:"ppr,omitempty"`
	HalfPPR  *float64 `bson:"half_ppr,omitempty"`
}

// Player is a rostered player inside a team-season snapshot. Immutable once
// persisted for a past week.
type Player struct {
	ID           string        `bson:"id"`
	Name         string        `bson:"name,omitempty"`
	Position     string        `bson:"position"`                // raw, normalized on use
	AltPositions []string      `bson:"alt_positions,omitempty"` // raw alternates
	WeeklyScores []WeeklyScore `bson:"weekly_scores,omitempty"`
}

// ScoreForWeek returns the player's points for the given week, preferring the
// half-PPR variant and falling back to standard points. The second return is
// false when the player has no score recorded for that week.
func (p Player) ScoreForWeek(week int) (float64, bool) {
	for _, ws := range p.WeeklyScores {
		if ws.Week != week {
			continue
		}
		if ws.HalfPPR != nil {
			return *ws.HalfPPR, true
		}
		return ws.Standard, true
	}
	return 0, false
}

// SeasonRecord carries the source-of-truth season results and transaction
// counters for one team-season. These are imported facts, never derived here.
type SeasonRecord struct {
	Wins         int     `bson:"wins"`
	Losses       int     `bson:"losses"`
	Ties         int     `bson:"ties"`
	Championship bool    `bson:"championship,omitempty"`
	WaiverMoves  int     `bson:"waiver_moves,omitempty"`
	AuctionSpent float64 `bson:"auction_spent,omitempty"`
	Trades       int     `bson:"trades,omitempty"`
}

// TeamSnapshot is one team's roster for one season. OwnerID is the durable
// owner identity; TeamID can churn across seasons.
type TeamSnapshot struct {
	SeasonID string       `bson:"season_id"`
	TeamID   string       `bson:"team_id"`
	OwnerID  string       `bson:"owner_id,omitempty"`
	Name     string       `bson:"name,omitempty"`
	Roster   []Player     `bson:"roster,omitempty"`
	Record   SeasonRecord `bson:"record,omitempty"`
}

// MatchupEntry is one team's record for one (season, week): a write-once
// historical fact populated by the import pipeline.
type MatchupEntry struct {
	SeasonID         string             `bson:"season_id"`
	Week             int                `bson:"week"`
	MatchupID        string             `bson:"matchup_id"`
	RosterID         string             `bson:"roster_id"`
	OpponentRosterID string             `bson:"opponent_roster_id,omitempty"`
	Starters         []string           `bson:"starters,omitempty"`
	Players          []string           `bson:"players,omitempty"`      // full rostered pool that week
	PlayerPoints     map[string]float64 `bson:"player_points,omitempty"` // authoritative per-player map
	TotalPoints      *float64           `bson:"total_points,omitempty"`  // authoritative scalar total
}

// LineupConfiguration is the ordered multiset of raw slot tokens defining a
// legal starting lineup for a league-season. Bench/IR/taxi tokens may appear
// in imported configurations and are dropped by the taxonomy package.
type LineupConfiguration struct {
	SeasonID string   `bson:"season_id"`
	Slots    []string `bson:"slots,omitempty"`
}

// WeekEfficiencyResult is the derived per-team-week efficiency record.
type WeekEfficiencyResult struct {
	Week              int     `bson:"week"`
	ActualTotal       float64 `bson:"actual_total"`
	OptimalTotal      float64 `bson:"optimal_total"`
	ActualOffense     float64 `bson:"actual_offense"`
	OptimalOffense    float64 `bson:"optimal_offense"`
	ActualDefense     float64 `bson:"actual_defense"`
	OptimalDefense    float64 `bson:"optimal_defense"`
	ManagementPercent float64 `bson:"management_percent"`
	// LowConfidence marks results where the scalar-total fallback fired or the
	// optimal total was zero; the numbers are reported but should not be
	// treated as attributable per position.
	LowConfidence bool `bson:"low_confidence,omitempty"`
}

// PositionUsage accumulates how often and how productively an owner started
// players at one position.
type PositionUsage struct {
	Starts      int     `bson:"starts"`
	Points      float64 `bson:"points"`
	AvgPerStart float64 `bson:"avg_per_start"`
}

// H2HMatchDetail is one historical matchup between two owners, from the first
// owner's perspective.
type H2HMatchDetail struct {
	SeasonID          string  `bson:"season_id"`
	Week              int     `bson:"week"`
	MatchupID         string  `bson:"matchup_id"`
	RosterID          string  `bson:"roster_id"`
	OpponentRosterID  string  `bson:"opponent_roster_id"`
	Points            float64 `bson:"points"`
	OpponentPoints    float64 `bson:"opponent_points"`
	OptimalPoints     float64 `bson:"optimal_points"`
	ManagementPercent float64 `bson:"management_percent"`
	Result            string  `bson:"result"` // "win", "loss" or "tie"
}

// H2HStats accumulates one owner's history against a single opponent.
type H2HStats struct {
	Wins              int              `bson:"wins"`
	Losses            int              `bson:"losses"`
	Ties              int              `bson:"ties"`
	Games             int              `bson:"games"`
	PointsFor         float64          `bson:"points_for"`
	PointsAgainst     float64          `bson:"points_against"`
	ManagementPctSum  float64          `bson:"management_pct_sum"`
	Matches           []H2HMatchDetail `bson:"matches,omitempty"` // chronological
}

// PlayoffStats is the per-season playoff sub-record, split off from the
// regular-season aggregates at the season's playoff start week.
type PlayoffStats struct {
	Wins      int     `bson:"wins"`
	Losses    int     `bson:"losses"`
	Ties      int     `bson:"ties"`
	PointsFor float64 `bson:"points_for"`
}

// OwnerAggregate is the all-time record for one durable owner identity.
// It is rebuilt wholesale on every aggregation pass, never patched in place.
type OwnerAggregate struct {
	OwnerID       string `bson:"owner_id"`
	RunID         string `bson:"run_id"`         // uuid of the rebuild that produced this record
	SchemaVersion int    `bson:"schema_version"`

	SeasonIDs   []string `bson:"season_ids,omitempty"`
	WeeksPlayed int      `bson:"weeks_played"`

	PointsFor      float64 `bson:"points_for"`
	OptimalPoints  float64 `bson:"optimal_points"`
	OffensePoints  float64 `bson:"offense_points"`
	OptimalOffense float64 `bson:"optimal_offense"`
	DefensePoints  float64 `bson:"defense_points"`
	OptimalDefense float64 `bson:"optimal_defense"`

	Wins          int `bson:"wins"`
	Losses        int `bson:"losses"`
	Ties          int `bson:"ties"`
	Championships int `bson:"championships"`

	WaiverMoves  int     `bson:"waiver_moves"`
	AuctionSpent float64 `bson:"auction_spent"`
	Trades       int     `bson:"trades"`

	PositionUsage map[Position]*PositionUsage `bson:"position_usage,omitempty"`
	HeadToHead    map[string]*H2HStats        `bson:"head_to_head,omitempty"` // opposing owner id -> stats
	Playoffs      map[string]*PlayoffStats    `bson:"playoffs,omitempty"`     // season id -> stats

	LowConfidenceWeeks int `bson:"low_confidence_weeks,omitempty"`
}

// ManagementPercent returns the owner's all-time management percentage, or 0
// when no optimal points were accumulated.
func (a OwnerAggregate) ManagementPercent() float64 {
	if a.OptimalPoints <= 0 {
		return 0
	}
	return a.PointsFor / a.OptimalPoints * 100
}
