/* models.go
 * Contains the structs and helper functions that relate to DB objects: the persisted
 * team-standing record with its derived efficiency fields, the extended stats block
 * and the schema-version document
 */

package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rosteriq/api/shared"
	"rosteriq/api/taxonomy"
)

// ExtendedStats is the later-generation block of derived fields on a standing.
// Records migrated from old schema versions may be missing it entirely.
type ExtendedStats struct {
	PositionUsage      map[shared.Position]*shared.PositionUsage `bson:"position_usage,omitempty"`
	WeeklyEfficiency   []shared.WeekEfficiencyResult             `bson:"weekly_efficiency,omitempty"`
	LowConfidenceWeeks int                                       `bson:"low_confidence_weeks,omitempty"`
}

// TeamStanding is the persisted per-team-season record the migration engine
// maintains. The source fields come from the import pipeline; everything from
// OffensiveMax down is derived by this engine and versioned.
type TeamStanding struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	LeagueID string             `bson:"league_id,omitempty"`
	SeasonID string             `bson:"season_id"`
	TeamID   string             `bson:"team_id"`
	OwnerID  string             `bson:"owner_id,omitempty"`
	TeamName string             `bson:"team_name,omitempty"`

	Wins          int     `bson:"wins"`
	Losses        int     `bson:"losses"`
	Ties          int     `bson:"ties"`
	PointsFor     float64 `bson:"points_for"`
	PointsAgainst float64 `bson:"points_against"`

	// Derived fields, regenerated whenever the schema version bumps.
	OffensiveMax               float64 `bson:"offensive_max"`
	DefensiveMax               float64 `bson:"defensive_max"`
	OffensiveManagementPercent float64 `bson:"offensive_management_percent"`
	DefensiveManagementPercent float64 `bson:"defensive_management_percent"`

	Extended *ExtendedStats `bson:"extended,omitempty"`

	SchemaVersion int `bson:"schema_version"`
}

// HasDerivedFields reports whether every derived field is populated and
// non-zero. This is the single idempotence check the migration engine uses:
// records passing it are left alone apart from extended-field defaulting.
// Leagues without IDP slots derive zero defense and so always take the
// recompute path; the version flag keeps that from repeating between bumps.
func (t TeamStanding) HasDerivedFields() bool {
	return t.OffensiveMax != 0 &&
		t.DefensiveMax != 0 &&
		t.OffensiveManagementPercent != 0 &&
		t.DefensiveManagementPercent != 0 &&
		t.Extended != nil
}

// DefaultExtended fills any still-missing extended fields with empty values.
// It returns true when something was actually defaulted.
func (t *TeamStanding) DefaultExtended() bool {
	changed := false
	if t.Extended == nil {
		t.Extended = &ExtendedStats{}
		changed = true
	}
	if t.Extended.PositionUsage == nil {
		t.Extended.PositionUsage = map[shared.Position]*shared.PositionUsage{}
		changed = true
	}
	if t.Extended.WeeklyEfficiency == nil {
		t.Extended.WeeklyEfficiency = []shared.WeekEfficiencyResult{}
		changed = true
	}
	return changed
}

// leagueSettings is the per-season league configuration document. Imports from
// older seasons store the lineup as one string (LineupConfig); newer imports
// store the token list directly.
type leagueSettings struct {
	LeagueID         string   `bson:"league_id"`
	SeasonID         string   `bson:"season_id"`
	LineupSlots      []string `bson:"lineup_slots,omitempty"`
	LineupConfig     string   `bson:"lineup_config,omitempty"`
	PlayoffStartWeek int      `bson:"playoff_start_week,omitempty"`
}

// slotTokens returns the season's lineup-slot tokens, parsing the string-form
// configuration when no token list was imported.
func (l leagueSettings) slotTokens() ([]string, error) {
	if len(l.LineupSlots) > 0 {
		return l.LineupSlots, nil
	}
	if l.LineupConfig == "" {
		return nil, nil
	}
	return taxonomy.SplitLineupTokens(l.LineupConfig)
}

// schemaVersionDoc is the single-document version flag guarding migration.
type schemaVersionDoc struct {
	LeagueID string `bson:"league_id"`
	Version  int    `bson:"version"`
}

// legacyCacheCollections are the ad-hoc caches that predate the versioned
// model; they are dropped whenever the version counter is bumped.
var legacyCacheCollections = []string{
	"efficiency_cache",
	"alltime_cache",
}
