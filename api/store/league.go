/* league.go
 * Contains the read-side methods over imported league data: team snapshots,
 * matchup entries and per-season league settings. These satisfy the
 * efficiency.LeagueStore interface so the calculator and aggregator can run
 * directly against the store
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rosteriq/api/shared"
)

// Teams returns every team snapshot for a season
// Preconditions: Receives the season id
// Postconditions: Returns the snapshots in team-id order, or an error if it occurs
func (s *Store) Teams(seasonID string) ([]shared.TeamSnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "team_id", Value: 1}})
	cursor, err := s.Collections.Teams.Find(context.TODO(),
		bson.D{{Key: "league_id", Value: s.LeagueID}, {Key: "season_id", Value: seasonID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team snapshots: %w", err)
	}
	var teams []shared.TeamSnapshot
	if err := cursor.All(context.TODO(), &teams); err != nil {
		return nil, fmt.Errorf("failed to decode team snapshots: %w", err)
	}
	return teams, nil
}

// MatchupEntries returns every matchup entry for a season/week
// Preconditions: Receives the season id and week number
// Postconditions: Returns the entries in roster-id order, or an error if it occurs
func (s *Store) MatchupEntries(seasonID string, week int) ([]shared.MatchupEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "roster_id", Value: 1}})
	cursor, err := s.Collections.Matchups.Find(context.TODO(),
		bson.D{
			{Key: "league_id", Value: s.LeagueID},
			{Key: "season_id", Value: seasonID},
			{Key: "week", Value: week},
		}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matchup entries: %w", err)
	}
	var entries []shared.MatchupEntry
	if err := cursor.All(context.TODO(), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode matchup entries: %w", err)
	}
	return entries, nil
}

// LineupConfiguration returns the season's lineup configuration, parsing
// string-form settings documents from older imports. A season with no settings
// document yields an empty configuration; the calculator falls back to roster
// inference in that case rather than failing here.
func (s *Store) LineupConfiguration(seasonID string) (shared.LineupConfiguration, error) {
	var settings leagueSettings
	err := s.Collections.Leagues.FindOne(context.TODO(),
		bson.D{{Key: "league_id", Value: s.LeagueID}, {Key: "season_id", Value: seasonID}}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.LineupConfiguration{SeasonID: seasonID}, nil
		}
		return shared.LineupConfiguration{}, fmt.Errorf("failed to fetch league settings: %w", err)
	}
	tokens, err := settings.slotTokens()
	if err != nil {
		return shared.LineupConfiguration{}, fmt.Errorf("failed to parse lineup configuration for season %s: %w", seasonID, err)
	}
	return shared.LineupConfiguration{SeasonID: seasonID, Slots: tokens}, nil
}

// PlayoffStartWeek returns the first playoff week for a season, or 0 when the
// season has no recorded playoff boundary.
func (s *Store) PlayoffStartWeek(seasonID string) (int, error) {
	var settings leagueSettings
	err := s.Collections.Leagues.FindOne(context.TODO(),
		bson.D{{Key: "league_id", Value: s.LeagueID}, {Key: "season_id", Value: seasonID}}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch league settings: %w", err)
	}
	return settings.PlayoffStartWeek, nil
}

// Seasons returns the distinct season ids recorded for this league, sorted
// ascending so aggregation and migration walk history in order.
func (s *Store) Seasons() ([]string, error) {
	raw, err := s.Collections.Teams.Distinct(context.TODO(), "season_id",
		bson.D{{Key: "league_id", Value: s.LeagueID}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seasons: %w", err)
	}
	seasons := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			seasons = append(seasons, id)
		}
	}
	sort.Strings(seasons)
	return seasons, nil
}
