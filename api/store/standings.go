/* standings.go
 * Contains the methods for interacting with the team_standings collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FetchTeamStandings returns every persisted standing for a season
// Preconditions: Receives the season id
// Postconditions: Returns the standings in team-id order, or an error if it occurs
func (s *Store) FetchTeamStandings(seasonID string) ([]TeamStanding, error) {
	opts := options.Find().SetSort(bson.D{{Key: "team_id", Value: 1}})
	cursor, err := s.Collections.Standings.Find(context.TODO(),
		bson.D{{Key: "league_id", Value: s.LeagueID}, {Key: "season_id", Value: seasonID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team standings: %w", err)
	}
	var standings []TeamStanding
	if err := cursor.All(context.TODO(), &standings); err != nil {
		return nil, fmt.Errorf("failed to decode team standings: %w", err)
	}
	return standings, nil
}

// SaveTeamStanding writes one standing back as a whole record
// Preconditions: Receives the fully populated TeamStanding
// Postconditions: Replaces the stored record (insert if new) and returns nil,
// or an error if it occurs
func (s *Store) SaveTeamStanding(standing TeamStanding) error {
	standing.LeagueID = s.LeagueID
	filter := bson.M{
		"league_id": s.LeagueID,
		"season_id": standing.SeasonID,
		"team_id":   standing.TeamID,
	}

	// Whole-record replace keeps the read-modify-write atomic per record.
	var existing TeamStanding
	err := s.Collections.Standings.FindOne(context.TODO(), filter).Decode(&existing)
	notFound := errors.Is(err, mongo.ErrNoDocuments)
	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing standing failed: %w", err)
	}

	if notFound {
		if _, err := s.Collections.Standings.InsertOne(context.TODO(), standing); err != nil {
			return fmt.Errorf("failed to insert team standing: %w", err)
		}
		return nil
	}

	standing.ID = existing.ID
	if _, err := s.Collections.Standings.ReplaceOne(context.TODO(), filter, standing); err != nil {
		return fmt.Errorf("failed to replace team standing: %w", err)
	}
	return nil
}
