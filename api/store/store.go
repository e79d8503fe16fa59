/* store.go
 * Contains the store struct and NewStore function. The methods for this package are
 * split per concern: league.go (read-side league/season data), standings.go,
 * aggregates.go and schema.go (derived records and the schema-version flag)
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	LeagueID    string
	Collections struct {
		Teams      *mongo.Collection
		Matchups   *mongo.Collection
		Leagues    *mongo.Collection
		Standings  *mongo.Collection
		Aggregates *mongo.Collection
		Schema     *mongo.Collection
	}
}

// NewStore initialises the store and the db connection
// Preconditions: Receives strings containing dbName, mongoURI and leagueID
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(dbName string, mongoURI string, leagueID string) (*Store, error) {
	if dbName == "" || leagueID == "" {
		return nil, fmt.Errorf("dbName and leagueID cannot be empty")
	}

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
		LeagueID: leagueID,
	}
	s.Collections.Teams = db.Collection("team_snapshots")
	s.Collections.Matchups = db.Collection("matchup_entries")
	s.Collections.Leagues = db.Collection("league_settings")
	s.Collections.Standings = db.Collection("team_standings")
	s.Collections.Aggregates = db.Collection("owner_aggregates")
	s.Collections.Schema = db.Collection("schema_version")
	return s, nil
}
