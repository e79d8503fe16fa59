/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"context"

	"rosteriq/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests. It is a superset of
// efficiency.LeagueStore, so a Store (or mock) can back the calculator and
// aggregator directly.
type Interface interface {
	// Read-side league data
	Teams(seasonID string) ([]shared.TeamSnapshot, error)
	MatchupEntries(seasonID string, week int) ([]shared.MatchupEntry, error)
	LineupConfiguration(seasonID string) (shared.LineupConfiguration, error)
	PlayoffStartWeek(seasonID string) (int, error)
	Seasons() ([]string, error)

	// Derived records
	FetchTeamStandings(seasonID string) ([]TeamStanding, error)
	SaveTeamStanding(standing TeamStanding) error
	FetchOwnerAggregate(ownerID string) (shared.OwnerAggregate, error)
	SaveOwnerAggregate(agg shared.OwnerAggregate) error

	// Schema versioning
	SchemaVersion() (int, error)
	BumpSchemaVersion(from, to int) (bool, error)
	DropLegacyCaches() error

	// Getter methods for accessing fields
	GetLeagueID() string
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetLeagueID returns the league this store is scoped to
func (s *Store) GetLeagueID() string {
	return s.LeagueID
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
