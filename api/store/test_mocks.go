/* test_mocks.go
 * Contains the in-memory mock store used by tests across packages. It
 * implements Interface over plain maps, with per-method error injection for
 * exercising error paths
 */

package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"rosteriq/api/shared"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	TeamsBySeason   map[string][]shared.TeamSnapshot
	EntriesBySeason map[string]map[int][]shared.MatchupEntry
	Configs         map[string]shared.LineupConfiguration
	PlayoffStarts   map[string]int
	SeasonList      []string
	Standings       map[string][]TeamStanding
	Aggregates      map[string]shared.OwnerAggregate
	Version         int

	// Write observation for idempotence assertions
	SavedStandings  []TeamStanding
	SavedAggregates []shared.OwnerAggregate
	CachesDropped   int

	// Error injection for testing error paths
	TeamsError             error
	MatchupEntriesError    error
	LineupConfigError      error
	PlayoffStartWeekError  error
	SeasonsError           error
	FetchStandingsError    error
	SaveStandingError      error
	FetchAggregateError    error
	SaveAggregateError     error
	SchemaVersionError     error
	BumpSchemaVersionError error
	DropLegacyCachesError  error

	LeagueID string
}

// mockClient satisfies the client getter without a live connection.
type mockClient struct{}

func (mockClient) Disconnect(context.Context) error { return nil }

// NewMockStore creates a new MockStore with empty collections
func NewMockStore(leagueID string) *MockStore {
	return &MockStore{
		TeamsBySeason:   make(map[string][]shared.TeamSnapshot),
		EntriesBySeason: make(map[string]map[int][]shared.MatchupEntry),
		Configs:         make(map[string]shared.LineupConfiguration),
		PlayoffStarts:   make(map[string]int),
		Standings:       make(map[string][]TeamStanding),
		Aggregates:      make(map[string]shared.OwnerAggregate),
		LeagueID:        leagueID,
	}
}

// AddEntries registers a season/week's matchup entries
func (m *MockStore) AddEntries(seasonID string, week int, entries []shared.MatchupEntry) {
	if m.EntriesBySeason[seasonID] == nil {
		m.EntriesBySeason[seasonID] = make(map[int][]shared.MatchupEntry)
	}
	m.EntriesBySeason[seasonID][week] = entries
}

// Teams mock implementation
func (m *MockStore) Teams(seasonID string) ([]shared.TeamSnapshot, error) {
	if m.TeamsError != nil {
		return nil, m.TeamsError
	}
	return m.TeamsBySeason[seasonID], nil
}

// MatchupEntries mock implementation
func (m *MockStore) MatchupEntries(seasonID string, week int) ([]shared.MatchupEntry, error) {
	if m.MatchupEntriesError != nil {
		return nil, m.MatchupEntriesError
	}
	return m.EntriesBySeason[seasonID][week], nil
}

// LineupConfiguration mock implementation
func (m *MockStore) LineupConfiguration(seasonID string) (shared.LineupConfiguration, error) {
	if m.LineupConfigError != nil {
		return shared.LineupConfiguration{}, m.LineupConfigError
	}
	return m.Configs[seasonID], nil
}

// PlayoffStartWeek mock implementation
func (m *MockStore) PlayoffStartWeek(seasonID string) (int, error) {
	if m.PlayoffStartWeekError != nil {
		return 0, m.PlayoffStartWeekError
	}
	return m.PlayoffStarts[seasonID], nil
}

// Seasons mock implementation
func (m *MockStore) Seasons() ([]string, error) {
	if m.SeasonsError != nil {
		return nil, m.SeasonsError
	}
	return m.SeasonList, nil
}

// FetchTeamStandings mock implementation
func (m *MockStore) FetchTeamStandings(seasonID string) ([]TeamStanding, error) {
	if m.FetchStandingsError != nil {
		return nil, m.FetchStandingsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TeamStanding, len(m.Standings[seasonID]))
	copy(out, m.Standings[seasonID])
	return out, nil
}

// SaveTeamStanding mock implementation
func (m *MockStore) SaveTeamStanding(standing TeamStanding) error {
	if m.SaveStandingError != nil {
		return m.SaveStandingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavedStandings = append(m.SavedStandings, standing)
	list := m.Standings[standing.SeasonID]
	for i := range list {
		if list[i].TeamID == standing.TeamID {
			list[i] = standing
			return nil
		}
	}
	m.Standings[standing.SeasonID] = append(list, standing)
	return nil
}

// FetchOwnerAggregate mock implementation
func (m *MockStore) FetchOwnerAggregate(ownerID string) (shared.OwnerAggregate, error) {
	if m.FetchAggregateError != nil {
		return shared.OwnerAggregate{}, m.FetchAggregateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	agg, ok := m.Aggregates[ownerID]
	if !ok {
		return shared.OwnerAggregate{}, mongo.ErrNoDocuments
	}
	return agg, nil
}

// SaveOwnerAggregate mock implementation
func (m *MockStore) SaveOwnerAggregate(agg shared.OwnerAggregate) error {
	if m.SaveAggregateError != nil {
		return m.SaveAggregateError
	}
	if agg.OwnerID == "" {
		return fmt.Errorf("owner aggregate is missing an owner id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavedAggregates = append(m.SavedAggregates, agg)
	m.Aggregates[agg.OwnerID] = agg
	return nil
}

// SchemaVersion mock implementation
func (m *MockStore) SchemaVersion() (int, error) {
	if m.SchemaVersionError != nil {
		return 0, m.SchemaVersionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Version, nil
}

// BumpSchemaVersion mock implementation
func (m *MockStore) BumpSchemaVersion(from, to int) (bool, error) {
	if m.BumpSchemaVersionError != nil {
		return false, m.BumpSchemaVersionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Version != from {
		return false, nil
	}
	m.Version = to
	return true, nil
}

// DropLegacyCaches mock implementation
func (m *MockStore) DropLegacyCaches() error {
	if m.DropLegacyCachesError != nil {
		return m.DropLegacyCachesError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CachesDropped++
	return nil
}

// GetLeagueID mock implementation
func (m *MockStore) GetLeagueID() string {
	return m.LeagueID
}

// GetClient mock implementation
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return mockClient{}
}

// Ensure MockStore implements Interface
var _ Interface = (*MockStore)(nil)
