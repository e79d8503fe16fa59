/* api.go
 * This file contains the public methods for interacting with this package. For
 * consistent results, callers should go through this file rather than the sub
 * packages for taxonomy, optimization and aggregation
 */

package api

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"rosteriq/api/aggregate"
	"rosteriq/api/efficiency"
	"rosteriq/api/migration"
	"rosteriq/api/shared"
	"rosteriq/api/store"
)

// API provides methods for interacting with the roster-efficiency data layer
type API struct {
	Store    store.Interface
	Calc     *efficiency.Calculator
	Agg      *aggregate.Aggregator
	Migrator *migration.Engine
}

// NewAPI creates a new API instance with the provided configuration
func NewAPI(dbName string, mongoURI string, leagueID string) (*API, error) {
	if dbName == "" || leagueID == "" {
		return nil, fmt.Errorf("dbName and leagueID are required")
	}

	s, err := store.NewStore(dbName, mongoURI, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return NewAPIWithStore(s), nil
}

// NewAPIWithStore wires an API over an existing store. Tests use this with a
// mock store.
func NewAPIWithStore(s store.Interface) *API {
	calc := efficiency.NewCalculator(s, nil)
	return &API{
		Store:    s,
		Calc:     calc,
		Agg:      aggregate.NewAggregator(calc),
		Migrator: migration.NewEngine(s, calc),
	}
}

// ComputeWeekEfficiency contains the logic to derive one team's lineup
// efficiency for a single week.
// It receives the season, the team id used in that season's matchup entries
// and the week number.
// It returns the derived result, or an error if it occurs.
func (a *API) ComputeWeekEfficiency(seasonID string, teamID string, week int) (shared.WeekEfficiencyResult, error) {
	team, err := a.teamSnapshot(seasonID, teamID)
	if err != nil {
		return shared.WeekEfficiencyResult{}, err
	}
	return a.Calc.ComputeWeek(team, week)
}

// ComputeSeasonEfficiency derives a team's week-by-week efficiency for a whole
// season. Weeks with insufficient data are omitted from the result rather than
// reported as zero-point weeks.
func (a *API) ComputeSeasonEfficiency(seasonID string, teamID string) ([]shared.WeekEfficiencyResult, error) {
	team, err := a.teamSnapshot(seasonID, teamID)
	if err != nil {
		return nil, err
	}

	var results []shared.WeekEfficiencyResult
	for week := 1; week <= shared.SeasonWeekCap; week++ {
		result, err := a.Calc.ComputeWeek(team, week)
		if err != nil {
			if errors.Is(err, efficiency.ErrInsufficientData) {
				continue
			}
			return nil, err
		}
		results = append(results, result)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("season %s team %s: %w", seasonID, teamID, efficiency.ErrInsufficientData)
	}
	return results, nil
}

// OwnerAggregate returns the stored all-time aggregate for an owner, accepting
// either the durable owner id or a display name.
// It returns the aggregate, or an error if no owner matches or the lookup fails.
func (a *API) OwnerAggregate(nameOrID string) (shared.OwnerAggregate, error) {
	ownerID, err := a.resolveOwner(nameOrID)
	if err != nil {
		return shared.OwnerAggregate{}, err
	}
	agg, err := a.Store.FetchOwnerAggregate(ownerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.OwnerAggregate{}, fmt.Errorf("no aggregate stored for owner %s; run a rebuild first", ownerID)
		}
		return shared.OwnerAggregate{}, err
	}
	return agg, nil
}

// HeadToHead returns one owner's head-to-head record against another, both
// resolvable by id or display name.
func (a *API) HeadToHead(nameOrID string, opponentNameOrID string) (shared.H2HStats, error) {
	agg, err := a.OwnerAggregate(nameOrID)
	if err != nil {
		return shared.H2HStats{}, err
	}
	opponentID, err := a.resolveOwner(opponentNameOrID)
	if err != nil {
		return shared.H2HStats{}, err
	}
	stats, ok := agg.HeadToHead[opponentID]
	if !ok || stats == nil {
		return shared.H2HStats{}, fmt.Errorf("owners %s and %s have never met", agg.OwnerID, opponentID)
	}
	return *stats, nil
}

// RebuildAllAggregates recomputes every owner's all-time aggregate from scratch
// across all stored seasons and persists the results.
// It returns the number of owners rebuilt, or an error if it occurs.
func (a *API) RebuildAllAggregates() (int, error) {
	seasons, err := a.Store.Seasons()
	if err != nil {
		return 0, fmt.Errorf("failed to list seasons: %w", err)
	}
	if len(seasons) == 0 {
		return 0, fmt.Errorf("no seasons stored")
	}

	aggs, err := a.Agg.AggregateAll(seasons)
	if err != nil {
		return 0, err
	}
	for _, agg := range aggs {
		if err := a.Store.SaveOwnerAggregate(agg); err != nil {
			return 0, fmt.Errorf("failed to persist aggregate for owner %s: %w", agg.OwnerID, err)
		}
	}
	return len(aggs), nil
}

// Migrate brings the persisted schema up to the current version. Safe to call
// on every startup.
func (a *API) Migrate(ctx context.Context) error {
	return a.Migrator.Migrate(ctx)
}

// Close disconnects the underlying database client
func (a *API) Close(ctx context.Context) error {
	return a.Store.GetClient().Disconnect(ctx)
}

// teamSnapshot finds one season's snapshot for a team id.
func (a *API) teamSnapshot(seasonID string, teamID string) (shared.TeamSnapshot, error) {
	teams, err := a.Store.Teams(seasonID)
	if err != nil {
		return shared.TeamSnapshot{}, fmt.Errorf("failed to load teams: %w", err)
	}
	for _, t := range teams {
		if t.TeamID == teamID {
			return t, nil
		}
	}
	return shared.TeamSnapshot{}, fmt.Errorf("no team %s in season %s", teamID, seasonID)
}

// resolveOwner maps a display name or id to the durable owner id using the
// identities found across all stored seasons.
func (a *API) resolveOwner(nameOrID string) (string, error) {
	seasons, err := a.Store.Seasons()
	if err != nil {
		return "", fmt.Errorf("failed to list seasons: %w", err)
	}

	resolver := aggregate.NewIdentityResolver(nil)
	knownIDs := make(map[string]bool)
	for _, seasonID := range seasons {
		teams, err := a.Store.Teams(seasonID)
		if err != nil {
			return "", fmt.Errorf("failed to load teams for season %s: %w", seasonID, err)
		}
		for _, t := range teams {
			if t.OwnerID == "" {
				continue
			}
			knownIDs[t.OwnerID] = true
			if t.Name != "" {
				resolver.AddAlias(t.OwnerID, t.Name)
			}
		}
	}

	if knownIDs[nameOrID] {
		return nameOrID, nil
	}
	ownerID := resolver.ResolveOwner("", nameOrID)
	if ownerID == "" {
		return "", fmt.Errorf("no owner matches '%s'", nameOrID)
	}
	return ownerID, nil
}
