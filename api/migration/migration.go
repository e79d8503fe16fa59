/* migration.go
 * Contains the schema-migration engine. On startup (and on demand) it compares
 * the persisted schema version against the current one and, when behind, walks
 * every season's standings regenerating the derived efficiency fields, then
 * advances the version flag with a compare-and-set so concurrent migrators
 * cannot duplicate the pass
 */

package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"rosteriq/api/efficiency"
	"rosteriq/api/shared"
	"rosteriq/api/store"
)

// defaultWriteRate paces standing write-backs so a full-history migration does
// not saturate the shared database during startup.
const defaultWriteRate = rate.Limit(25)

// Engine performs idempotent schema migrations over the persisted standings.
type Engine struct {
	Store   store.Interface
	Calc    *efficiency.Calculator
	limiter *rate.Limiter
}

// NewEngine creates a migration engine over the given store. The calculator is
// shared with the rest of the system so migrated records and live computations
// always agree.
func NewEngine(st store.Interface, calc *efficiency.Calculator) *Engine {
	return &Engine{
		Store:   st,
		Calc:    calc,
		limiter: rate.NewLimiter(defaultWriteRate, 1),
	}
}

// Migrate brings every persisted standing up to the current schema version.
// Preconditions: The store is connected and holds the imported league history
// Postconditions: Every standing either already had its derived fields (and was
// left alone apart from extended-field defaulting) or has been recomputed from
// matchup history; the version flag is advanced exactly once across all
// concurrent migrators and legacy caches are dropped by whichever migrator
// performed the bump
func (e *Engine) Migrate(ctx context.Context) error {
	from, err := e.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if from >= shared.CurrentSchemaVersion {
		slog.Info("schema already current", "version", from)
		return nil
	}
	slog.Info("starting schema migration", "from", from, "to", shared.CurrentSchemaVersion)

	seasons, err := e.Store.Seasons()
	if err != nil {
		return fmt.Errorf("failed to list seasons: %w", err)
	}

	migrated, skipped := 0, 0
	for _, seasonID := range seasons {
		m, s, err := e.migrateSeason(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("failed to migrate season %s: %w", seasonID, err)
		}
		migrated += m
		skipped += s
	}

	bumped, err := e.Store.BumpSchemaVersion(from, shared.CurrentSchemaVersion)
	if err != nil {
		return fmt.Errorf("failed to advance schema version: %w", err)
	}
	if bumped {
		if err := e.Store.DropLegacyCaches(); err != nil {
			return fmt.Errorf("failed to drop legacy caches: %w", err)
		}
	}

	slog.Info("schema migration complete",
		"migrated", migrated, "skipped", skipped, "bumped", bumped)
	return nil
}

// migrateSeason walks one season's standings. Records that already carry their
// derived fields are skipped; writes only happen when something changed, so an
// interrupted run resumes without redoing finished records.
func (e *Engine) migrateSeason(ctx context.Context, seasonID string) (migrated, skipped int, err error) {
	standings, err := e.Store.FetchTeamStandings(seasonID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch standings: %w", err)
	}

	var teams []shared.TeamSnapshot
	for i := range standings {
		standing := &standings[i]

		if standing.HasDerivedFields() {
			if !standing.DefaultExtended() {
				skipped++
				continue
			}
			if err := e.saveStanding(ctx, *standing); err != nil {
				return migrated, skipped, err
			}
			migrated++
			continue
		}

		if teams == nil {
			teams, err = e.Store.Teams(seasonID)
			if err != nil {
				return migrated, skipped, fmt.Errorf("failed to load teams: %w", err)
			}
		}
		if err := e.recompute(standing, teams); err != nil {
			if errors.Is(err, efficiency.ErrInsufficientData) {
				// No history to derive from; the record keeps its source fields.
				slog.Warn("standing has no derivable history",
					"season", seasonID, "team", standing.TeamID)
				skipped++
				continue
			}
			return migrated, skipped, err
		}
		if err := e.saveStanding(ctx, *standing); err != nil {
			return migrated, skipped, err
		}
		migrated++
	}
	return migrated, skipped, nil
}

// recompute regenerates a standing's derived fields from its season's matchup
// history, week by week through the shared calculator.
func (e *Engine) recompute(standing *store.TeamStanding, teams []shared.TeamSnapshot) error {
	var team *shared.TeamSnapshot
	for i := range teams {
		if teams[i].TeamID == standing.TeamID {
			team = &teams[i]
			break
		}
	}
	if team == nil {
		return fmt.Errorf("no snapshot for team %s: %w", standing.TeamID, efficiency.ErrInsufficientData)
	}

	standing.OffensiveMax = 0
	standing.DefensiveMax = 0
	standing.DefaultExtended()
	standing.Extended.WeeklyEfficiency = standing.Extended.WeeklyEfficiency[:0]
	standing.Extended.LowConfidenceWeeks = 0

	actualOffense, actualDefense := 0.0, 0.0
	weeksSeen := 0
	for week := 1; week <= shared.SeasonWeekCap; week++ {
		result, err := e.Calc.ComputeWeek(*team, week)
		if err != nil {
			if errors.Is(err, efficiency.ErrInsufficientData) {
				continue
			}
			return fmt.Errorf("week %d: %w", week, err)
		}
		weeksSeen++

		standing.OffensiveMax += result.OptimalOffense
		standing.DefensiveMax += result.OptimalDefense
		actualOffense += result.ActualOffense
		actualDefense += result.ActualDefense
		standing.Extended.WeeklyEfficiency = append(standing.Extended.WeeklyEfficiency, result)
		if result.LowConfidence {
			standing.Extended.LowConfidenceWeeks++
		}
	}
	if weeksSeen == 0 {
		return fmt.Errorf("season %s team %s: %w", standing.SeasonID, standing.TeamID, efficiency.ErrInsufficientData)
	}

	if standing.OffensiveMax > 0 {
		standing.OffensiveManagementPercent = actualOffense / standing.OffensiveMax * 100
	}
	if standing.DefensiveMax > 0 {
		standing.DefensiveManagementPercent = actualDefense / standing.DefensiveMax * 100
	}
	standing.SchemaVersion = shared.CurrentSchemaVersion
	return nil
}

// saveStanding writes one record back, paced by the engine's rate limiter.
func (e *Engine) saveStanding(ctx context.Context, standing store.TeamStanding) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("migration interrupted: %w", err)
	}
	if err := e.Store.SaveTeamStanding(standing); err != nil {
		return fmt.Errorf("failed to save standing for team %s: %w", standing.TeamID, err)
	}
	return nil
}
