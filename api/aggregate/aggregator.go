/* aggregator.go
 * Contains the season/all-time aggregator: rolls per-week efficiency results up
 * into one OwnerAggregate per durable owner identity, including head-to-head
 * histories between owner pairs. Aggregates are rebuilt wholesale on every pass,
 * never patched incrementally, so they always reflect the current rules version
 */

package aggregate

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"rosteriq/api/efficiency"
	"rosteriq/api/resolver"
	"rosteriq/api/shared"
	"rosteriq/api/taxonomy"
)

// Aggregator computes owner aggregates across seasons.
type Aggregator struct {
	League efficiency.LeagueStore
	Calc   *efficiency.Calculator
}

// NewAggregator creates an Aggregator sharing the calculator's league store.
func NewAggregator(calc *efficiency.Calculator) *Aggregator {
	return &Aggregator{League: calc.League, Calc: calc}
}

// AggregateOwner rebuilds one owner's all-time aggregate across the given
// seasons. Weeks with insufficient data are skipped rather than counted as
// zero-point weeks.
func (a *Aggregator) AggregateOwner(ownerID string, seasons []string) (shared.OwnerAggregate, error) {
	agg := newAggregate(ownerID)

	for _, seasonID := range seasons {
		if err := a.accumulateSeason(&agg, ownerID, seasonID); err != nil {
			return shared.OwnerAggregate{}, fmt.Errorf("failed to aggregate season %s for owner %s: %w", seasonID, ownerID, err)
		}
	}

	finalize(&agg)
	return agg, nil
}

// AggregateAll rebuilds every owner found in the given seasons. Owners are
// independent, so the fan-out runs one goroutine per owner and merges the
// results; an error from any owner fails the whole pass.
func (a *Aggregator) AggregateAll(seasons []string) (map[string]shared.OwnerAggregate, error) {
	owners, err := a.ownersIn(seasons)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		out  = make(map[string]shared.OwnerAggregate, len(owners))
		errs []error
	)
	for _, ownerID := range owners {
		wg.Add(1)
		go func(ownerID string) {
			defer wg.Done()
			agg, err := a.AggregateOwner(ownerID, seasons)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			out[ownerID] = agg
		}(ownerID)
	}
	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}
	slog.Info("rebuilt owner aggregates", "owners", len(out), "seasons", len(seasons))
	return out, nil
}

func newAggregate(ownerID string) shared.OwnerAggregate {
	return shared.OwnerAggregate{
		OwnerID:       ownerID,
		RunID:         uuid.NewString(),
		SchemaVersion: shared.CurrentSchemaVersion,
		PositionUsage: make(map[shared.Position]*shared.PositionUsage),
		HeadToHead:    make(map[string]*shared.H2HStats),
		Playoffs:      make(map[string]*shared.PlayoffStats),
	}
}

func (a *Aggregator) accumulateSeason(agg *shared.OwnerAggregate, ownerID, seasonID string) error {
	teams, err := a.League.Teams(seasonID)
	if err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}

	ownerByRoster := make(map[string]string, len(teams))
	for _, t := range teams {
		ownerByRoster[t.TeamID] = t.OwnerID
	}

	playoffStart, err := a.League.PlayoffStartWeek(seasonID)
	if err != nil {
		return fmt.Errorf("failed to load playoff start week: %w", err)
	}

	owned := false
	for _, team := range teams {
		if team.OwnerID != ownerID {
			continue
		}
		owned = true

		// Season record and transaction counters carry through unchanged.
		agg.Wins += team.Record.Wins
		agg.Losses += team.Record.Losses
		agg.Ties += team.Record.Ties
		if team.Record.Championship {
			agg.Championships++
		}
		agg.WaiverMoves += team.Record.WaiverMoves
		agg.AuctionSpent += team.Record.AuctionSpent
		agg.Trades += team.Record.Trades

		if err := a.accumulateWeeks(agg, team, playoffStart, ownerByRoster); err != nil {
			return err
		}
	}
	if owned {
		agg.SeasonIDs = append(agg.SeasonIDs, seasonID)
	}
	return nil
}

func (a *Aggregator) accumulateWeeks(agg *shared.OwnerAggregate, team shared.TeamSnapshot, playoffStart int, ownerByRoster map[string]string) error {
	for week := 1; week <= shared.SeasonWeekCap; week++ {
		entries, err := a.League.MatchupEntries(team.SeasonID, week)
		if err != nil {
			return fmt.Errorf("failed to load matchup entries: %w", err)
		}
		var entry, opponent *shared.MatchupEntry
		for i := range entries {
			if entries[i].RosterID == team.TeamID {
				entry = &entries[i]
			}
		}
		if entry == nil {
			continue
		}
		for i := range entries {
			if entries[i].MatchupID == entry.MatchupID && entries[i].RosterID != entry.RosterID {
				opponent = &entries[i]
			}
		}

		result, err := a.Calc.ComputeEntry(team, *entry)
		if err != nil {
			// A week with no resolvable data is skipped, not zeroed.
			slog.Warn("skipping week with insufficient data",
				"season", team.SeasonID, "team", team.TeamID, "week", week)
			continue
		}

		if playoffStart > 0 && week >= playoffStart {
			a.accumulatePlayoffWeek(agg, team, result, opponent)
			continue
		}

		agg.WeeksPlayed++
		agg.PointsFor += result.ActualTotal
		agg.OptimalPoints += result.OptimalTotal
		agg.OffensePoints += result.ActualOffense
		agg.OptimalOffense += result.OptimalOffense
		agg.DefensePoints += result.ActualDefense
		agg.OptimalDefense += result.OptimalDefense
		if result.LowConfidence {
			agg.LowConfidenceWeeks++
		}

		a.accumulateUsage(agg, team, *entry)

		if opponent != nil {
			a.accumulateH2H(agg, team, *entry, *opponent, result, ownerByRoster)
		}
	}
	return nil
}

func (a *Aggregator) accumulatePlayoffWeek(agg *shared.OwnerAggregate, team shared.TeamSnapshot, result shared.WeekEfficiencyResult, opponent *shared.MatchupEntry) {
	ps, ok := agg.Playoffs[team.SeasonID]
	if !ok {
		ps = &shared.PlayoffStats{}
		agg.Playoffs[team.SeasonID] = ps
	}
	ps.PointsFor += result.ActualTotal
	if opponent == nil {
		return
	}
	opPoints, ok := a.opponentPoints(team, *opponent)
	if !ok {
		return
	}
	switch {
	case result.ActualTotal > opPoints:
		ps.Wins++
	case result.ActualTotal < opPoints:
		ps.Losses++
	default:
		ps.Ties++
	}
}

// accumulateUsage counts starts and points per credited position for the
// owner's actual starters. Points come from the same resolution chain the
// calculator uses, so usage totals and PointsFor agree on every source.
func (a *Aggregator) accumulateUsage(agg *shared.OwnerAggregate, team shared.TeamSnapshot, entry shared.MatchupEntry) {
	byID := make(map[string]shared.Player, len(team.Roster))
	for _, p := range team.Roster {
		byID[p.ID] = p
	}
	res := resolver.Resolve(entry, team.Roster, entry.Week, nil)
	for _, id := range entry.Starters {
		p, ok := byID[id]
		if !ok {
			continue
		}
		pos := taxonomy.Normalize(p.Position)
		if pos == shared.UNKNOWN {
			continue
		}
		usage, ok := agg.PositionUsage[pos]
		if !ok {
			usage = &shared.PositionUsage{}
			agg.PositionUsage[pos] = usage
		}
		usage.Starts++
		usage.Points += res.Scores[id]
	}
}

func (a *Aggregator) accumulateH2H(agg *shared.OwnerAggregate, team shared.TeamSnapshot, entry, opponent shared.MatchupEntry, result shared.WeekEfficiencyResult, ownerByRoster map[string]string) {
	opOwner := ownerByRoster[opponent.RosterID]
	if opOwner == "" || opOwner == agg.OwnerID {
		return
	}
	opPoints, ok := a.opponentPoints(team, opponent)
	if !ok {
		return
	}

	stats, found := agg.HeadToHead[opOwner]
	if !found {
		stats = &shared.H2HStats{}
		agg.HeadToHead[opOwner] = stats
	}

	outcome := "tie"
	switch {
	case result.ActualTotal > opPoints:
		outcome = "win"
		stats.Wins++
	case result.ActualTotal < opPoints:
		outcome = "loss"
		stats.Losses++
	default:
		stats.Ties++
	}
	stats.Games++
	stats.PointsFor += result.ActualTotal
	stats.PointsAgainst += opPoints
	stats.ManagementPctSum += result.ManagementPercent
	stats.Matches = append(stats.Matches, shared.H2HMatchDetail{
		SeasonID:          team.SeasonID,
		Week:              entry.Week,
		MatchupID:         entry.MatchupID,
		RosterID:          entry.RosterID,
		OpponentRosterID:  opponent.RosterID,
		Points:            result.ActualTotal,
		OpponentPoints:    opPoints,
		OptimalPoints:     result.OptimalTotal,
		ManagementPercent: result.ManagementPercent,
		Result:            outcome,
	})
}

// opponentPoints resolves the opposing side's actual total, preferring the
// authoritative scalar and falling back to the per-player map sum.
func (a *Aggregator) opponentPoints(team shared.TeamSnapshot, opponent shared.MatchupEntry) (float64, bool) {
	if opponent.TotalPoints != nil {
		return *opponent.TotalPoints, true
	}
	if len(opponent.PlayerPoints) > 0 {
		sum := 0.0
		for _, id := range opponent.Starters {
			sum += opponent.PlayerPoints[id]
		}
		return sum, true
	}
	// Full resolution through the opponent's own roster snapshot.
	teams, err := a.League.Teams(team.SeasonID)
	if err != nil {
		return 0, false
	}
	for _, t := range teams {
		if t.TeamID != opponent.RosterID {
			continue
		}
		res, err := a.Calc.ComputeEntry(t, opponent)
		if err != nil {
			return 0, false
		}
		return res.ActualTotal, true
	}
	return 0, false
}

func finalize(agg *shared.OwnerAggregate) {
	for _, usage := range agg.PositionUsage {
		if usage.Starts > 0 {
			usage.AvgPerStart = usage.Points / float64(usage.Starts)
		}
	}
	// H2H match lists are appended season by season, week by week, so they are
	// already chronological; sorting keeps that true if seasons arrive unsorted.
	for _, stats := range agg.HeadToHead {
		sort.SliceStable(stats.Matches, func(i, j int) bool {
			if stats.Matches[i].SeasonID != stats.Matches[j].SeasonID {
				return stats.Matches[i].SeasonID < stats.Matches[j].SeasonID
			}
			return stats.Matches[i].Week < stats.Matches[j].Week
		})
	}
}

// ownersIn collects the distinct owner ids appearing in the given seasons, in
// first-seen order.
func (a *Aggregator) ownersIn(seasons []string) ([]string, error) {
	var owners []string
	seen := make(map[string]bool)
	for _, seasonID := range seasons {
		teams, err := a.League.Teams(seasonID)
		if err != nil {
			return nil, fmt.Errorf("failed to load teams for season %s: %w", seasonID, err)
		}
		for _, t := range teams {
			if t.OwnerID == "" || seen[t.OwnerID] {
				continue
			}
			seen[t.OwnerID] = true
			owners = append(owners, t.OwnerID)
		}
	}
	return owners, nil
}
