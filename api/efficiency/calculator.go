/* calculator.go
 * Contains the efficiency calculator: for one team/week it resolves scores, runs
 * the optimizer over the full candidate pool and produces the actual/optimal totals
 * with their offense/defense splits. Every caller (facade, aggregator, migration)
 * goes through ComputeWeek; nobody re-derives eligibility or scoring rules locally
 */

package efficiency

import (
	"errors"
	"fmt"

	"rosteriq/api/optimizer"
	"rosteriq/api/resolver"
	"rosteriq/api/shared"
	"rosteriq/api/taxonomy"
)

// ErrInsufficientData is returned when no per-player score and no scalar total
// exist for a team/week. Callers must branch on it; it is never coerced to a
// zero-point result.
var ErrInsufficientData = errors.New("insufficient data for team/week")

// ErrAmbiguousSlots is returned when the league lineup configuration is empty
// and the roster is too empty to infer one. It wraps ErrInsufficientData so a
// single errors.Is check covers both.
var ErrAmbiguousSlots = fmt.Errorf("ambiguous lineup configuration: %w", ErrInsufficientData)

// rosterInferenceCap bounds how many starters per position an inferred lineup
// configuration may assume: a team's historical roster composition upper-bounds
// what its starting lineup required.
const rosterInferenceCap = 3

// LeagueStore is the read-only league/season store collaborator.
type LeagueStore interface {
	Teams(seasonID string) ([]shared.TeamSnapshot, error)
	MatchupEntries(seasonID string, week int) ([]shared.MatchupEntry, error)
	LineupConfiguration(seasonID string) (shared.LineupConfiguration, error)
	PlayoffStartWeek(seasonID string) (int, error)
}

// PositionLookup is a best-effort global player-metadata cache for ids not
// present in a roster snapshot. Implementations are read-only snapshots.
type PositionLookup interface {
	Position(playerID string) (shared.Position, bool)
}

// Calculator computes per-week efficiency results.
type Calculator struct {
	League  LeagueStore
	Players PositionLookup // optional
}

// NewCalculator creates a Calculator over the given league store. players may
// be nil when no global metadata cache is available.
func NewCalculator(league LeagueStore, players PositionLookup) *Calculator {
	return &Calculator{League: league, Players: players}
}

// ComputeWeek produces the efficiency result for one team/week.
// Preconditions: team is a season snapshot whose TeamID matches the roster id
// used in that season's matchup entries
// Postconditions: returns the derived result, or ErrInsufficientData (possibly
// wrapped) when no resolvable score data or lineup configuration exists
func (c *Calculator) ComputeWeek(team shared.TeamSnapshot, week int) (shared.WeekEfficiencyResult, error) {
	entries, err := c.League.MatchupEntries(team.SeasonID, week)
	if err != nil {
		return shared.WeekEfficiencyResult{}, fmt.Errorf("failed to load matchup entries: %w", err)
	}
	entry, ok := entryForRoster(entries, team.TeamID)
	if !ok {
		return shared.WeekEfficiencyResult{}, fmt.Errorf("no matchup entry for team %s week %d: %w", team.TeamID, week, ErrInsufficientData)
	}
	return c.ComputeEntry(team, entry)
}

// ComputeEntry is ComputeWeek for a matchup entry the caller already holds.
// The aggregator and migration engine use this form to avoid re-fetching.
func (c *Calculator) ComputeEntry(team shared.TeamSnapshot, entry shared.MatchupEntry) (shared.WeekEfficiencyResult, error) {
	week := entry.Week
	res := resolver.Resolve(entry, team.Roster, week, nil)
	if res.State == resolver.Unresolved && entry.TotalPoints == nil {
		return shared.WeekEfficiencyResult{}, fmt.Errorf("team %s week %d: %w", team.TeamID, week, ErrInsufficientData)
	}

	slots, err := c.lineupSlots(team)
	if err != nil {
		return shared.WeekEfficiencyResult{}, err
	}

	candidates := c.buildCandidates(team, entry, res.Scores)
	optimal := optimizer.OptimalAssignment(candidates, slots)

	out := shared.WeekEfficiencyResult{
		Week:           week,
		OptimalTotal:   optimal.Total,
		OptimalOffense: optimal.Offense,
		OptimalDefense: optimal.Defense,
	}

	// Actual points: sum resolved starter scores, credited by the starter's
	// own normalized position.
	for _, id := range entry.Starters {
		pts, ok := res.Scores[id]
		if !ok {
			continue
		}
		out.ActualTotal += pts
		switch pos := c.starterPosition(team, id); {
		case pos.IsOffense():
			out.ActualOffense += pts
		case pos.IsDefense():
			out.ActualDefense += pts
		}
	}

	if res.UseScalarTotal {
		applyScalarOverride(&out, res.ScalarTotal)
	}

	if out.OptimalTotal > 0 {
		out.ManagementPercent = out.ActualTotal / out.OptimalTotal * 100
	} else {
		// Undefined; reported as zero with the confidence flag set instead of
		// dividing by zero.
		out.ManagementPercent = 0
		out.LowConfidence = true
	}
	return out, nil
}

// lineupSlots returns the season's classified lineup slots, inferring a
// configuration from the roster when the league-level one is empty.
func (c *Calculator) lineupSlots(team shared.TeamSnapshot) ([]taxonomy.Slot, error) {
	cfg, err := c.League.LineupConfiguration(team.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lineup configuration: %w", err)
	}
	slots := taxonomy.LineupSlots(cfg.Slots)
	if len(slots) > 0 {
		return slots, nil
	}
	slots = inferSlots(team.Roster)
	if len(slots) == 0 {
		return nil, fmt.Errorf("season %s team %s: %w", team.SeasonID, team.TeamID, ErrAmbiguousSlots)
	}
	return slots, nil
}

// inferSlots builds a strict-only lineup configuration from roster composition:
// one slot per rostered player at each position, capped per position.
func inferSlots(roster []shared.Player) []taxonomy.Slot {
	counts := make(map[shared.Position]int)
	var order []shared.Position
	for _, p := range roster {
		pos := taxonomy.Normalize(p.Position)
		if pos == shared.UNKNOWN {
			continue
		}
		if counts[pos] == 0 {
			order = append(order, pos)
		}
		if counts[pos] < rosterInferenceCap {
			counts[pos]++
		}
	}
	var slots []taxonomy.Slot
	for _, pos := range order {
		for i := 0; i < counts[pos]; i++ {
			slots = append(slots, taxonomy.Classify(string(pos)))
		}
	}
	return slots
}

// buildCandidates assembles the optimizer pool: every targeted player with a
// resolved score, carrying positions from the roster snapshot or, failing
// that, the global metadata cache. Ids known to neither default to UNKNOWN.
func (c *Calculator) buildCandidates(team shared.TeamSnapshot, entry shared.MatchupEntry, scores map[string]float64) []optimizer.Candidate {
	byID := make(map[string]shared.Player, len(team.Roster))
	for _, p := range team.Roster {
		byID[p.ID] = p
	}

	// Roster order first, then pool-only ids in entry order, so the optimizer's
	// tie-break stays reproducible.
	var ids []string
	seen := make(map[string]bool)
	for _, p := range team.Roster {
		ids = append(ids, p.ID)
		seen[p.ID] = true
	}
	for _, id := range entry.Players {
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	for _, id := range entry.Starters {
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}

	candidates := make([]optimizer.Candidate, 0, len(ids))
	for _, id := range ids {
		cand := optimizer.Candidate{ID: id, Score: scores[id]}
		if p, ok := byID[id]; ok {
			cand.BasePosition = p.Position
			cand.AltPositions = p.AltPositions
		} else if c.Players != nil {
			if pos, ok := c.Players.Position(id); ok {
				cand.BasePosition = string(pos)
			}
		}
		candidates = append(candidates, cand)
	}
	return candidates
}

// starterPosition resolves the credited position for an actual starter.
func (c *Calculator) starterPosition(team shared.TeamSnapshot, id string) shared.Position {
	for _, p := range team.Roster {
		if p.ID != id {
			continue
		}
		pos := taxonomy.Normalize(p.Position)
		if pos != shared.UNKNOWN {
			return pos
		}
		for _, alt := range p.AltPositions {
			if ap := taxonomy.Normalize(alt); ap != shared.UNKNOWN {
				return ap
			}
		}
		return shared.UNKNOWN
	}
	if c.Players != nil {
		if pos, ok := c.Players.Position(id); ok {
			return pos
		}
	}
	return shared.UNKNOWN
}

// applyScalarOverride replaces the actual total with the authoritative scalar,
// scaling any known offense/defense split proportionally. With no split known
// the whole total is attributed to offense; the low-confidence flag marks the
// result either way.
func applyScalarOverride(out *shared.WeekEfficiencyResult, scalar float64) {
	known := out.ActualOffense + out.ActualDefense
	if known > 0 {
		ratio := scalar / known
		out.ActualOffense *= ratio
		out.ActualDefense *= ratio
	} else {
		out.ActualOffense = scalar
		out.ActualDefense = 0
	}
	out.ActualTotal = scalar
	out.LowConfidence = true
}

func entryForRoster(entries []shared.MatchupEntry, rosterID string) (shared.MatchupEntry, bool) {
	for _, e := range entries {
		if e.RosterID == rosterID {
			return e, true
		}
	}
	return shared.MatchupEntry{}, false
}
