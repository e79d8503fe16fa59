/* resolver.go
 * Contains the multi-source score resolver: produces the best-available per-player
 * score map for a team/week by trying an authoritative per-player points map, then
 * roster weekly scores, then reconciling against an authoritative scalar total.
 * Each fallback step only fills gaps left by the previous one and is restricted to
 * the targeted id set, so unrelated players from other weeks never leak in
 */

package resolver

import (
	"log/slog"
	"math"

	"rosteriq/api/shared"
)

// scalarTolerance is the largest disagreement between a resolved starter sum
// and an authoritative scalar total that is still treated as agreement.
const scalarTolerance = 0.01

// State tags a resolution outcome.
type State int

const (
	// Unresolved means no per-player score could be produced at all.
	Unresolved State = iota
	// Partial means some targeted starters are still missing a score.
	Partial
	// Resolved means every recorded starter has a score.
	Resolved
)

func (s State) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Partial:
		return "partial"
	}
	return "unresolved"
}

// Result is the outcome of one resolution pass.
type Result struct {
	State  State
	Scores map[string]float64
	// MissingStarters lists recorded starters that never received a score.
	MissingStarters []string
	// UseScalarTotal is set when the authoritative scalar total must replace
	// the partial starter sum (reconciliation fired beyond tolerance).
	UseScalarTotal bool
	ScalarTotal    float64
}

// Resolve builds the per-player score map for entry's week. extraIDs carries
// ids from externally supplied historical-player caches that should also be
// targeted. The roster snapshot is the fallback source for ids the entry's own
// points map does not cover.
func Resolve(entry shared.MatchupEntry, roster []shared.Player, week int, extraIDs []string) Result {
	targeted := targetedIDs(entry, roster, extraIDs)
	scores := make(map[string]float64, len(targeted))

	// Step 1: seed from the entry's authoritative per-player points map.
	for id, pts := range entry.PlayerPoints {
		if targeted[id] {
			scores[id] = pts
		}
	}

	// Step 2: fill gaps from roster weekly scores (half-PPR preferred).
	byID := make(map[string]shared.Player, len(roster))
	for _, p := range roster {
		byID[p.ID] = p
	}
	for id := range targeted {
		if _, ok := scores[id]; ok {
			continue
		}
		p, ok := byID[id]
		if !ok {
			continue
		}
		if pts, ok := p.ScoreForWeek(week); ok {
			scores[id] = pts
		}
	}

	res := Result{Scores: scores}
	var missing []string
	for _, id := range entry.Starters {
		if _, ok := scores[id]; !ok {
			missing = append(missing, id)
		}
	}
	res.MissingStarters = missing

	switch {
	case len(scores) == 0:
		res.State = Unresolved
	case len(missing) > 0:
		res.State = Partial
	default:
		res.State = Resolved
	}

	// Step 3: reconcile unresolved starters against the scalar total. When the
	// partial sum disagrees beyond tolerance the scalar wins outright.
	if len(missing) > 0 && entry.TotalPoints != nil {
		sum := 0.0
		for _, id := range entry.Starters {
			sum += scores[id]
		}
		if math.Abs(*entry.TotalPoints-sum) > scalarTolerance {
			slog.Warn("starter sum disagrees with authoritative total, preferring scalar",
				"season", entry.SeasonID,
				"week", entry.Week,
				"roster", entry.RosterID,
				"resolved_sum", sum,
				"scalar_total", *entry.TotalPoints,
				"missing_starters", len(missing))
			res.UseScalarTotal = true
			res.ScalarTotal = *entry.TotalPoints
		}
	}

	return res
}

// targetedIDs builds the id set the resolver is allowed to touch: starters,
// the entry's rostered pool, the roster snapshot and any external cache ids.
func targetedIDs(entry shared.MatchupEntry, roster []shared.Player, extraIDs []string) map[string]bool {
	targeted := make(map[string]bool)
	for _, id := range entry.Starters {
		targeted[id] = true
	}
	for _, id := range entry.Players {
		targeted[id] = true
	}
	for _, p := range roster {
		targeted[p.ID] = true
	}
	for _, id := range extraIDs {
		targeted[id] = true
	}
	return targeted
}
