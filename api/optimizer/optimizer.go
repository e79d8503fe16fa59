/* optimizer.go
 * Contains the optimal-lineup assignment algorithm: given a candidate pool and a
 * classified slot list, fill each slot with the highest-scoring eligible player.
 * The algorithm is a deterministic greedy pass, not a global optimum; strict slots
 * are filled before flex slots so a flex-eligible stud is not burned on a flex
 * spot while his strict slot goes empty
 */

package optimizer

import (
	"rosteriq/api/shared"
	"rosteriq/api/taxonomy"
)

// Candidate is one player available to the optimizer.
type Candidate struct {
	ID           string
	BasePosition string
	AltPositions []string
	Score        float64
}

// Pick records which candidate filled which slot and the position the points
// were credited to for offense/defense sub-totaling.
type Pick struct {
	SlotIndex int // index into the caller's slot list
	PlayerID  string
	Score     float64
	Credited  shared.Position
}

// Assignment is the result of one optimizer run.
type Assignment struct {
	Total   float64
	Offense float64
	Defense float64
	Picks   []Pick
}

// Credited-position preference orders for flex slots. A flex pick is attributed
// to the first position in this order that appears among the candidate's
// base+alt positions; this governs the offense/defense split, not the points.
var (
	offenseFlexPreference = []shared.Position{shared.QB, shared.RB, shared.WR, shared.TE}
	idpFlexPreference     = []shared.Position{shared.DL, shared.LB, shared.DB}
)

// OptimalAssignment assigns at most one candidate per slot to maximize total
// score under the taxonomy eligibility rules. The pass is deterministic:
// identical inputs produce identical picks, including on exact score ties,
// where the first candidate in input order wins. Slots with no eligible
// candidate are skipped and contribute zero.
func OptimalAssignment(candidates []Candidate, slots []taxonomy.Slot) Assignment {
	// Normalize every candidate's positions once up front.
	positions := make([][]shared.Position, len(candidates))
	for i, c := range candidates {
		positions[i] = taxonomy.NormalizeAll(c.BasePosition, c.AltPositions)
	}

	order := slotOrder(slots)
	used := make(map[int]bool, len(candidates))

	var out Assignment
	for _, slotIdx := range order {
		slot := slots[slotIdx]

		best := -1
		for i, c := range candidates {
			if used[i] {
				continue
			}
			if !eligible(positions[i], slot.Eligible) {
				continue
			}
			// Strictly-greater keeps the first candidate on exact ties.
			if best == -1 || c.Score > candidates[best].Score {
				best = i
			}
		}
		if best == -1 {
			continue
		}

		used[best] = true
		pick := Pick{
			SlotIndex: slotIdx,
			PlayerID:  candidates[best].ID,
			Score:     candidates[best].Score,
			Credited:  creditedPosition(slot, positions[best]),
		}
		out.Picks = append(out.Picks, pick)
		out.Total += pick.Score
		if pick.Credited.IsOffense() {
			out.Offense += pick.Score
		} else if pick.Credited.IsDefense() {
			out.Defense += pick.Score
		}
	}
	return out
}

// slotOrder returns slot indices with strict slots first, then flex, each
// partition keeping its original relative order.
func slotOrder(slots []taxonomy.Slot) []int {
	order := make([]int, 0, len(slots))
	for i, s := range slots {
		if s.Category == taxonomy.Strict {
			order = append(order, i)
		}
	}
	for i, s := range slots {
		if s.Category != taxonomy.Strict {
			order = append(order, i)
		}
	}
	return order
}

func eligible(candidate []shared.Position, slot []shared.Position) bool {
	for _, cp := range candidate {
		for _, sp := range slot {
			if cp == sp {
				return true
			}
		}
	}
	return false
}

// creditedPosition resolves the position a pick is attributed to. Strict slots
// credit their own position. Flex slots credit the first position in the fixed
// preference order that the candidate actually carries.
func creditedPosition(slot taxonomy.Slot, candidate []shared.Position) shared.Position {
	if slot.Category == taxonomy.Strict {
		return slot.Position
	}
	pref := offenseFlexPreference
	if slot.Category == taxonomy.IdpFlex {
		pref = idpFlexPreference
	}
	for _, p := range pref {
		for _, cp := range candidate {
			if cp == p {
				return p
			}
		}
	}
	return shared.UNKNOWN
}
