/* optimizer_test.go
 * Contains unit tests for the greedy lineup optimizer
 */

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rosteriq/api/shared"
	"rosteriq/api/taxonomy"
)

func standardSlots() []taxonomy.Slot {
	return taxonomy.LineupSlots([]string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "K"})
}

func standardCandidates() []Candidate {
	return []Candidate{
		{ID: "QB1", BasePosition: "QB", Score: 20},
		{ID: "RB1", BasePosition: "RB", Score: 15},
		{ID: "RB2", BasePosition: "RB", Score: 8},
		{ID: "WR1", BasePosition: "WR", Score: 12},
		{ID: "WR2", BasePosition: "WR", Score: 6},
		{ID: "TE1", BasePosition: "TE", Score: 9},
		{ID: "K1", BasePosition: "K", Score: 7},
		{ID: "WR3", BasePosition: "WR", Score: 14}, // benched that week, still a candidate
	}
}

// TestOptimalAssignment_StandardLineup tests the reference lineup scenario:
// the bench WR3 takes the second WR slot and WR2 lands in the flex
func TestOptimalAssignment_StandardLineup(t *testing.T) {
	got := OptimalAssignment(standardCandidates(), standardSlots())

	assert.InDelta(t, 91.0, got.Total, 1e-9) // 20+15+8+12+14+9+6+7
	assert.InDelta(t, 91.0, got.Offense, 1e-9)
	assert.InDelta(t, 0.0, got.Defense, 1e-9)
	assert.Len(t, got.Picks, 8)

	byPlayer := make(map[string]int)
	for _, p := range got.Picks {
		byPlayer[p.PlayerID] = p.SlotIndex
	}
	assert.Contains(t, byPlayer, "WR3")
	assert.Contains(t, byPlayer, "WR2")
	// WR3 must occupy a strict WR slot (index 3 or 4), WR2 the flex (index 6)
	assert.Contains(t, []int{3, 4}, byPlayer["WR3"])
	assert.Equal(t, 6, byPlayer["WR2"])
}

// TestOptimalAssignment_Deterministic tests that two runs over the same input
// produce identical picks and totals
func TestOptimalAssignment_Deterministic(t *testing.T) {
	first := OptimalAssignment(standardCandidates(), standardSlots())
	second := OptimalAssignment(standardCandidates(), standardSlots())
	assert.Equal(t, first, second)
}

// TestOptimalAssignment_TieBreak tests that on exact score ties the first
// candidate in input order wins
func TestOptimalAssignment_TieBreak(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", BasePosition: "RB", Score: 10},
		{ID: "B", BasePosition: "RB", Score: 10},
	}
	slots := taxonomy.LineupSlots([]string{"RB"})

	got := OptimalAssignment(candidates, slots)
	assert.Len(t, got.Picks, 1)
	assert.Equal(t, "A", got.Picks[0].PlayerID)
}

// TestOptimalAssignment_EmptySlotSkipped tests that a slot with no eligible
// candidate contributes zero without failing
func TestOptimalAssignment_EmptySlotSkipped(t *testing.T) {
	candidates := []Candidate{{ID: "QB1", BasePosition: "QB", Score: 20}}
	slots := taxonomy.LineupSlots([]string{"QB", "K"})

	got := OptimalAssignment(candidates, slots)
	assert.Len(t, got.Picks, 1)
	assert.InDelta(t, 20.0, got.Total, 1e-9)
}

// TestOptimalAssignment_SlotEligibilityInvariant tests that every filled slot
// holds a candidate whose normalized base or alt position is eligible for it
func TestOptimalAssignment_SlotEligibilityInvariant(t *testing.T) {
	candidates := []Candidate{
		{ID: "P1", BasePosition: "DE", Score: 11},
		{ID: "P2", BasePosition: "OLB", AltPositions: []string{"DE"}, Score: 9},
		{ID: "P3", BasePosition: "CB", Score: 14},
		{ID: "P4", BasePosition: "WR", Score: 13},
	}
	slots := taxonomy.LineupSlots([]string{"DL", "LB", "IDP_FLEX", "WR"})

	got := OptimalAssignment(candidates, slots)
	byID := make(map[string]Candidate)
	for _, c := range candidates {
		byID[c.ID] = c
	}
	for _, pick := range got.Picks {
		c := byID[pick.PlayerID]
		positions := taxonomy.NormalizeAll(c.BasePosition, c.AltPositions)
		ok := false
		for _, cp := range positions {
			for _, sp := range slots[pick.SlotIndex].Eligible {
				if cp == sp {
					ok = true
				}
			}
		}
		assert.True(t, ok, "pick %s ineligible for slot %s", pick.PlayerID, slots[pick.SlotIndex].Token)
	}
}

// TestOptimalAssignment_IdpFlexCredited tests the IDP flex credited-position
// preference order (DL before LB before DB)
func TestOptimalAssignment_IdpFlexCredited(t *testing.T) {
	candidates := []Candidate{
		{ID: "P1", BasePosition: "OLB", AltPositions: []string{"DE"}, Score: 12},
	}
	slots := taxonomy.LineupSlots([]string{"IDP_FLEX"})

	got := OptimalAssignment(candidates, slots)
	assert.Len(t, got.Picks, 1)
	// Candidate carries LB (base) and DL (alt); DL comes first in the preference order.
	assert.Equal(t, shared.DL, got.Picks[0].Credited)
	assert.InDelta(t, 12.0, got.Defense, 1e-9)
	assert.InDelta(t, 0.0, got.Offense, 1e-9)
}

// TestOptimalAssignment_SuperFlexTakesQB tests that a super flex slot can hold
// a second quarterback and credits him as QB
func TestOptimalAssignment_SuperFlexTakesQB(t *testing.T) {
	candidates := []Candidate{
		{ID: "QB1", BasePosition: "QB", Score: 22},
		{ID: "QB2", BasePosition: "QB", Score: 18},
		{ID: "RB1", BasePosition: "RB", Score: 10},
	}
	slots := taxonomy.LineupSlots([]string{"QB", "SUPER_FLEX"})

	got := OptimalAssignment(candidates, slots)
	assert.Len(t, got.Picks, 2)
	assert.InDelta(t, 40.0, got.Total, 1e-9)
	assert.Equal(t, shared.QB, got.Picks[1].Credited)
}

// TestOptimalAssignment_UnknownPositionNeverCredited tests that a candidate
// with an unrecognized position cannot fill offense or defense slots
func TestOptimalAssignment_UnknownPositionNeverCredited(t *testing.T) {
	candidates := []Candidate{
		{ID: "X1", BasePosition: "GOALIE", Score: 50},
		{ID: "RB1", BasePosition: "RB", Score: 5},
	}
	slots := taxonomy.LineupSlots([]string{"RB", "FLEX"})

	got := OptimalAssignment(candidates, slots)
	assert.Len(t, got.Picks, 1)
	assert.Equal(t, "RB1", got.Picks[0].PlayerID)
	assert.InDelta(t, 5.0, got.Total, 1e-9)
}

// TestOptimalAssignment_OptimalAtLeastActual tests that the optimizer total is
// never below the sum of any subset of candidates a manager actually started
func TestOptimalAssignment_OptimalAtLeastActual(t *testing.T) {
	candidates := standardCandidates()
	slots := standardSlots()
	got := OptimalAssignment(candidates, slots)

	// Actual recorded starters (suboptimal: WR3 was benched).
	actual := 20.0 + 15 + 8 + 12 + 6 + 9 + 7
	assert.GreaterOrEqual(t, got.Total, actual)
}
