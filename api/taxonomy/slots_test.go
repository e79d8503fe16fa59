/* slots_test.go
 * Contains unit tests for the slot taxonomy
 */

package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rosteriq/api/shared"
)

// TestClassify_Strict tests that single-position tokens become strict slots
func TestClassify_Strict(t *testing.T) {
	s := Classify("QB")
	assert.Equal(t, Strict, s.Category)
	assert.Equal(t, shared.QB, s.Position)
	assert.Equal(t, []shared.Position{shared.QB}, s.Eligible)
}

// TestClassify_StrictSynonym tests that position synonyms classify as strict with the canonical position
func TestClassify_StrictSynonym(t *testing.T) {
	s := Classify("olb")
	assert.Equal(t, Strict, s.Category)
	assert.Equal(t, shared.LB, s.Position)
}

// TestClassify_RegularFlex tests the regular flex aliases
func TestClassify_RegularFlex(t *testing.T) {
	for _, tok := range []string{"FLEX", "WRRB", "WRRB_FLEX", "WRRB FLEX", "RB/WR/TE", "W/R/T"} {
		s := Classify(tok)
		assert.Equal(t, RegularFlex, s.Category, "token %q", tok)
		assert.Equal(t, []shared.Position{shared.RB, shared.WR, shared.TE}, s.Eligible, "token %q", tok)
	}
}

// TestClassify_SuperFlex tests the super flex aliases
func TestClassify_SuperFlex(t *testing.T) {
	for _, tok := range []string{"SUPER_FLEX", "SUPERFLEX", "SFLX", "QBSF", "OP"} {
		s := Classify(tok)
		assert.Equal(t, SuperFlex, s.Category, "token %q", tok)
		assert.Equal(t, []shared.Position{shared.QB, shared.RB, shared.WR, shared.TE}, s.Eligible, "token %q", tok)
	}
}

// TestClassify_IdpFlex tests IDP flex aliases, including the contains-IDP rule
func TestClassify_IdpFlex(t *testing.T) {
	for _, tok := range []string{"IDP_FLEX", "IDPFLEX", "IDP", "DFLX", "IDP_UTIL"} {
		s := Classify(tok)
		assert.Equal(t, IdpFlex, s.Category, "token %q", tok)
		assert.Equal(t, []shared.Position{shared.DL, shared.LB, shared.DB}, s.Eligible, "token %q", tok)
	}
}

// TestClassify_Excluded tests that bench, IR and taxi tokens are excluded
func TestClassify_Excluded(t *testing.T) {
	for _, tok := range []string{"BN", "BE", "BENCH", "IR", "TAXI", "RES"} {
		assert.Equal(t, Excluded, Classify(tok).Category, "token %q", tok)
	}
}

// TestClassify_UnknownToken tests that unrecognized tokens become strict with their own normalized position
func TestClassify_UnknownToken(t *testing.T) {
	s := Classify("GOALIE")
	assert.Equal(t, Strict, s.Category)
	assert.Equal(t, shared.UNKNOWN, s.Position)
}

// TestLineupSlots_DropsExcluded tests that bench tokens never reach the slot list
func TestLineupSlots_DropsExcluded(t *testing.T) {
	slots := LineupSlots([]string{"QB", "RB", "BN", "FLEX", "IR", "K"})
	assert.Len(t, slots, 4)
	for _, s := range slots {
		assert.NotEqual(t, Excluded, s.Category)
	}
	// Configured order is preserved
	assert.Equal(t, "QB", slots[0].Token)
	assert.Equal(t, "FLEX", slots[2].Token)
}

// TestParseLineupString_QuotedTokens tests that quoted slot names containing spaces survive as one token
func TestParseLineupString_QuotedTokens(t *testing.T) {
	slots, err := ParseLineupString(`QB RB RB WR WR TE "WRRB FLEX" K`)
	assert.NoError(t, err)
	assert.Len(t, slots, 8)
	assert.Equal(t, RegularFlex, slots[6].Category)
}

// TestParseLineupString_Empty tests that an empty configuration yields no slots
func TestParseLineupString_Empty(t *testing.T) {
	slots, err := ParseLineupString("")
	assert.NoError(t, err)
	assert.Empty(t, slots)
}
