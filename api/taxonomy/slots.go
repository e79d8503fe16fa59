/* slots.go
 * Contains the slot taxonomy: classifies raw lineup-slot tokens into the closed
 * SlotCategory set and derives each slot's eligible-position set. All the historical
 * string aliases ("WRRB", "SFLX", "IDP_FLEX", ...) are handled here at the boundary;
 * the optimizer never looks at raw tokens
 */

package taxonomy

import (
	"fmt"
	"strings"

	"github.com/go-andiamo/splitter"

	"rosteriq/api/shared"
)

// SlotCategory classifies a lineup slot.
type SlotCategory int

const (
	// Strict slots admit exactly one canonical position.
	Strict SlotCategory = iota
	// RegularFlex admits RB/WR/TE.
	RegularFlex
	// SuperFlex admits QB/RB/WR/TE.
	SuperFlex
	// IdpFlex admits DL/LB/DB.
	IdpFlex
	// Excluded covers bench, IR and taxi tokens; these never reach the optimizer.
	Excluded
)

func (c SlotCategory) String() string {
	switch c {
	case Strict:
		return "strict"
	case RegularFlex:
		return "flex"
	case SuperFlex:
		return "superflex"
	case IdpFlex:
		return "idp-flex"
	case Excluded:
		return "excluded"
	}
	return "unknown"
}

// Slot is a classified lineup slot.
type Slot struct {
	Token    string
	Category SlotCategory
	// Eligible is the fixed eligible-position set derived from Category.
	Eligible []shared.Position
	// Position is set for Strict slots only.
	Position shared.Position
}

// Eligibility sets are pure functions of the category.
var (
	regularFlexEligible = []shared.Position{shared.RB, shared.WR, shared.TE}
	superFlexEligible   = []shared.Position{shared.QB, shared.RB, shared.WR, shared.TE}
	idpFlexEligible     = []shared.Position{shared.DL, shared.LB, shared.DB}
)

var regularFlexAliases = map[string]bool{
	"FLEX":      true,
	"WRRB":      true,
	"WRRB_FLEX": true,
	"WRRBTE":    true,
	"WRT":       true,
	"W/R/T":     true,
	"RB/WR/TE":  true,
	"RB/WR":     true,
}

var superFlexAliases = map[string]bool{
	"SUPER_FLEX": true,
	"SUPERFLEX":  true,
	"SFLX":       true,
	"QBSF":       true,
	"OP":         true,
	"Q/W/R/T":    true,
}

var idpFlexAliases = map[string]bool{
	"IDP_FLEX": true,
	"IDPFLEX":  true,
	"IDP":      true,
	"DFLX":     true,
	"DP":       true,
}

var excludedAliases = map[string]bool{
	"BN":       true,
	"BE":       true,
	"BENCH":    true,
	"IR":       true,
	"TAXI":     true,
	"RES":      true,
	"RESERVE":  true,
	"INACTIVE": true,
}

// Classify canonicalizes a raw slot token into a Slot. The function is total:
// a token that matches no alias and has no recognizable flex marker becomes a
// Strict slot for its own normalized position, so unknown input never panics.
// Bench/IR/taxi tokens come back Excluded and must be filtered out of any slot
// list before it reaches the optimizer (LineupSlots does this).
func Classify(rawSlot string) Slot {
	token := strings.ToUpper(strings.TrimSpace(rawSlot))
	// Configurations written by hand use both "WRRB FLEX" and "WRRB_FLEX".
	canon := strings.ReplaceAll(token, " ", "_")

	switch {
	case excludedAliases[canon]:
		return Slot{Token: rawSlot, Category: Excluded}
	case superFlexAliases[canon]:
		return Slot{Token: rawSlot, Category: SuperFlex, Eligible: superFlexEligible}
	case idpFlexAliases[canon] || strings.Contains(canon, "IDP"):
		return Slot{Token: rawSlot, Category: IdpFlex, Eligible: idpFlexEligible}
	case regularFlexAliases[canon] || strings.Contains(canon, "FLEX"):
		return Slot{Token: rawSlot, Category: RegularFlex, Eligible: regularFlexEligible}
	}

	pos := Normalize(canon)
	return Slot{Token: rawSlot, Category: Strict, Eligible: []shared.Position{pos}, Position: pos}
}

// LineupSlots classifies every token of a lineup configuration and drops the
// excluded ones, preserving the configured order.
func LineupSlots(tokens []string) []Slot {
	slots := make([]Slot, 0, len(tokens))
	for _, tok := range tokens {
		s := Classify(tok)
		if s.Category == Excluded {
			continue
		}
		slots = append(slots, s)
	}
	return slots
}

// SplitLineupTokens splits a space-separated lineup-configuration string into
// raw slot tokens. Tokens may be double quoted so that slot names containing
// spaces (e.g. "WRRB FLEX") survive as one token.
func SplitLineupTokens(config string) ([]string, error) {
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, fmt.Errorf("failed to build slot splitter: %w", err)
	}
	parts, err := spaceSplitter.Split(config)
	if err != nil {
		return nil, fmt.Errorf("failed to split lineup configuration %q: %w", config, err)
	}
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, `"“” `)
		if p == "" {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens, nil
}

// ParseLineupString splits a string-form lineup configuration and classifies
// the resulting tokens.
func ParseLineupString(config string) ([]Slot, error) {
	tokens, err := SplitLineupTokens(config)
	if err != nil {
		return nil, err
	}
	return LineupSlots(tokens), nil
}
