/* position.go
 * Contains the position normalizer: maps raw historical position strings onto the
 * canonical Position set. Imports from different eras of the league use different
 * synonyms for the same position, so everything funnels through Normalize
 */

package taxonomy

import (
	"strings"

	"rosteriq/api/shared"
)

// positionSynonyms maps every known raw token (upper-cased) to its canonical
// position. The canonical names map to themselves so Normalize is a single lookup.
var positionSynonyms = map[string]shared.Position{
	"QB": shared.QB,

	"RB": shared.RB,
	"HB": shared.RB,
	"FB": shared.RB,

	"WR": shared.WR,

	"TE": shared.TE,

	"K":  shared.K,
	"PK": shared.K,

	"DL":   shared.DL,
	"DE":   shared.DL,
	"DT":   shared.DL,
	"NT":   shared.DL,
	"EDGE": shared.DL,

	"LB":  shared.LB,
	"OLB": shared.LB,
	"MLB": shared.LB,
	"ILB": shared.LB,

	"DB": shared.DB,
	"CB": shared.DB,
	"S":  shared.DB,
	"FS": shared.DB,
	"SS": shared.DB,
}

// Normalize canonicalizes a raw position string. It is total: case and
// surrounding whitespace are ignored, and anything unrecognized (including the
// empty string) maps to UNKNOWN rather than failing.
func Normalize(raw string) shared.Position {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if pos, ok := positionSynonyms[token]; ok {
		return pos
	}
	return shared.UNKNOWN
}

// NormalizeAll returns the normalized base position followed by the normalized
// alternates, in input order. Callers use this to test slot eligibility.
func NormalizeAll(base string, alts []string) []shared.Position {
	out := make([]shared.Position, 0, 1+len(alts))
	out = append(out, Normalize(base))
	for _, a := range alts {
		out = append(out, Normalize(a))
	}
	return out
}
