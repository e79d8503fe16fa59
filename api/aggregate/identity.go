/* identity.go
 * Contains owner-identity resolution. Team ids and display names churn across
 * seasons; aggregates must be keyed by a durable owner identity instead. When a
 * snapshot carries no owner id, the display name is fuzzy-matched against the
 * known historical aliases of each owner
 */

package aggregate

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// IdentityResolver maps team display names onto durable owner ids.
type IdentityResolver struct {
	aliases map[string]string // lowercased display name -> owner id
}

// NewIdentityResolver builds a resolver from the known alias table:
// ownerID -> historical display names.
func NewIdentityResolver(known map[string][]string) *IdentityResolver {
	aliases := make(map[string]string)
	for owner, names := range known {
		for _, name := range names {
			aliases[strings.ToLower(name)] = owner
		}
	}
	return &IdentityResolver{aliases: aliases}
}

// AddAlias records one more display name for an owner.
func (r *IdentityResolver) AddAlias(ownerID, name string) {
	r.aliases[strings.ToLower(name)] = ownerID
}

// ResolveOwner returns the durable owner id for a team snapshot. An explicit
// owner id always wins; otherwise the display name is matched against the
// alias table, preferring an exact match over the best-ranked fuzzy match.
// The empty string means the owner could not be identified.
func (r *IdentityResolver) ResolveOwner(ownerID, teamName string) string {
	if ownerID != "" {
		return ownerID
	}
	lower := strings.ToLower(teamName)
	if owner, ok := r.aliases[lower]; ok {
		return owner
	}

	targets := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		targets = append(targets, name)
	}
	matches := fuzzy.RankFindFold(lower, targets)
	if len(matches) == 0 {
		return ""
	}
	best := matches[0]
	for _, m := range matches {
		if m.Target == lower {
			best = m
			break
		}
		if m.Distance < best.Distance {
			best = m
		}
	}
	return r.aliases[best.Target]
}
