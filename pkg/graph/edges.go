package graph

import (
	"strings"

	"github.com/inkforge/castline/pkg/common"
	"github.com/inkforge/castline/pkg/inverse"
)

// FinalizeParams carries everything edge finalization consumes: the raw
// mention list, the cluster hierarchy, the learned inverse-pair dictionary
// and any localized family synonyms.
type FinalizeParams struct {
	Edges       []common.RawEdge
	Clusters    ClusterResult
	Dict        *inverse.Dictionary
	ExtraFamily []string
}

// FinalizeEdges collapses the raw mention list into the drawn edge set:
// fan-outs become one structural edge to their sub-group, mutually inverse
// and duplicate mentions of one relationship collapse into a single edge,
// and every surviving edge is classified for hierarchical layout.
func FinalizeEdges(p FinalizeParams) []common.GraphEdge {
	labelOf := make(map[string]string, len(p.Clusters.Groups))
	for _, g := range p.Clusters.Groups {
		labelOf[g.ID] = g.Label
	}

	drawn := make([]common.GraphEdge, 0, len(p.Edges))
	pairRoles := make(map[string]map[string]struct{})
	structural := make(map[string]struct{})

	rolesFor := func(a, b string) map[string]struct{} {
		key := pairKey(a, b)
		set, ok := pairRoles[key]
		if !ok {
			set = make(map[string]struct{})
			pairRoles[key] = set
		}
		return set
	}

	for _, e := range p.Edges {
		roleKey := strings.ToLower(e.Role)

		// Fan-out mentions collapse into one structural edge per
		// (source, sub-group) pair; the individual mention is recorded as
		// handled so its reciprocal cannot draw a duplicate.
		if gid, ok := p.Clusters.SourceRoleSubgroups[e.SourceID][roleKey]; ok {
			rolesFor(e.SourceID, e.TargetID)[roleKey] = struct{}{}
			structKey := e.SourceID + "->" + gid
			if _, ok := structural[structKey]; !ok {
				structural[structKey] = struct{}{}
				drawn = append(drawn, common.GraphEdge{
					SourceID:    e.SourceID,
					TargetID:    gid,
					Label:       "",
					Orientation: common.OrientationVertical,
				})
			}
			continue
		}

		if p.suppressed(e, roleKey) {
			continue
		}

		set := rolesFor(e.SourceID, e.TargetID)
		if _, ok := set[roleKey]; ok {
			continue
		}
		if inverseAlreadyDrawn(set, roleKey, p.Dict) {
			continue
		}
		set[roleKey] = struct{}{}

		label := e.Role
		sourceParent := p.Clusters.ParentOf[e.SourceID]
		if sourceParent != "" &&
			sourceParent == p.Clusters.ParentOf[e.TargetID] &&
			strings.EqualFold(label, labelOf[sourceParent]) {
			label = ""
		}

		orientation := common.OrientationHorizontal
		if label == "" || IsFamilyRole(label, p.ExtraFamily) {
			orientation = common.OrientationVertical
		}

		drawn = append(drawn, common.GraphEdge{
			SourceID:    e.SourceID,
			TargetID:    e.TargetID,
			Label:       label,
			Orientation: orientation,
		})
	}

	return drawn
}

// suppressed reports whether the mention is already represented visually by
// a group-level edge: either the source sits inside a sub-group the target
// created for this relationship, or the target's fan-out was redirected to
// the very cluster the source lives in.
func (p FinalizeParams) suppressed(e common.RawEdge, roleKey string) bool {
	sourceParent := p.Clusters.ParentOf[e.SourceID]
	if sourceParent == "" {
		return false
	}

	if origin, ok := p.Clusters.SubgroupOrigins[sourceParent]; ok {
		if origin.SourceID == e.TargetID && rolesMatch(origin.Role, roleKey, p.Dict) {
			return true
		}
	}

	for role, gid := range p.Clusters.SourceRoleSubgroups[e.TargetID] {
		if gid == sourceParent && rolesMatch(role, roleKey, p.Dict) {
			return true
		}
	}
	return false
}

// rolesMatch treats two lower-cased labels as the same relationship when
// they are equal, equal after stripping a plural "s", or registered as
// mutual inverses.
func rolesMatch(a, b string, dict *inverse.Dictionary) bool {
	if a == b {
		return true
	}
	if strings.TrimSuffix(a, "s") == strings.TrimSuffix(b, "s") {
		return true
	}
	return dict.AreInverse(a, b)
}

func inverseAlreadyDrawn(set map[string]struct{}, roleKey string, dict *inverse.Dictionary) bool {
	for existing := range set {
		if dict.AreInverse(existing, roleKey) {
			return true
		}
	}
	return false
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
