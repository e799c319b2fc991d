package graph

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/inkforge/castline/internal/util"
	"github.com/inkforge/castline/pkg/common"
)

// SubgroupOrigin records which source node's fan-out created a sub-group,
// and under which role. Role is lower-cased.
type SubgroupOrigin struct {
	SourceID string
	Role     string
}

// ClusterResult is the node/group hierarchy derived by BuildClusters.
//
// ParentOf maps every clustered node to its immediate parent group
// (a cluster or a sub-group nested inside one). SourceRoleSubgroups maps
// source id and lower-cased role to the group a fan-out was collapsed
// into; SubgroupOrigins is its reverse view for created sub-groups.
type ClusterResult struct {
	Groups              []common.GroupNode
	ParentOf            map[string]string
	SourceRoleSubgroups map[string]map[string]string
	SubgroupOrigins     map[string]SubgroupOrigin
}

// BuildClusters groups active nodes into family and role clusters and
// collapses same-role fan-outs into sub-groups. Stages run strictly in
// order; a node assigned early is excluded from every later stage.
func BuildClusters(
	active []string,
	records []common.CharacterRecord,
	edges []common.RawEdge,
	extraFamily []string,
) ClusterResult {
	b := &clusterBuilder{
		active:      active,
		edges:       edges,
		extraFamily: extraFamily,
		recordByID:  make(map[string]common.CharacterRecord, len(records)),
		ids:         make(map[string]int),
		result: ClusterResult{
			Groups:              make([]common.GroupNode, 0),
			ParentOf:            make(map[string]string),
			SourceRoleSubgroups: make(map[string]map[string]string),
			SubgroupOrigins:     make(map[string]SubgroupOrigin),
		},
	}
	for _, r := range records {
		b.recordByID[r.ID] = r
	}

	b.explicitFamilies()
	b.inferredFamilies()
	b.roleClusters()
	b.fanOutSubgroups()

	return b.result
}

type clusterBuilder struct {
	active      []string
	edges       []common.RawEdge
	extraFamily []string
	recordByID  map[string]common.CharacterRecord
	ids         map[string]int
	result      ClusterResult
}

func (b *clusterBuilder) surname(id string) string {
	return b.recordByID[id].Surname
}

// validSurname filters junk: a candidate surname must be non-empty and
// start with an uppercase letter.
func validSurname(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// claimID returns base as a group id, suffixing "-2", "-3", ... on collision
// so ids stay deterministic for a given input.
func (b *clusterBuilder) claimID(base string) string {
	b.ids[base]++
	if n := b.ids[base]; n > 1 {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}

func (b *clusterBuilder) addGroup(id, label, parentID string, kind common.GroupKind) {
	b.result.Groups = append(b.result.Groups, common.GroupNode{
		ID:       id,
		Label:    label,
		ParentID: parentID,
		Kind:     kind,
	})
}

// explicitFamilies clusters every surname shared by at least two active
// nodes. Clusters appear in order of the surname's first active member.
func (b *clusterBuilder) explicitFamilies() {
	counts := make(map[string]int)
	for _, id := range b.active {
		if sn := b.surname(id); validSurname(sn) {
			counts[sn]++
		}
	}

	created := make(map[string]string)
	for _, id := range b.active {
		sn := b.surname(id)
		if !validSurname(sn) || counts[sn] < 2 {
			continue
		}
		gid, ok := created[sn]
		if !ok {
			gid = b.claimID("family-" + util.Slug(sn))
			created[sn] = gid
			b.addGroup(gid, sn+" Family", "", common.GroupFamilyExplicit)
		}
		b.result.ParentOf[id] = gid
	}
}

// inferredFamilies finds connected components of still-unassigned nodes
// linked by family-role edges and clusters each component of two or more.
func (b *clusterBuilder) inferredFamilies() {
	adjacency := make(map[string][]string)
	for _, e := range b.edges {
		if !IsFamilyRole(e.Role, b.extraFamily) {
			continue
		}
		if b.assigned(e.SourceID) || b.assigned(e.TargetID) {
			continue
		}
		adjacency[e.SourceID] = append(adjacency[e.SourceID], e.TargetID)
		adjacency[e.TargetID] = append(adjacency[e.TargetID], e.SourceID)
	}

	groupNumber := 0
	visited := make(map[string]struct{})
	for _, id := range b.active {
		if b.assigned(id) {
			continue
		}
		if _, ok := visited[id]; ok {
			continue
		}
		component := bfs(id, adjacency, visited)
		if len(component) < 2 {
			continue
		}

		label := ""
		base := ""
		if sn := bestSurname(component, b.recordByID); sn != "" {
			label = sn + " Family"
			base = "family-" + util.Slug(sn)
		} else {
			groupNumber++
			label = fmt.Sprintf("Family Group %d", groupNumber)
			base = fmt.Sprintf("family-group-%d", groupNumber)
		}

		gid := b.claimID(base)
		b.addGroup(gid, label, "", common.GroupFamilyInferred)
		for _, member := range component {
			b.result.ParentOf[member] = gid
		}
	}
}

// bestSurname picks the best-represented valid surname of a component,
// requiring at least two members to share it. Ties break to the first
// surname reaching the maximum count in component order.
func bestSurname(component []string, recordByID map[string]common.CharacterRecord) string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, id := range component {
		sn := recordByID[id].Surname
		if !validSurname(sn) {
			continue
		}
		if counts[sn] == 0 {
			order = append(order, sn)
		}
		counts[sn]++
	}

	best := ""
	bestCount := 1
	for _, sn := range order {
		if counts[sn] > bestCount {
			best = sn
			bestCount = counts[sn]
		}
	}
	return best
}

// roleClusters groups the remaining nodes by shared non-family roles,
// processing roles in descending edge-count order so the strongest
// associations claim nodes first.
func (b *clusterBuilder) roleClusters() {
	unassigned := make(map[string]struct{})
	for _, id := range b.active {
		if !b.assigned(id) {
			unassigned[id] = struct{}{}
		}
	}

	roleEdges := make(map[string][]common.RawEdge)
	roleLabel := make(map[string]string)
	var roleOrder []string
	for _, e := range b.edges {
		if IsFamilyRole(e.Role, b.extraFamily) {
			continue
		}
		if _, ok := unassigned[e.SourceID]; !ok {
			continue
		}
		if _, ok := unassigned[e.TargetID]; !ok {
			continue
		}
		key := strings.ToLower(e.Role)
		if _, ok := roleEdges[key]; !ok {
			roleOrder = append(roleOrder, key)
			roleLabel[key] = e.Role
		}
		roleEdges[key] = append(roleEdges[key], e)
	}

	sort.SliceStable(roleOrder, func(i, j int) bool {
		ci, cj := len(roleEdges[roleOrder[i]]), len(roleEdges[roleOrder[j]])
		if ci != cj {
			return ci > cj
		}
		return roleOrder[i] < roleOrder[j]
	})

	claimed := make(map[string]struct{})
	for _, key := range roleOrder {
		adjacency := make(map[string][]string)
		for _, e := range roleEdges[key] {
			adjacency[e.SourceID] = append(adjacency[e.SourceID], e.TargetID)
			adjacency[e.TargetID] = append(adjacency[e.TargetID], e.SourceID)
		}

		visited := make(map[string]struct{})
		for _, id := range b.active {
			if _, ok := adjacency[id]; !ok {
				continue
			}
			if _, ok := visited[id]; ok {
				continue
			}
			component := bfs(id, adjacency, visited)
			if len(component) < 2 {
				continue
			}
			if anyClaimed(component, claimed) {
				continue
			}

			gid := b.claimID("role-" + util.Slug(key))
			b.addGroup(gid, util.TitleCase(roleLabel[key]), "", common.GroupRoleCluster)
			for _, member := range component {
				b.result.ParentOf[member] = gid
				claimed[member] = struct{}{}
			}
		}
	}
}

// fanOutSubgroups collapses a source's two-or-more same-role targets into a
// sub-group nested under the targets' shared parent, unless that parent's
// label already names the role, in which case the parent is reused.
func (b *clusterBuilder) fanOutSubgroups() {
	labelOf := make(map[string]string, len(b.result.Groups))
	for _, g := range b.result.Groups {
		labelOf[g.ID] = g.Label
	}

	for _, source := range b.active {
		for _, fan := range fanOuts(source, b.edges) {
			if len(fan.targets) < 2 {
				continue
			}

			shared := b.result.ParentOf[fan.targets[0]]
			uniform := true
			for _, t := range fan.targets[1:] {
				if b.result.ParentOf[t] != shared {
					uniform = false
					break
				}
			}
			if !uniform {
				continue
			}

			// "Friends" fan-out into a cluster already labeled Friends
			// reuses the cluster instead of nesting another level.
			stem := strings.TrimSuffix(fan.key, "s")
			if shared != "" && strings.Contains(strings.ToLower(labelOf[shared]), stem) {
				b.recordSubgroup(source, fan.key, shared)
				continue
			}

			gid := b.claimID("sub-" + util.Slug(source) + "-" + util.Slug(fan.key))
			b.addGroup(gid, util.TitleCase(fan.role), shared, common.GroupRoleSubgroup)
			labelOf[gid] = util.TitleCase(fan.role)
			for _, t := range fan.targets {
				b.result.ParentOf[t] = gid
			}
			b.recordSubgroup(source, fan.key, gid)
			b.result.SubgroupOrigins[gid] = SubgroupOrigin{SourceID: source, Role: fan.key}
		}
	}
}

func (b *clusterBuilder) recordSubgroup(source, roleKey, groupID string) {
	m, ok := b.result.SourceRoleSubgroups[source]
	if !ok {
		m = make(map[string]string)
		b.result.SourceRoleSubgroups[source] = m
	}
	m[roleKey] = groupID
}

func (b *clusterBuilder) assigned(id string) bool {
	_, ok := b.result.ParentOf[id]
	return ok
}

type fanOut struct {
	key     string // lower-cased role
	role    string // role as written, first occurrence
	targets []string
}

// fanOuts groups a source's raw edges by role, preserving role and target
// order of first appearance and de-duplicating targets.
func fanOuts(source string, edges []common.RawEdge) []fanOut {
	var fans []fanOut
	index := make(map[string]int)
	for _, e := range edges {
		if e.SourceID != source {
			continue
		}
		key := strings.ToLower(e.Role)
		i, ok := index[key]
		if !ok {
			i = len(fans)
			index[key] = i
			fans = append(fans, fanOut{key: key, role: e.Role})
		}
		duplicate := false
		for _, t := range fans[i].targets {
			if t == e.TargetID {
				duplicate = true
				break
			}
		}
		if !duplicate {
			fans[i].targets = append(fans[i].targets, e.TargetID)
		}
	}
	return fans
}

func anyClaimed(component []string, claimed map[string]struct{}) bool {
	for _, id := range component {
		if _, ok := claimed[id]; ok {
			return true
		}
	}
	return false
}

// bfs walks one connected component starting at root, marking members in
// visited and returning them in traversal order.
func bfs(root string, adjacency map[string][]string, visited map[string]struct{}) []string {
	if _, ok := visited[root]; ok {
		return nil
	}
	visited[root] = struct{}{}
	component := []string{root}
	queue := []string{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			component = append(component, next)
			queue = append(queue, next)
		}
	}
	return component
}
