package common

// Graph is the renderable relationship model handed to the layout
// collaborator. It is rebuilt from scratch on every pass; nothing in it
// is persisted.
//
// A graph contains:
//   - Nodes: one per active character
//   - Groups: synthetic family/role clusters and nested sub-groups
//   - Edges: deduplicated relationship edges plus structural fan-out edges
type Graph struct {
	ID     string      `json:"id"`
	Nodes  []GraphNode `json:"nodes"`
	Groups []GroupNode `json:"groups"`
	Edges  []GraphEdge `json:"edges"`
}

// RelationshipField is one named relationship entry of a character note:
// a free-form role label and the ordered raw target references found under
// it. Targets are raw strings, possibly wiki-link syntax or plain names.
type RelationshipField struct {
	Role    string   `json:"role"`
	Targets []string `json:"targets"`
}

// CharacterRecord is an immutable snapshot of one parsed character note.
// ID is the stable identity (the note's file identifier without extension).
// Role is a narrative importance tag and is informational only.
//
// Relationships preserves the order fields appear in the note, which the
// graph build relies on for deterministic output.
type CharacterRecord struct {
	ID            string              `json:"id"`
	DisplayName   string              `json:"display_name"`
	Surname       string              `json:"surname"`
	Role          string              `json:"role"`
	Relationships []RelationshipField `json:"relationships"`
}

// RawEdge is one resolved relationship mention before deduplication:
// source character, target character, and the role label the source used.
type RawEdge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Role     string `json:"role"`
}

// GraphNode represents one character in the final model. ParentID, when
// set, names the enclosing group or sub-group.
type GraphNode struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	ParentID string `json:"parent_id,omitempty"`
}

// GroupKind distinguishes how a cluster was derived.
type GroupKind string

const (
	GroupFamilyExplicit GroupKind = "family-explicit"
	GroupFamilyInferred GroupKind = "family-inferred"
	GroupRoleCluster    GroupKind = "role-cluster"
	GroupRoleSubgroup   GroupKind = "role-subgroup"
)

// GroupNode is a synthetic container grouping related nodes. Sub-groups
// carry the ParentID of the cluster they nest under. Groups only exist for
// the lifetime of one build.
type GroupNode struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	ParentID string    `json:"parent_id,omitempty"`
	Kind     GroupKind `json:"kind"`
}

// Orientation classifies an edge for the layout collaborator. Vertical
// edges participate in the hierarchical layout pass; horizontal edges are
// drawn afterwards without influencing placement.
type Orientation string

const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// GraphEdge is one drawn edge of the final model. Endpoints may be node or
// group ids. An empty label marks a pure structural edge.
type GraphEdge struct {
	SourceID    string      `json:"source_id"`
	TargetID    string      `json:"target_id"`
	Label       string      `json:"label"`
	Orientation Orientation `json:"orientation"`
}
