package graph

import (
	"fmt"
	"sort"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/inkforge/castline/pkg/common"
	"github.com/inkforge/castline/pkg/inverse"
	"github.com/inkforge/castline/pkg/logger"
)

// BuildGraph runs the full pipeline: collect resolved mentions, derive the
// cluster hierarchy, finalize the edge set, and assemble the model. Apart
// from the snapshot id the output is fully determined by the inputs;
// rebuilding from unchanged records and an unchanged dictionary yields an
// identical node/group/edge set.
func (b *Builder) BuildGraph(records []common.CharacterRecord, dict *inverse.Dictionary) (*common.Graph, error) {
	sorted := make([]common.CharacterRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	collected := Collect(sorted)
	logger.Debug("[Graph] Collected relationship mentions",
		"active", len(collected.Active), "edges", len(collected.Edges))

	clusters := BuildClusters(collected.Active, sorted, collected.Edges, b.familySynonyms)
	logger.Debug("[Graph] Built clusters", "groups", len(clusters.Groups))

	edges := FinalizeEdges(FinalizeParams{
		Edges:       collected.Edges,
		Clusters:    clusters,
		Dict:        dict,
		ExtraFamily: b.familySynonyms,
	})
	logger.Debug("[Graph] Finalized edges", "drawn", len(edges), "raw", len(collected.Edges))

	recordByID := make(map[string]common.CharacterRecord, len(sorted))
	for _, r := range sorted {
		recordByID[r.ID] = r
	}

	nodes := make([]common.GraphNode, 0, len(collected.Active))
	for _, id := range collected.Active {
		label := recordByID[id].DisplayName
		if label == "" {
			label = id
		}
		nodes = append(nodes, common.GraphNode{
			ID:       id,
			Label:    label,
			ParentID: clusters.ParentOf[id],
		})
	}

	snapshotID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate graph snapshot id: %w", err)
	}

	return &common.Graph{
		ID:     snapshotID,
		Nodes:  nodes,
		Groups: clusters.Groups,
		Edges:  edges,
	}, nil
}
