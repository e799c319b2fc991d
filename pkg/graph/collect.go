package graph

import (
	"github.com/inkforge/castline/pkg/common"
)

// CollectResult is the flat, resolved view of every relationship mention
// across the record set. Active preserves first-seen order, which later
// stages rely on for deterministic output.
type CollectResult struct {
	Active []string
	Edges  []common.RawEdge
}

// Collect scans every record's relationship bag and emits one raw edge per
// resolved (source, target, role) mention. Self-references and references
// to characters outside the record set are dropped silently.
func Collect(records []common.CharacterRecord) CollectResult {
	ix := NewNameIndex(records)

	var result CollectResult
	seen := make(map[string]struct{})

	activate := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		result.Active = append(result.Active, id)
	}

	for _, record := range records {
		for _, field := range record.Relationships {
			if field.Role == "" {
				continue
			}
			for _, raw := range field.Targets {
				target := ix.Resolve(raw)
				if target == "" || target == record.ID {
					continue
				}
				activate(record.ID)
				activate(target)
				result.Edges = append(result.Edges, common.RawEdge{
					SourceID: record.ID,
					TargetID: target,
					Role:     field.Role,
				})
			}
		}
	}

	return result
}
