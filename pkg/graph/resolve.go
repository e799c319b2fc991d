package graph

import (
	"strings"

	"github.com/inkforge/castline/internal/util"
	"github.com/inkforge/castline/pkg/common"
)

// NameIndex resolves raw relationship-target references to the id of a
// known character. Build one per record snapshot with NewNameIndex.
type NameIndex struct {
	byDisplay     map[string]string
	byFile        map[string]string
	byDisplayFold map[string]string
	byFileFold    map[string]string
}

// NewNameIndex indexes the given records. When two records collide on a
// name, the first one in record order wins.
func NewNameIndex(records []common.CharacterRecord) *NameIndex {
	ix := &NameIndex{
		byDisplay:     make(map[string]string, len(records)),
		byFile:        make(map[string]string, len(records)),
		byDisplayFold: make(map[string]string, len(records)),
		byFileFold:    make(map[string]string, len(records)),
	}
	for _, r := range records {
		put(ix.byDisplay, r.DisplayName, r.ID)
		put(ix.byFile, r.ID, r.ID)
		put(ix.byDisplayFold, strings.ToLower(r.DisplayName), r.ID)
		put(ix.byFileFold, strings.ToLower(r.ID), r.ID)
	}
	return ix
}

func put(m map[string]string, key, id string) {
	if key == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = id
	}
}

// Resolve maps a raw reference to a character id, or "" when the reference
// does not name a known character. Matching priority: exact display name,
// exact file identifier, then both again case-insensitively. Unresolved
// references are expected and are not errors.
func (ix *NameIndex) Resolve(rawRef string) string {
	name := util.CleanRef(rawRef)
	if name == "" {
		return ""
	}

	if id, ok := ix.byDisplay[name]; ok {
		return id
	}
	if id, ok := ix.byFile[name]; ok {
		return id
	}

	folded := strings.ToLower(name)
	if id, ok := ix.byDisplayFold[folded]; ok {
		return id
	}
	if id, ok := ix.byFileFold[folded]; ok {
		return id
	}
	return ""
}
