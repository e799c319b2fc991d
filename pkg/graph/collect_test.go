package graph

import (
	"reflect"
	"testing"

	"github.com/inkforge/castline/pkg/common"
)

func TestCollect(t *testing.T) {
	records := []common.CharacterRecord{
		{
			ID:          "anna",
			DisplayName: "Anna Smith",
			Relationships: []common.RelationshipField{
				{Role: "Mother", Targets: []string{"[[Bob Smith]]"}},
				{Role: "Friend", Targets: []string{"[[Clara]]", "[[Daenerys]]"}},
				{Role: "", Targets: []string{"[[Clara]]"}},
			},
		},
		{
			ID:          "bob",
			DisplayName: "Bob Smith",
			Relationships: []common.RelationshipField{
				{Role: "Son", Targets: []string{"[[Anna Smith]]"}},
				{Role: "Self", Targets: []string{"[[Bob Smith]]"}},
			},
		},
		{ID: "clara", DisplayName: "Clara"},
		{ID: "eve", DisplayName: "Eve"},
	}

	got := Collect(records)

	wantEdges := []common.RawEdge{
		{SourceID: "anna", TargetID: "bob", Role: "Mother"},
		{SourceID: "anna", TargetID: "clara", Role: "Friend"},
		{SourceID: "bob", TargetID: "anna", Role: "Son"},
	}
	if !reflect.DeepEqual(got.Edges, wantEdges) {
		t.Fatalf("Collect edges = %+v, want %+v", got.Edges, wantEdges)
	}

	// eve never appears in an edge; daenerys is unknown. Neither activates.
	wantActive := []string{"anna", "bob", "clara"}
	if !reflect.DeepEqual(got.Active, wantActive) {
		t.Fatalf("Collect active = %v, want %v", got.Active, wantActive)
	}
}

func TestCollectEmpty(t *testing.T) {
	got := Collect(nil)
	if len(got.Active) != 0 || len(got.Edges) != 0 {
		t.Fatalf("Collect(nil) = %+v, want empty result", got)
	}
}

func TestCollectDuplicateMentionsKept(t *testing.T) {
	// Raw collection keeps duplicates; de-duplication happens during edge
	// finalization.
	records := []common.CharacterRecord{
		{
			ID:          "anna",
			DisplayName: "Anna",
			Relationships: []common.RelationshipField{
				{Role: "Friend", Targets: []string{"[[Bob]]", "[[Bob]]"}},
			},
		},
		{ID: "bob", DisplayName: "Bob"},
	}

	got := Collect(records)
	if len(got.Edges) != 2 {
		t.Fatalf("Collect produced %d edges, want 2", len(got.Edges))
	}
}
