package graph

import (
	"reflect"
	"testing"

	"github.com/inkforge/castline/pkg/common"
)

func record(id, display, surname string) common.CharacterRecord {
	return common.CharacterRecord{ID: id, DisplayName: display, Surname: surname}
}

func groupByID(t *testing.T, groups []common.GroupNode, id string) common.GroupNode {
	t.Helper()
	for _, g := range groups {
		if g.ID == id {
			return g
		}
	}
	t.Fatalf("group %q not found in %+v", id, groups)
	return common.GroupNode{}
}

func TestExplicitFamilies(t *testing.T) {
	records := []common.CharacterRecord{
		record("anna", "Anna Smith", "Smith"),
		record("bob", "Bob Smith", "Smith"),
		record("clara", "Clara Jones", "Jones"),
	}
	active := []string{"anna", "bob", "clara"}

	got := BuildClusters(active, records, nil, nil)

	g := groupByID(t, got.Groups, "family-smith")
	if g.Label != "Smith Family" || g.Kind != common.GroupFamilyExplicit {
		t.Fatalf("family-smith = %+v, want label %q kind %q", g, "Smith Family", common.GroupFamilyExplicit)
	}
	if got.ParentOf["anna"] != "family-smith" || got.ParentOf["bob"] != "family-smith" {
		t.Fatalf("ParentOf = %v, want anna and bob in family-smith", got.ParentOf)
	}
	// A lone surname never forms a family.
	if _, ok := got.ParentOf["clara"]; ok {
		t.Fatalf("clara assigned to %q, want unassigned", got.ParentOf["clara"])
	}
}

func TestExplicitFamilyIgnoresLowercaseSurname(t *testing.T) {
	records := []common.CharacterRecord{
		record("a", "A smith", "smith"),
		record("b", "B smith", "smith"),
	}
	got := BuildClusters([]string{"a", "b"}, records, nil, nil)
	if len(got.Groups) != 0 {
		t.Fatalf("Groups = %+v, want none for invalid surnames", got.Groups)
	}
}

func TestInferredFamilies(t *testing.T) {
	records := []common.CharacterRecord{
		record("mara", "Mara", ""),
		record("tom", "Tom", ""),
		record("lena", "Lena", ""),
	}
	active := []string{"mara", "tom", "lena"}
	edges := []common.RawEdge{
		{SourceID: "mara", TargetID: "tom", Role: "Son"},
		{SourceID: "lena", TargetID: "mara", Role: "Rival"},
	}

	got := BuildClusters(active, records, edges, nil)

	g := groupByID(t, got.Groups, "family-group-1")
	if g.Label != "Family Group 1" || g.Kind != common.GroupFamilyInferred {
		t.Fatalf("inferred family = %+v", g)
	}
	if got.ParentOf["mara"] != "family-group-1" || got.ParentOf["tom"] != "family-group-1" {
		t.Fatalf("ParentOf = %v, want mara and tom in family-group-1", got.ParentOf)
	}
	if _, ok := got.ParentOf["lena"]; ok {
		t.Fatal("lena joined a family via a non-family edge")
	}
}

func TestInferredFamilyNamedAfterDominantSurname(t *testing.T) {
	records := []common.CharacterRecord{
		record("mara", "Mara Stone", "Stone"),
		record("tom", "Tom Stone", "Stone"),
	}
	// One Stone alone is not an explicit family (the surname stage needs
	// two ACTIVE members, and here both are active, so make the stage
	// miss by clearing one surname).
	records[1].Surname = ""
	edges := []common.RawEdge{
		{SourceID: "mara", TargetID: "tom", Role: "Sister"},
	}

	got := BuildClusters([]string{"mara", "tom"}, records, edges, nil)

	if len(got.Groups) != 1 {
		t.Fatalf("Groups = %+v, want one inferred family", got.Groups)
	}
	// Only one member carries the surname, so the numbered fallback is used.
	if got.Groups[0].Label != "Family Group 1" {
		t.Fatalf("label = %q, want %q", got.Groups[0].Label, "Family Group 1")
	}
}

func TestRoleClusters(t *testing.T) {
	records := []common.CharacterRecord{
		record("a", "A", ""),
		record("b", "B", ""),
		record("c", "C", ""),
		record("d", "D", ""),
	}
	active := []string{"a", "b", "c", "d"}
	edges := []common.RawEdge{
		{SourceID: "a", TargetID: "b", Role: "Rival"},
		{SourceID: "c", TargetID: "d", Role: "mentor"},
		{SourceID: "c", TargetID: "a", Role: "mentor"},
	}

	got := BuildClusters(active, records, edges, nil)

	// "mentor" has two edges, "rival" one; mentor clusters first and
	// claims a, so the rival component is skipped entirely.
	g := groupByID(t, got.Groups, "role-mentor")
	if g.Label != "Mentor" || g.Kind != common.GroupRoleCluster {
		t.Fatalf("role-mentor = %+v", g)
	}
	for _, id := range []string{"a", "c", "d"} {
		if got.ParentOf[id] != "role-mentor" {
			t.Fatalf("ParentOf[%s] = %q, want role-mentor", id, got.ParentOf[id])
		}
	}
	if _, ok := got.ParentOf["b"]; ok {
		t.Fatalf("ParentOf[b] = %q, want unassigned", got.ParentOf["b"])
	}
	if len(got.Groups) != 1 {
		t.Fatalf("Groups = %+v, want only role-mentor", got.Groups)
	}
}

func TestFanOutCreatesSubgroup(t *testing.T) {
	records := []common.CharacterRecord{
		record("hero", "Hero", ""),
		record("x", "X Smith", "Smith"),
		record("y", "Y Smith", "Smith"),
	}
	active := []string{"hero", "x", "y"}
	edges := []common.RawEdge{
		{SourceID: "hero", TargetID: "x", Role: "Allies"},
		{SourceID: "hero", TargetID: "y", Role: "Allies"},
	}

	got := BuildClusters(active, records, edges, nil)

	// Both allies live in the Smith family, whose label does not name the
	// role, so the fan-out nests an Allies sub-group inside it.
	g := groupByID(t, got.Groups, "sub-hero-allies")
	if g.Label != "Allies" || g.Kind != common.GroupRoleSubgroup || g.ParentID != "family-smith" {
		t.Fatalf("sub-hero-allies = %+v", g)
	}
	if got.ParentOf["x"] != "sub-hero-allies" || got.ParentOf["y"] != "sub-hero-allies" {
		t.Fatalf("ParentOf = %v", got.ParentOf)
	}
	if got.SourceRoleSubgroups["hero"]["allies"] != "sub-hero-allies" {
		t.Fatalf("SourceRoleSubgroups = %v", got.SourceRoleSubgroups)
	}
	want := SubgroupOrigin{SourceID: "hero", Role: "allies"}
	if origin := got.SubgroupOrigins["sub-hero-allies"]; origin != want {
		t.Fatalf("SubgroupOrigins = %+v, want %+v", origin, want)
	}
}

func TestFanOutReusesMatchingCluster(t *testing.T) {
	records := []common.CharacterRecord{
		record("p", "P", ""),
		record("q", "Q", ""),
		record("r", "R", ""),
	}
	active := []string{"p", "q", "r"}
	edges := []common.RawEdge{
		{SourceID: "p", TargetID: "q", Role: "Friends"},
		{SourceID: "p", TargetID: "r", Role: "Friends"},
		{SourceID: "q", TargetID: "r", Role: "Friend"},
	}

	got := BuildClusters(active, records, edges, nil)

	// All three land in one Friends role cluster; p's fan-out reuses it
	// instead of nesting a sub-group.
	if len(got.Groups) != 1 || got.Groups[0].ID != "role-friends" {
		t.Fatalf("Groups = %+v, want only role-friends", got.Groups)
	}
	if got.SourceRoleSubgroups["p"]["friends"] != "role-friends" {
		t.Fatalf("SourceRoleSubgroups = %v, want p/friends -> role-friends", got.SourceRoleSubgroups)
	}
	if len(got.SubgroupOrigins) != 0 {
		t.Fatalf("SubgroupOrigins = %v, want empty when reusing a cluster", got.SubgroupOrigins)
	}
}

func TestFanOutSkippedWhenParentsDiffer(t *testing.T) {
	records := []common.CharacterRecord{
		record("hero", "Hero", ""),
		record("x", "X Smith", "Smith"),
		record("y", "Y Smith", "Smith"),
		record("z", "Z", ""),
	}
	active := []string{"hero", "x", "y", "z"}
	edges := []common.RawEdge{
		{SourceID: "hero", TargetID: "x", Role: "Allies"},
		{SourceID: "hero", TargetID: "z", Role: "Allies"},
	}

	got := BuildClusters(active, records, edges, nil)

	// x is in the Smith family, z is unparented: no shared parent, no
	// sub-group.
	if _, ok := got.SourceRoleSubgroups["hero"]; ok {
		t.Fatalf("SourceRoleSubgroups = %v, want none", got.SourceRoleSubgroups)
	}
}

func TestClusterStagesAreOrdered(t *testing.T) {
	// A node with an explicit surname family never joins a role cluster.
	records := []common.CharacterRecord{
		record("anna", "Anna Smith", "Smith"),
		record("bob", "Bob Smith", "Smith"),
		record("c", "C", ""),
		record("d", "D", ""),
	}
	active := []string{"anna", "bob", "c", "d"}
	edges := []common.RawEdge{
		{SourceID: "anna", TargetID: "c", Role: "Rival"},
		{SourceID: "c", TargetID: "d", Role: "Rival"},
	}

	got := BuildClusters(active, records, edges, nil)

	if got.ParentOf["anna"] != "family-smith" {
		t.Fatalf("ParentOf[anna] = %q, want family-smith", got.ParentOf["anna"])
	}
	// The rival component among unassigned nodes is just c and d.
	if got.ParentOf["c"] != "role-rival" || got.ParentOf["d"] != "role-rival" {
		t.Fatalf("ParentOf = %v, want c and d in role-rival", got.ParentOf)
	}
}

func TestClusterDeterminism(t *testing.T) {
	records := []common.CharacterRecord{
		record("anna", "Anna Smith", "Smith"),
		record("bob", "Bob Smith", "Smith"),
		record("c", "C", ""),
		record("d", "D", ""),
	}
	active := []string{"anna", "bob", "c", "d"}
	edges := []common.RawEdge{
		{SourceID: "c", TargetID: "d", Role: "Rival"},
		{SourceID: "anna", TargetID: "c", Role: "Friend"},
	}

	first := BuildClusters(active, records, edges, nil)
	second := BuildClusters(active, records, edges, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("BuildClusters not deterministic:\n%+v\nvs\n%+v", first, second)
	}
}
