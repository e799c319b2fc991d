package inverse

import (
	"reflect"
	"testing"
)

func TestLearnAndLookup(t *testing.T) {
	d := New()

	if changed := d.Learn("Mentor", "Student"); !changed {
		t.Fatal("Learn(Mentor, Student) = false, want true on first insert")
	}
	if changed := d.Learn("mentor", "STUDENT"); changed {
		t.Fatal("Learn(mentor, STUDENT) = true, want false on repeat insert")
	}

	if !d.AreInverse("student", "Mentor") {
		t.Fatal("AreInverse(student, Mentor) = false, want true")
	}
	if d.AreInverse("mentor", "rival") {
		t.Fatal("AreInverse(mentor, rival) = true, want false")
	}
}

func TestLookupSorted(t *testing.T) {
	d := New()
	d.Learn("parent", "son")
	d.Learn("parent", "daughter")
	d.Learn("parent", "child")

	got := d.Lookup("Parent")
	want := []string{"child", "daughter", "son"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Lookup(Parent) = %v, want %v", got, want)
	}
}

func TestSelfInverse(t *testing.T) {
	d := New()
	d.Learn("rival", "rival")

	if !d.AreInverse("Rival", "rival") {
		t.Fatal("AreInverse(Rival, rival) = false, want true")
	}
	if got := d.Lookup("rival"); !reflect.DeepEqual(got, []string{"rival"}) {
		t.Fatalf("Lookup(rival) = %v, want [rival]", got)
	}
}

func TestMultipleInversesAccumulate(t *testing.T) {
	d := New()
	d.Learn("parent", "son")
	d.Learn("parent", "daughter")

	// Learning a second inverse must not displace the first.
	if !d.AreInverse("parent", "son") || !d.AreInverse("parent", "daughter") {
		t.Fatal("expected parent to keep both son and daughter as inverses")
	}
	if !d.AreInverse("son", "parent") {
		t.Fatal("AreInverse(son, parent) = false, want true (symmetric)")
	}
}

func TestFromMapAndSnapshot(t *testing.T) {
	d := FromMap(map[string][]string{
		"Mentor": {"Student", "Protege"},
	})

	snap := d.Snapshot()
	if !reflect.DeepEqual(snap["mentor"], []string{"protege", "student"}) {
		t.Fatalf("Snapshot()[mentor] = %v, want [protege student]", snap["mentor"])
	}
	if !reflect.DeepEqual(snap["student"], []string{"mentor"}) {
		t.Fatalf("Snapshot()[student] = %v, want [mentor]", snap["student"])
	}
}

func TestBlankRolesIgnored(t *testing.T) {
	d := New()
	if changed := d.Learn("", "parent"); changed {
		t.Fatal("Learn with empty role reported a change")
	}
	if got := d.Roles(); len(got) != 0 {
		t.Fatalf("Roles() = %v, want empty", got)
	}
}
