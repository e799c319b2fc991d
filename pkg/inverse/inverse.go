// Package inverse holds the learned dictionary of mutually inverse role
// labels (e.g. "Parent"/"Child"). The dictionary is symmetric by
// construction, grows monotonically, and is never shrunk automatically.
package inverse

import (
	"sort"
	"strings"
	"sync"
)

// Dictionary maps a lower-cased role label to the set of role labels known
// to be its semantic inverse. Safe for concurrent use; Learn is atomic with
// respect to concurrent learns.
type Dictionary struct {
	mu    sync.RWMutex
	pairs map[string]map[string]struct{}
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{
		pairs: make(map[string]map[string]struct{}),
	}
}

// FromMap rebuilds a dictionary from its persisted form. Symmetry is
// re-established even if the stored map only carries one direction.
func FromMap(m map[string][]string) *Dictionary {
	d := New()
	for role, inverses := range m {
		for _, inv := range inverses {
			d.Learn(role, inv)
		}
	}
	return d
}

// Lookup returns the known inverses of role, lower-cased and sorted.
// The empty slice means nothing has been learned for the label.
func (d *Dictionary) Lookup(role string) []string {
	key := normalize(role)

	d.mu.RLock()
	defer d.mu.RUnlock()

	set, ok := d.pairs[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for inv := range set {
		out = append(out, inv)
	}
	sort.Strings(out)
	return out
}

// AreInverse reports whether the two labels are registered as a mutual
// inverse pair. Comparison is case-insensitive.
func (d *Dictionary) AreInverse(roleA, roleB string) bool {
	a, b := normalize(roleA), normalize(roleB)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if set, ok := d.pairs[a]; ok {
		if _, ok := set[b]; ok {
			return true
		}
	}
	return false
}

// Learn inserts the symmetric mapping between the two labels and reports
// whether the dictionary changed. Idempotent; persistence of the change is
// owned by the caller.
func (d *Dictionary) Learn(roleA, roleB string) bool {
	a, b := normalize(roleA), normalize(roleB)
	if a == "" || b == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	changed := d.insert(a, b)
	if d.insert(b, a) {
		changed = true
	}
	return changed
}

func (d *Dictionary) insert(from, to string) bool {
	set, ok := d.pairs[from]
	if !ok {
		set = make(map[string]struct{})
		d.pairs[from] = set
	}
	if _, ok := set[to]; ok {
		return false
	}
	set[to] = struct{}{}
	return true
}

// Snapshot returns the dictionary as a plain serializable map, inverses
// sorted. The result shares no state with the dictionary.
func (d *Dictionary) Snapshot() map[string][]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string][]string, len(d.pairs))
	for role, set := range d.pairs {
		inverses := make([]string, 0, len(set))
		for inv := range set {
			inverses = append(inverses, inv)
		}
		sort.Strings(inverses)
		out[role] = inverses
	}
	return out
}

// Roles returns every role label the dictionary has an entry for, sorted.
func (d *Dictionary) Roles() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.pairs))
	for role := range d.pairs {
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}

func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
