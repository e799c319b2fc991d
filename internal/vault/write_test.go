package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNote(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadedVault(t *testing.T, dir string) *Vault {
	t.Helper()
	v := New(dir, 1)
	_, err := v.Load(context.Background())
	require.NoError(t, err)
	return v
}

func TestAppendRelationshipMergesExistingRole(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "bob.md", `---
name: Bob
---

## Relationships
Friend: [[Clara]]
`)
	v := loadedVault(t, dir)

	require.NoError(t, v.AppendRelationship(context.Background(), "bob", "Friend", "Anna Smith"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "Friend: [[Clara]], [[Anna Smith]]")
}

func TestAppendRelationshipAddsRoleLine(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "bob.md", `## Relationships
Friend: [[Clara]]

## Appearance
Tall.
`)
	v := loadedVault(t, dir)

	require.NoError(t, v.AppendRelationship(context.Background(), "bob", "Student", "Anna Smith"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	record, err := ParseCharacter("bob", got)
	require.NoError(t, err)
	require.Len(t, record.Relationships, 2)
	assert.Equal(t, "Student", record.Relationships[1].Role)
	assert.Equal(t, []string{"Anna Smith"}, record.Relationships[1].Targets)
}

func TestAppendRelationshipCreatesSection(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "bob.md", `---
name: Bob
---

# Bob

Just notes.
`)
	v := loadedVault(t, dir)

	require.NoError(t, v.AppendRelationship(context.Background(), "bob", "Friend", "Anna Smith"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	record, err := ParseCharacter("bob", got)
	require.NoError(t, err)
	require.Len(t, record.Relationships, 1)
	assert.Equal(t, "Friend", record.Relationships[0].Role)
	assert.Equal(t, []string{"Anna Smith"}, record.Relationships[0].Targets)
}

func TestAppendRelationshipIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "bob.md", `## Relationships
Friend: [[Anna Smith]]
`)
	v := loadedVault(t, dir)

	require.NoError(t, v.AppendRelationship(context.Background(), "bob", "Friend", "Anna Smith"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	record, err := ParseCharacter("bob", got)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anna Smith"}, record.Relationships[0].Targets)
}

func TestAppendRelationshipRoleMatchIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "bob.md", `## Relationships
friend: [[Clara]]
`)
	v := loadedVault(t, dir)

	require.NoError(t, v.AppendRelationship(context.Background(), "bob", "Friend", "Anna"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "friend: [[Clara]], [[Anna]]")
}

func TestAppendRelationshipUnknownNote(t *testing.T) {
	v := loadedVault(t, t.TempDir())
	err := v.AppendRelationship(context.Background(), "ghost", "Friend", "Anna")
	assert.ErrorIs(t, err, ErrNotFound)
}
