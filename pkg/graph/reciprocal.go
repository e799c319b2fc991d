package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkforge/castline/pkg/common"
	"github.com/inkforge/castline/pkg/inverse"
	"github.com/inkforge/castline/pkg/logger"
)

var (
	// ErrNeedsInput is returned when no inverse could be inferred and no
	// prompt collaborator is available; the caller must supply the label.
	ErrNeedsInput = errors.New("inverse role needs user input")

	// ErrCanceled is returned when the prompt collaborator declined to
	// choose an inverse label.
	ErrCanceled = errors.New("inverse resolution canceled")

	// ErrUnknownCharacter is returned when the source or target id does
	// not name a known record.
	ErrUnknownCharacter = errors.New("unknown character")
)

// DocumentWriter appends one relationship line to a character note,
// merging into an existing same-role field when one is present.
type DocumentWriter interface {
	AppendRelationship(ctx context.Context, targetID, role, sourceName string) error
}

// PairSaver persists one learned inverse pair.
type PairSaver interface {
	SaveInversePair(ctx context.Context, roleA, roleB string) error
}

// InversePrompt is the request handed to a prompt collaborator.
type InversePrompt struct {
	SourceID    string
	TargetID    string
	Role        string
	Suggestions []string
}

// Prompter asks the user for the inverse role label. Returning an empty
// label means the user canceled.
type Prompter interface {
	ChooseInverse(ctx context.Context, prompt InversePrompt) (string, error)
}

// Reciprocal resolves what role label a link target should use to refer
// back to the link source, and keeps the inverse-pair dictionary
// consistent while doing so.
type Reciprocal struct {
	dict   *inverse.Dictionary
	writer DocumentWriter
	saver  PairSaver
}

// NewReciprocal creates a resolver over the given dictionary. writer
// performs the target-note mutation; saver persists learned pairs and may
// be nil when persistence is handled elsewhere.
func NewReciprocal(dict *inverse.Dictionary, writer DocumentWriter, saver PairSaver) *Reciprocal {
	return &Reciprocal{
		dict:   dict,
		writer: writer,
		saver:  saver,
	}
}

// Resolve determines the inverse role for "source has relationship role to
// target". Sibling inference is tried first; when it fails the prompt
// collaborator chooses, and the chosen label is committed to the target
// note and learned. With a nil prompter, ErrNeedsInput signals that the
// caller must collect the label and call Commit itself.
func (r *Reciprocal) Resolve(
	ctx context.Context,
	records []common.CharacterRecord,
	sourceID, targetID, role string,
	prompter Prompter,
) (string, error) {
	if inferred, ok := r.InferInverse(ctx, records, sourceID, targetID); ok {
		return inferred, nil
	}

	if prompter == nil {
		return "", ErrNeedsInput
	}

	chosen, err := prompter.ChooseInverse(ctx, InversePrompt{
		SourceID:    sourceID,
		TargetID:    targetID,
		Role:        role,
		Suggestions: SuggestInverses(r.dict, records, role, "", DefaultSuggestionCap),
	})
	if err != nil {
		return "", err
	}
	if chosen == "" {
		return "", ErrCanceled
	}

	if err := r.Commit(ctx, records, sourceID, targetID, role, chosen); err != nil {
		return "", err
	}
	return chosen, nil
}

// InferInverse scans the target's relationship bag for a role whose
// targets already mention the source. A hit is adopted without prompting
// and without any document write, and the discovered pair is learned.
func (r *Reciprocal) InferInverse(
	ctx context.Context,
	records []common.CharacterRecord,
	sourceID, targetID string,
) (string, bool) {
	var target *common.CharacterRecord
	for i := range records {
		if records[i].ID == targetID {
			target = &records[i]
			break
		}
	}
	if target == nil {
		return "", false
	}

	ix := NewNameIndex(records)
	for _, field := range target.Relationships {
		for _, raw := range field.Targets {
			if ix.Resolve(raw) != sourceID {
				continue
			}
			if sourceRole := roleUsedFor(records, sourceID, targetID); sourceRole != "" {
				r.learn(ctx, sourceRole, field.Role)
			}
			return field.Role, true
		}
	}
	return "", false
}

// Commit appends "inverseRole: [[source]]" to the target's note, then
// learns the pair. A write failure aborts the whole operation and leaves
// the dictionary untouched; the originating link in the source note is
// left as-is.
func (r *Reciprocal) Commit(
	ctx context.Context,
	records []common.CharacterRecord,
	sourceID, targetID, role, inverseRole string,
) error {
	sourceName := ""
	targetKnown := false
	for _, rec := range records {
		if rec.ID == sourceID {
			sourceName = rec.DisplayName
		}
		if rec.ID == targetID {
			targetKnown = true
		}
	}
	if sourceName == "" {
		sourceName = sourceID
	}
	if !targetKnown {
		return fmt.Errorf("%w: %s", ErrUnknownCharacter, targetID)
	}

	if err := r.writer.AppendRelationship(ctx, targetID, inverseRole, sourceName); err != nil {
		return fmt.Errorf("failed to write reciprocal relationship to %s: %w", targetID, err)
	}

	r.learn(ctx, role, inverseRole)
	return nil
}

func (r *Reciprocal) learn(ctx context.Context, roleA, roleB string) {
	if !r.dict.Learn(roleA, roleB) {
		return
	}
	logger.Info("[Reciprocal] Learned inverse pair", "role", roleA, "inverse", roleB)
	if r.saver == nil {
		return
	}
	if err := r.saver.SaveInversePair(ctx, roleA, roleB); err != nil {
		logger.Error("[Reciprocal] Failed to persist inverse pair",
			"role", roleA, "inverse", roleB, "err", err)
	}
}

// roleUsedFor finds the role label the source note used for the target,
// so a sibling-inferred inverse can be paired with it.
func roleUsedFor(records []common.CharacterRecord, sourceID, targetID string) string {
	var source *common.CharacterRecord
	for i := range records {
		if records[i].ID == sourceID {
			source = &records[i]
			break
		}
	}
	if source == nil {
		return ""
	}

	ix := NewNameIndex(records)
	for _, field := range source.Relationships {
		for _, raw := range field.Targets {
			if ix.Resolve(raw) == targetID {
				return field.Role
			}
		}
	}
	return ""
}
