package instance

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors reported by the edit/commit cycle.
var (
	// ErrArchived is returned by every mutating call on a frozen instance.
	ErrArchived = errors.New("instance: archived and read-only")
	// ErrUnknownField is returned when a field key does not resolve against
	// the instance's template.
	ErrUnknownField = errors.New("instance: unknown field key")
	// ErrFieldLocked is returned when a field awaiting justification or an
	// in-flight commit receives a new edit.
	ErrFieldLocked = errors.New("instance: field is locked pending commit")
	// ErrNotPending is returned when a justification arrives for a field
	// that is not awaiting one.
	ErrNotPending = errors.New("instance: field has no pending edit")
	// ErrEmptyJustification rejects blank justifications; the edit stays
	// pending.
	ErrEmptyJustification = errors.New("instance: justification must not be empty")
	// ErrCommitInFlight is returned when a pending field already has a
	// commit on the wire.
	ErrCommitInFlight = errors.New("instance: commit already in flight")
	// ErrUncommittedEdits refuses submission while edits are outstanding.
	ErrUncommittedEdits = errors.New("instance: uncommitted edits outstanding")
)

type fieldState int

const (
	stateDirty fieldState = iota
	statePending
	stateCommitting
)

// track is the per-field state machine record. It exists only while the
// field is away from clean; a committed or reverted field's track is
// dropped.
type track struct {
	state fieldState

	// revertTarget is the pre-edit value captured on the first dirtying
	// edit. Later edits before commit do not overwrite it.
	revertTarget any
	hadValue     bool

	// justification is staged by BeginCommit and consumed when the commit
	// resolves successfully.
	justification string
}

// CommitRequest is the payload handed to the caller by BeginCommit so the
// page can perform the persistence write itself.
type CommitRequest struct {
	FieldKey      string
	Value         any
	Justification string
}

// Edit applies a value change to a field. The first dirtying edit captures
// the pre-edit value as the revert target. Editing a field that is awaiting
// justification or has a commit in flight fails with ErrFieldLocked; an edit
// that does not change the in-memory value is a no-op.
func (in *Instance) Edit(fieldKey string, value any) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.archived {
		return ErrArchived
	}
	if _, ok := in.tpl.FieldByKey(fieldKey); !ok {
		return fmt.Errorf("instance: edit %q: %w", fieldKey, ErrUnknownField)
	}
	if tr, ok := in.tracks[fieldKey]; ok && tr.state != stateDirty {
		return fmt.Errorf("instance: edit %q: %w", fieldKey, ErrFieldLocked)
	}

	current, had := in.answers[fieldKey]
	if had && sameValue(current, value) {
		return nil
	}
	if _, ok := in.tracks[fieldKey]; !ok {
		in.tracks[fieldKey] = &track{
			state:        stateDirty,
			revertTarget: current,
			hadValue:     had,
		}
	}
	in.answers[fieldKey] = value
	return nil
}

// RequestCommit is the blur trigger: it moves a dirty field to pending
// justification when its value actually differs from the persisted baseline.
// A field edited and then edited back to its baseline returns to clean with
// no audit entry. The return value reports whether a justification is now
// required.
func (in *Instance) RequestCommit(fieldKey string) (bool, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.archived {
		return false, ErrArchived
	}
	tr, ok := in.tracks[fieldKey]
	if !ok {
		return false, nil
	}
	if tr.state != stateDirty {
		return true, nil
	}
	if sameValue(in.answers[fieldKey], in.baseline[fieldKey]) {
		delete(in.tracks, fieldKey)
		return false, nil
	}
	tr.state = statePending
	return true, nil
}

// ProvideJustification commits a pending field synchronously through the
// configured committer. A blank justification or a persistence failure
// leaves the field pending; the edit is never discarded.
func (in *Instance) ProvideJustification(ctx context.Context, fieldKey, justification string) error {
	request, err := in.BeginCommit(fieldKey, justification)
	if err != nil {
		return err
	}
	var commitErr error
	if in.committer != nil {
		commitErr = in.committer.Commit(ctx, request.FieldKey, request.Value, request.Justification)
	}
	if err := in.ResolveCommit(fieldKey, commitErr); err != nil {
		return err
	}
	if commitErr != nil {
		return fmt.Errorf("instance: commit %q: %w", fieldKey, commitErr)
	}
	return nil
}

// BeginCommit validates the justification, locks the pending field against
// further edits and cancellation, and returns the write the caller must
// perform. The outcome is reported back through ResolveCommit.
func (in *Instance) BeginCommit(fieldKey, justification string) (CommitRequest, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.archived {
		return CommitRequest{}, ErrArchived
	}
	tr, ok := in.tracks[fieldKey]
	if !ok || tr.state == stateDirty {
		return CommitRequest{}, fmt.Errorf("instance: commit %q: %w", fieldKey, ErrNotPending)
	}
	if tr.state == stateCommitting {
		return CommitRequest{}, fmt.Errorf("instance: commit %q: %w", fieldKey, ErrCommitInFlight)
	}
	if strings.TrimSpace(justification) == "" {
		return CommitRequest{}, fmt.Errorf("instance: commit %q: %w", fieldKey, ErrEmptyJustification)
	}

	tr.state = stateCommitting
	tr.justification = justification
	return CommitRequest{
		FieldKey:      fieldKey,
		Value:         in.answers[fieldKey],
		Justification: justification,
	}, nil
}

// ResolveCommit reports the outcome of a write issued by BeginCommit. On
// success the audit log gains one entry, the baseline advances, and the
// field returns to clean. On failure the field drops back to pending
// justification so the commit can be retried.
func (in *Instance) ResolveCommit(fieldKey string, commitErr error) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	tr, ok := in.tracks[fieldKey]
	if !ok || tr.state != stateCommitting {
		return fmt.Errorf("instance: resolve %q: %w", fieldKey, ErrNotPending)
	}
	if commitErr != nil {
		tr.state = statePending
		return nil
	}

	in.audit = append(in.audit, AuditEntry{
		Field:         fieldKey,
		OldValue:      in.baseline[fieldKey],
		NewValue:      in.answers[fieldKey],
		Justification: tr.justification,
		Actor:         in.actor,
		Timestamp:     in.now(),
	})
	in.baseline[fieldKey] = in.answers[fieldKey]
	delete(in.tracks, fieldKey)
	if in.status == StatusSubmitted {
		in.status = StatusEdited
	}
	return nil
}

// Cancel abandons a dirty or pending edit, restoring the value captured at
// the first dirtying edit. Canceling a clean field is a no-op, so repeated
// cancellation neither duplicates audit entries nor disturbs the revert
// target. A field with a commit in flight cannot be canceled.
func (in *Instance) Cancel(fieldKey string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.archived {
		return ErrArchived
	}
	tr, ok := in.tracks[fieldKey]
	if !ok {
		return nil
	}
	if tr.state == stateCommitting {
		return fmt.Errorf("instance: cancel %q: %w", fieldKey, ErrCommitInFlight)
	}
	if tr.hadValue {
		in.answers[fieldKey] = tr.revertTarget
	} else {
		delete(in.answers, fieldKey)
	}
	delete(in.tracks, fieldKey)
	return nil
}

// sameValue compares answer values structurally. Answers hold plain data
// (strings, numbers, bools, option slices, table rows), so deep equality is
// the right notion of "unchanged".
func sameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
