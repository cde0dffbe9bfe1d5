package activity

import (
	"strings"
	"time"
)

// MutationInput describes the common fields for store mutation events.
type MutationInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	ObjectID   string
	Channel    string
	Recipients []string
	Metadata   map[string]any
	Path       string
	Paths      []string
	OldValue   any
	NewValue   any
	OccurredAt time.Time
}

// BuildStateReplacedEvent constructs a normalized event for a whole-state
// replacement.
func BuildStateReplacedEvent(input MutationInput) Event {
	return buildMutationEvent("state.replaced", "state", input)
}

// BuildPathUpdatedEvent constructs a normalized event for a point write.
func BuildPathUpdatedEvent(input MutationInput) Event {
	return buildMutationEvent("state.path.updated", "state.path", input)
}

// BuildPathClearedEvent constructs a normalized event for a point delete.
func BuildPathClearedEvent(input MutationInput) Event {
	return buildMutationEvent("state.path.cleared", "state.path", input)
}

// BuildBatchAppliedEvent constructs a normalized event for one coalesced
// entry surviving a batch.
func BuildBatchAppliedEvent(input MutationInput) Event {
	return buildMutationEvent("state.batch.applied", "state.batch", input)
}

func buildMutationEvent(verb, objectType string, input MutationInput) Event {
	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Path)
	}
	if objectID == "" && len(input.Paths) > 0 {
		objectID = strings.TrimSpace(strings.Join(input.Paths, ","))
	}
	if objectID == "" {
		objectID = objectType
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Path:       strings.TrimSpace(input.Path),
		Paths:      cloneStrings(input.Paths),
		OldValue:   input.OldValue,
		NewValue:   input.NewValue,
		Recipients: recipients,
		Metadata:   cloneMap(input.Metadata),
		OccurredAt: input.OccurredAt,
	}
}
