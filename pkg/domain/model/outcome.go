package model

import (
	"time"

	"github.com/google/uuid"
)

// ActionOutcome is the per-action result of execution. Outcomes are produced
// in list order, one per action, and are immutable once recorded.
type ActionOutcome struct {
	Action    Action `json:"action" firestore:"action"`
	Succeeded bool   `json:"succeeded" firestore:"succeeded"`
	// ResultRef is the platform ID of the created or modified object,
	// present only on success
	ResultRef string `json:"result_ref,omitempty" firestore:"result_ref,omitempty"`
	// Error is the human-readable failure reason, present only on failure
	Error string `json:"error,omitempty" firestore:"error,omitempty"`
}

// CountOutcomes returns how many outcomes succeeded and how many failed
func CountOutcomes(outcomes []ActionOutcome) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Succeeded {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// CommandRecord is the audit record of one executed batch
type CommandRecord struct {
	ID          string `firestore:"id"`
	GuildID     string `firestore:"guild_id"`
	RequesterID string `firestore:"requester_id"`
	// Instruction is the original free-text instruction; empty when the
	// batch came from a direct command rather than translation
	Instruction string          `firestore:"instruction,omitempty"`
	Actions     ActionList      `firestore:"actions"`
	Outcomes    []ActionOutcome `firestore:"outcomes"`
	// Confirmed marks batches that went through the confirmation step
	Confirmed bool      `firestore:"confirmed"`
	CreatedAt time.Time `firestore:"created_at"`
}

// NewCommandRecordID generates a time-ordered record ID
func NewCommandRecordID() string {
	return uuid.Must(uuid.NewV7()).String()
}
