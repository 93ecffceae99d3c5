package ledger

import "github.com/julianstephens/kindling/internal/models"

// SlotState describes what a habit's day slot holds.
type SlotState int

const (
	SlotEmpty SlotState = iota
	SlotCompleted
	SlotSkipped
)

func (s SlotState) String() string {
	switch s {
	case SlotCompleted:
		return "completed"
	case SlotSkipped:
		return "skipped"
	default:
		return "empty"
	}
}

// slotStateOf classifies an existing completion record. Absence of a record
// (SlotEmpty) is decided by the caller from the storage lookup.
func slotStateOf(c models.Completion) SlotState {
	if c.Skipped {
		return SlotSkipped
	}
	return SlotCompleted
}
