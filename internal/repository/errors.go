package repository

import "errors"

// Common repository errors
var (
	// ErrDuplicatePendingInvitation is returned when the partial unique index
	// on (board_id, recipient_email) rejects a second pending invitation.
	ErrDuplicatePendingInvitation = errors.New("pending invitation already exists")

	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")
)
