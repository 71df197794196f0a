package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task field limits.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// TaskID is a value object for task identity.
type TaskID struct{ uuid.UUID }

// NewTaskID creates a new TaskID from uuid.
func NewTaskID(id uuid.UUID) TaskID { return TaskID{UUID: id} }

// String returns the canonical string form.
func (t TaskID) String() string { return t.UUID.String() }

// Task belongs to exactly one user. UserID is immutable after creation;
// UpdatedAt is refreshed on every mutation.
type Task struct {
	ID          TaskID
	UserID      UserID
	Title       string
	Description *string
	IsCompleted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
