package ports

import (
	"context"

	"github.com/talhabinhussain/fullstack-todo-app/internal/domain"
)

// UserRepository defines persistence for user accounts. Lookups return
// (nil, nil) when no row matches.
type UserRepository interface {
	// Create inserts the user. The storage layer enforces email uniqueness;
	// a duplicate surfaces as errors.ErrEmailTaken even when two requests
	// race past the application-level existence check.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
}

// TaskRepository defines persistence for tasks. Every single-task operation
// matches both the task id and the owner id, so a task belonging to another
// account reads as absent.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Task, error)
	GetByIDAndOwner(ctx context.Context, id domain.TaskID, ownerID domain.UserID) (*domain.Task, error)
	// Update writes title, description, is_completed and updated_at; it
	// returns errors.ErrTaskNotFound when id+owner matched no row.
	Update(ctx context.Context, task *domain.Task) error
	// DeleteByIDAndOwner reports whether a row was deleted.
	DeleteByIDAndOwner(ctx context.Context, id domain.TaskID, ownerID domain.UserID) (bool, error)
}
