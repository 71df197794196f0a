package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talhabinhussain/fullstack-todo-app/internal/application/ports"
	"github.com/talhabinhussain/fullstack-todo-app/internal/domain"
	domerrors "github.com/talhabinhussain/fullstack-todo-app/internal/domain/errors"
)

const (
	insertTaskSQL = `INSERT INTO tasks (id, user_id, title, description, is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	selectTasksByOwnerSQL = `SELECT id, user_id, title, description, is_completed, created_at, updated_at
		FROM tasks WHERE user_id = $1 ORDER BY created_at`
	selectTaskSQL = `SELECT id, user_id, title, description, is_completed, created_at, updated_at
		FROM tasks WHERE id = $1 AND user_id = $2`
	updateTaskSQL = `UPDATE tasks SET title = $1, description = $2, is_completed = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6`
	deleteTaskSQL = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
)

// TaskRepository persists tasks. Every single-row statement matches id AND
// user_id, so another account's task id reads as absent no matter what the
// caller already passed through the guards.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	_, err := r.pool.Exec(ctx, insertTaskSQL,
		task.ID.UUID, task.UserID.UUID, task.Title, task.Description,
		task.IsCompleted, task.CreatedAt, task.UpdatedAt)
	return err
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx, selectTasksByOwnerSQL, ownerID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID.UUID, &t.UserID.UUID, &t.Title, &t.Description,
			&t.IsCompleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *TaskRepository) GetByIDAndOwner(ctx context.Context, id domain.TaskID, ownerID domain.UserID) (*domain.Task, error) {
	var t domain.Task
	err := r.pool.QueryRow(ctx, selectTaskSQL, id.UUID, ownerID.UUID).
		Scan(&t.ID.UUID, &t.UserID.UUID, &t.Title, &t.Description,
			&t.IsCompleted, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	ct, err := r.pool.Exec(ctx, updateTaskSQL,
		task.Title, task.Description, task.IsCompleted, task.UpdatedAt,
		task.ID.UUID, task.UserID.UUID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domerrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByIDAndOwner(ctx context.Context, id domain.TaskID, ownerID domain.UserID) (bool, error) {
	ct, err := r.pool.Exec(ctx, deleteTaskSQL, id.UUID, ownerID.UUID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// Ensure TaskRepository implements ports.TaskRepository.
var _ ports.TaskRepository = (*TaskRepository)(nil)
