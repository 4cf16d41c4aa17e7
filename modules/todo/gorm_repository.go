package todo

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/todo-api/domain/todo"
	"gorm.io/gorm"
)

// GormRepository stores todos through gorm. Ids come from an AUTOINCREMENT
// primary key so they are never reused after a delete.
type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a new gorm-backed repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the todos table.
func (r *GormRepository) Migrate() error {
	if err := r.db.AutoMigrate(&domain.Todo{}); err != nil {
		return fmt.Errorf("failed to migrate todos: %w", err)
	}
	return nil
}

// FindAll retrieves all todos.
func (r *GormRepository) FindAll(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := r.db.WithContext(ctx).Order("id").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to find todos: %w", err)
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

// FindByID retrieves a todo by its id.
func (r *GormRepository) FindByID(ctx context.Context, id int64) (domain.Todo, error) {
	return findTodo(r.db.WithContext(ctx), id)
}

// Save stores a new todo with only a title.
func (r *GormRepository) Save(ctx context.Context, title string) (domain.Todo, error) {
	return r.Create(ctx, domain.NewDraft(title))
}

// Create stores a new todo built from draft.
func (r *GormRepository) Create(ctx context.Context, draft domain.Draft) (domain.Todo, error) {
	if err := draft.Validate(); err != nil {
		return domain.Todo{}, err
	}

	t := draft.Build(0)
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return domain.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}
	return t, nil
}

// UpdateDone sets the done flag of a todo.
func (r *GormRepository) UpdateDone(ctx context.Context, id int64, done bool) (domain.Todo, error) {
	return r.Update(ctx, id, domain.DonePatch(done))
}

// Update applies a partial update inside a transaction.
func (r *GormRepository) Update(ctx context.Context, id int64, patch domain.Patch) (domain.Todo, error) {
	if err := patch.Validate(); err != nil {
		return domain.Todo{}, err
	}

	var updated domain.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := findTodo(tx, id)
		if err != nil {
			return err
		}
		patch.Apply(&t)

		// Select lists every column so zero values (done=false, NULL deadline) are written.
		if err := tx.Model(&domain.Todo{}).
			Where("id = ?", id).
			Select("title", "done", "priority", "deadline").
			Updates(&t).Error; err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return domain.Todo{}, err
	}
	return updated, nil
}

// Delete removes a todo by id (hard delete).
func (r *GormRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Todo{}, "id = ?", id)
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}
	return result.RowsAffected > 0, nil
}

func findTodo(db *gorm.DB, id int64) (domain.Todo, error) {
	var t domain.Todo
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Todo{}, domain.ErrNotFound
		}
		return domain.Todo{}, fmt.Errorf("failed to find todo: %w", err)
	}
	return t, nil
}
