package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/promptforge/promptforge/internal/model"
)

// Common errors for prompt set repository operations.
var (
	ErrPromptSetNotFound = errors.New("prompt set not found")
	ErrPromptNotFound    = errors.New("prompt not found")
)

const promptSetColumns = `id, title, description, tags, author_id, upvotes, created_at, updated_at`

// CreatePromptSet inserts a new prompt set.
func (r *Repository) CreatePromptSet(ctx context.Context, set *model.PromptSet) error {
	query := `
		INSERT INTO prompt_sets (id, title, description, tags, author_id, upvotes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		set.ID,
		set.Title,
		set.Description,
		pq.Array(set.Tags),
		set.AuthorID,
		set.Upvotes,
		set.CreatedAt,
		set.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prompt set: %w", err)
	}

	return nil
}

// GetPromptSetByID retrieves a prompt set by ID.
func (r *Repository) GetPromptSetByID(ctx context.Context, id string) (*model.PromptSet, error) {
	query := `SELECT ` + promptSetColumns + ` FROM prompt_sets WHERE id = $1`

	set, err := scanPromptSet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPromptSetNotFound
		}
		return nil, fmt.Errorf("failed to get prompt set: %w", err)
	}

	return set, nil
}

// ListPromptSetsByAuthor returns an author's prompt sets, newest first.
func (r *Repository) ListPromptSetsByAuthor(ctx context.Context, authorID string, limit int) ([]*model.PromptSet, error) {
	query := `
		SELECT ` + promptSetColumns + `
		FROM prompt_sets
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt sets: %w", err)
	}
	defer rows.Close()

	var sets []*model.PromptSet
	for rows.Next() {
		set, err := scanPromptSet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt set: %w", err)
		}
		sets = append(sets, set)
	}

	return sets, rows.Err()
}

// UpdatePromptSet updates the title, description, and tags of a set.
func (r *Repository) UpdatePromptSet(ctx context.Context, set *model.PromptSet) error {
	query := `
		UPDATE prompt_sets
		SET title = $2, description = $3, tags = $4, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		set.ID,
		set.Title,
		set.Description,
		pq.Array(set.Tags),
	)
	if err != nil {
		return fmt.Errorf("failed to update prompt set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPromptSetNotFound
	}

	return nil
}

// DeletePromptSet removes a prompt set and, via cascade, its prompts.
func (r *Repository) DeletePromptSet(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prompt_sets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prompt set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPromptSetNotFound
	}

	return nil
}

// UpvotePromptSet atomically increments the upvote counter.
// Returns the new count.
func (r *Repository) UpvotePromptSet(ctx context.Context, id string) (int64, error) {
	query := `
		UPDATE prompt_sets
		SET upvotes = upvotes + 1, updated_at = now()
		WHERE id = $1
		RETURNING upvotes
	`

	var upvotes int64
	err := r.pool.QueryRow(ctx, query, id).Scan(&upvotes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPromptSetNotFound
		}
		return 0, fmt.Errorf("failed to upvote prompt set: %w", err)
	}

	return upvotes, nil
}

// CreatePrompt inserts a prompt into a set.
func (r *Repository) CreatePrompt(ctx context.Context, prompt *model.Prompt) error {
	query := `
		INSERT INTO prompts (id, set_id, title, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		prompt.ID,
		prompt.SetID,
		prompt.Title,
		prompt.Text,
		prompt.CreatedAt,
		prompt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}

	return nil
}

// ListPromptsBySet returns the prompts of a set, oldest first.
func (r *Repository) ListPromptsBySet(ctx context.Context, setID string) ([]*model.Prompt, error) {
	query := `
		SELECT id, set_id, title, text, created_at, updated_at
		FROM prompts
		WHERE set_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []*model.Prompt
	for rows.Next() {
		var p model.Prompt
		if err := rows.Scan(&p.ID, &p.SetID, &p.Title, &p.Text, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, &p)
	}

	return prompts, rows.Err()
}

// DeletePrompt removes a single prompt from a set.
func (r *Repository) DeletePrompt(ctx context.Context, setID, promptID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prompts WHERE id = $1 AND set_id = $2`, promptID, setID)
	if err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPromptNotFound
	}

	return nil
}

// scanPromptSet scans a prompt set row from the standard column set.
func scanPromptSet(row pgx.Row) (*model.PromptSet, error) {
	var set model.PromptSet
	err := row.Scan(
		&set.ID,
		&set.Title,
		&set.Description,
		pq.Array(&set.Tags),
		&set.AuthorID,
		&set.Upvotes,
		&set.CreatedAt,
		&set.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &set, nil
}
