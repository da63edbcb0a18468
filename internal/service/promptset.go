package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/promptforge/promptforge/internal/model"
	"github.com/promptforge/promptforge/internal/repository"
)

// Prompt set service errors.
var (
	ErrPromptSetNotFound = errors.New("prompt set not found")
	ErrPromptNotFound    = errors.New("prompt not found")
	ErrNotOwner          = errors.New("not the owner of this prompt set")
	ErrMissingTitle      = errors.New("title is required")
	ErrMissingText       = errors.New("prompt text is required")
)

const defaultListLimit = 50

// PromptSetService handles the owned prompt-collection CRUD.
type PromptSetService struct {
	store PromptSetStore
}

// NewPromptSetService creates a new PromptSetService.
func NewPromptSetService(store PromptSetStore) *PromptSetService {
	return &PromptSetService{store: store}
}

// CreatePromptSetInput defines input for creating a prompt set.
type CreatePromptSetInput struct {
	Title       string
	Description string
	Tags        []string
	AuthorID    string
}

// Create creates a new prompt set owned by the author.
func (s *PromptSetService) Create(ctx context.Context, input CreatePromptSetInput) (*model.PromptSet, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	now := time.Now().UTC()
	set := &model.PromptSet{
		ID:          ulid.Make().String(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Tags:        tags,
		AuthorID:    input.AuthorID,
		Upvotes:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreatePromptSet(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to create prompt set: %w", err)
	}

	return set, nil
}

// Get retrieves a prompt set by ID. Any authenticated user may read.
func (s *PromptSetService) Get(ctx context.Context, id string) (*model.PromptSet, error) {
	set, err := s.store.GetPromptSetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPromptSetNotFound) {
			return nil, ErrPromptSetNotFound
		}
		return nil, fmt.Errorf("failed to get prompt set: %w", err)
	}
	return set, nil
}

// ListMine returns the caller's prompt sets, newest first.
func (s *PromptSetService) ListMine(ctx context.Context, authorID string) ([]*model.PromptSet, error) {
	sets, err := s.store.ListPromptSetsByAuthor(ctx, authorID, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt sets: %w", err)
	}
	return sets, nil
}

// UpdatePromptSetInput defines input for updating a prompt set.
type UpdatePromptSetInput struct {
	ID          string
	CallerID    string
	Title       *string
	Description *string
	Tags        []string
}

// Update applies partial changes to a set the caller owns.
func (s *PromptSetService) Update(ctx context.Context, input UpdatePromptSetInput) (*model.PromptSet, error) {
	set, err := s.ownedSet(ctx, input.ID, input.CallerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrMissingTitle
		}
		set.Title = title
	}
	if input.Description != nil {
		set.Description = strings.TrimSpace(*input.Description)
	}
	if input.Tags != nil {
		set.Tags = input.Tags
	}

	if err := s.store.UpdatePromptSet(ctx, set); err != nil {
		if errors.Is(err, repository.ErrPromptSetNotFound) {
			return nil, ErrPromptSetNotFound
		}
		return nil, fmt.Errorf("failed to update prompt set: %w", err)
	}

	return set, nil
}

// Delete removes a set the caller owns, along with its prompts.
func (s *PromptSetService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.ownedSet(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.store.DeletePromptSet(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPromptSetNotFound) {
			return ErrPromptSetNotFound
		}
		return fmt.Errorf("failed to delete prompt set: %w", err)
	}

	return nil
}

// Upvote increments a set's vote counter and returns the new count.
// Any authenticated user may upvote.
func (s *PromptSetService) Upvote(ctx context.Context, id string) (int64, error) {
	upvotes, err := s.store.UpvotePromptSet(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPromptSetNotFound) {
			return 0, ErrPromptSetNotFound
		}
		return 0, fmt.Errorf("failed to upvote prompt set: %w", err)
	}
	return upvotes, nil
}

// AddPromptInput defines input for adding a prompt to a set.
type AddPromptInput struct {
	SetID    string
	CallerID string
	Title    string
	Text     string
}

// AddPrompt appends a prompt to a set the caller owns.
func (s *PromptSetService) AddPrompt(ctx context.Context, input AddPromptInput) (*model.Prompt, error) {
	if _, err := s.ownedSet(ctx, input.SetID, input.CallerID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	text := strings.TrimSpace(input.Text)
	if title == "" {
		return nil, ErrMissingTitle
	}
	if text == "" {
		return nil, ErrMissingText
	}

	now := time.Now().UTC()
	prompt := &model.Prompt{
		ID:        ulid.Make().String(),
		SetID:     input.SetID,
		Title:     title,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreatePrompt(ctx, prompt); err != nil {
		return nil, fmt.Errorf("failed to create prompt: %w", err)
	}

	return prompt, nil
}

// ListPrompts returns the prompts of a set, oldest first.
func (s *PromptSetService) ListPrompts(ctx context.Context, setID string) ([]*model.Prompt, error) {
	if _, err := s.Get(ctx, setID); err != nil {
		return nil, err
	}

	prompts, err := s.store.ListPromptsBySet(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	return prompts, nil
}

// DeletePrompt removes a prompt from a set the caller owns.
func (s *PromptSetService) DeletePrompt(ctx context.Context, setID, promptID, callerID string) error {
	if _, err := s.ownedSet(ctx, setID, callerID); err != nil {
		return err
	}

	if err := s.store.DeletePrompt(ctx, setID, promptID); err != nil {
		if errors.Is(err, repository.ErrPromptNotFound) {
			return ErrPromptNotFound
		}
		return fmt.Errorf("failed to delete prompt: %w", err)
	}

	return nil
}

// ownedSet loads a set and verifies the caller owns it.
func (s *PromptSetService) ownedSet(ctx context.Context, id, callerID string) (*model.PromptSet, error) {
	set, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if set.AuthorID != callerID {
		return nil, ErrNotOwner
	}
	return set, nil
}
