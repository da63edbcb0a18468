// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/promptforge/promptforge/internal/model"
)

// UserStore is the subset of the repository used by account and quota
// logic. *repository.Repository satisfies it; tests use fakes.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ConsumeQuota(ctx context.Context, userID string, tier model.Tier) (int, error)
	ResetQuotas(ctx context.Context, basicDefault, proDefault int) (int64, error)
}

// PromptSetStore is the subset of the repository used by prompt set logic.
type PromptSetStore interface {
	CreatePromptSet(ctx context.Context, set *model.PromptSet) error
	GetPromptSetByID(ctx context.Context, id string) (*model.PromptSet, error)
	ListPromptSetsByAuthor(ctx context.Context, authorID string, limit int) ([]*model.PromptSet, error)
	UpdatePromptSet(ctx context.Context, set *model.PromptSet) error
	DeletePromptSet(ctx context.Context, id string) error
	UpvotePromptSet(ctx context.Context, id string) (int64, error)
	CreatePrompt(ctx context.Context, prompt *model.Prompt) error
	ListPromptsBySet(ctx context.Context, setID string) ([]*model.Prompt, error)
	DeletePrompt(ctx context.Context, setID, promptID string) error
}
