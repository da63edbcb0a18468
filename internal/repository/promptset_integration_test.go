//go:build integration

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/promptforge/promptforge/internal/model"
	"github.com/promptforge/promptforge/internal/testutil"
)

func newPromptSet(t *testing.T, authorID string) *model.PromptSet {
	t.Helper()
	now := time.Now().UTC()
	return &model.PromptSet{
		ID:          testutil.UniqueID("set"),
		Title:       "Debugging helpers",
		Description: "Prompts for debugging sessions",
		Tags:        []string{"debug", "go"},
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestIntegrationPromptSetRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	author := testutil.NewTestUser(t)
	if err := repo.CreateUser(ctx, author); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	set := newPromptSet(t, author.ID)
	if err := repo.CreatePromptSet(ctx, set); err != nil {
		t.Fatalf("CreatePromptSet failed: %v", err)
	}

	got, err := repo.GetPromptSetByID(ctx, set.ID)
	if err != nil {
		t.Fatalf("GetPromptSetByID failed: %v", err)
	}
	if got.Title != set.Title || got.AuthorID != author.ID {
		t.Errorf("set mismatch: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "debug" {
		t.Errorf("tags not round-tripped: %v", got.Tags)
	}
	if got.Upvotes != 0 {
		t.Errorf("expected 0 upvotes, got %d", got.Upvotes)
	}
}

func TestIntegrationPromptSetRepository_ListByAuthor(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	author := testutil.NewTestUser(t)
	other := testutil.NewTestUser(t)
	if err := repo.CreateUser(ctx, author); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := repo.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.CreatePromptSet(ctx, newPromptSet(t, author.ID)); err != nil {
			t.Fatalf("CreatePromptSet failed: %v", err)
		}
	}
	if err := repo.CreatePromptSet(ctx, newPromptSet(t, other.ID)); err != nil {
		t.Fatalf("CreatePromptSet failed: %v", err)
	}

	sets, err := repo.ListPromptSetsByAuthor(ctx, author.ID, 50)
	if err != nil {
		t.Fatalf("ListPromptSetsByAuthor failed: %v", err)
	}
	if len(sets) != 3 {
		t.Errorf("expected 3 sets, got %d", len(sets))
	}
	for _, set := range sets {
		if set.AuthorID != author.ID {
			t.Errorf("listed a foreign set: %+v", set)
		}
	}
}

func TestIntegrationPromptSetRepository_Upvote(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	author := testutil.NewTestUser(t)
	if err := repo.CreateUser(ctx, author); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	set := newPromptSet(t, author.ID)
	if err := repo.CreatePromptSet(ctx, set); err != nil {
		t.Fatalf("CreatePromptSet failed: %v", err)
	}

	for want := int64(1); want <= 3; want++ {
		got, err := repo.UpvotePromptSet(ctx, set.ID)
		if err != nil {
			t.Fatalf("UpvotePromptSet failed: %v", err)
		}
		if got != want {
			t.Errorf("expected %d upvotes, got %d", want, got)
		}
	}

	if _, err := repo.UpvotePromptSet(ctx, "set_missing"); !errors.Is(err, ErrPromptSetNotFound) {
		t.Errorf("expected ErrPromptSetNotFound, got %v", err)
	}
}

func TestIntegrationPromptSetRepository_DeleteCascades(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	author := testutil.NewTestUser(t)
	if err := repo.CreateUser(ctx, author); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	set := newPromptSet(t, author.ID)
	if err := repo.CreatePromptSet(ctx, set); err != nil {
		t.Fatalf("CreatePromptSet failed: %v", err)
	}

	now := time.Now().UTC()
	prompt := &model.Prompt{
		ID:        testutil.UniqueID("prompt"),
		SetID:     set.ID,
		Title:     "Greeting",
		Text:      "Say hello politely",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.CreatePrompt(ctx, prompt); err != nil {
		t.Fatalf("CreatePrompt failed: %v", err)
	}

	prompts, err := repo.ListPromptsBySet(ctx, set.ID)
	if err != nil {
		t.Fatalf("ListPromptsBySet failed: %v", err)
	}
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}

	if err := repo.DeletePromptSet(ctx, set.ID); err != nil {
		t.Fatalf("DeletePromptSet failed: %v", err)
	}

	// ON DELETE CASCADE removes the set's prompts with it.
	prompts, err = repo.ListPromptsBySet(ctx, set.ID)
	if err != nil {
		t.Fatalf("ListPromptsBySet failed: %v", err)
	}
	if len(prompts) != 0 {
		t.Errorf("expected cascade delete, still have %d prompts", len(prompts))
	}

	if _, err := repo.GetPromptSetByID(ctx, set.ID); !errors.Is(err, ErrPromptSetNotFound) {
		t.Errorf("expected ErrPromptSetNotFound, got %v", err)
	}
}
