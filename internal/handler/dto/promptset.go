package dto

import (
	"time"

	"github.com/promptforge/promptforge/internal/model"
)

// CreatePromptSetRequest represents the request body for creating a prompt set.
type CreatePromptSetRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdatePromptSetRequest represents the request body for updating a prompt set.
type UpdatePromptSetRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// PromptSetResponse represents a prompt set in API responses.
type PromptSetResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	AuthorID    string    `json:"author_id"`
	Upvotes     int64     `json:"upvotes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PromptSetListResponse represents a list of prompt sets.
type PromptSetListResponse struct {
	Data []PromptSetResponse `json:"data"`
}

// UpvoteResponse represents the result of an upvote.
type UpvoteResponse struct {
	Upvotes int64 `json:"upvotes"`
}

// AddPromptRequest represents the request body for adding a prompt to a set.
type AddPromptRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// PromptResponse represents a stored prompt in API responses.
type PromptResponse struct {
	ID        string    `json:"id"`
	SetID     string    `json:"set_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PromptListResponse represents the prompts of a set.
type PromptListResponse struct {
	Data []PromptResponse `json:"data"`
}

// ToPromptSetResponse converts a PromptSet model to its DTO.
func ToPromptSetResponse(set *model.PromptSet) PromptSetResponse {
	tags := set.Tags
	if tags == nil {
		tags = []string{}
	}
	return PromptSetResponse{
		ID:          set.ID,
		Title:       set.Title,
		Description: set.Description,
		Tags:        tags,
		AuthorID:    set.AuthorID,
		Upvotes:     set.Upvotes,
		CreatedAt:   set.CreatedAt,
		UpdatedAt:   set.UpdatedAt,
	}
}

// ToPromptSetListResponse converts a slice of PromptSets to a list DTO.
func ToPromptSetListResponse(sets []*model.PromptSet) PromptSetListResponse {
	data := make([]PromptSetResponse, 0, len(sets))
	for _, set := range sets {
		data = append(data, ToPromptSetResponse(set))
	}
	return PromptSetListResponse{Data: data}
}

// ToPromptResponse converts a Prompt model to its DTO.
func ToPromptResponse(prompt *model.Prompt) PromptResponse {
	return PromptResponse{
		ID:        prompt.ID,
		SetID:     prompt.SetID,
		Title:     prompt.Title,
		Text:      prompt.Text,
		CreatedAt: prompt.CreatedAt,
	}
}

// ToPromptListResponse converts a slice of Prompts to a list DTO.
func ToPromptListResponse(prompts []*model.Prompt) PromptListResponse {
	data := make([]PromptResponse, 0, len(prompts))
	for _, prompt := range prompts {
		data = append(data, ToPromptResponse(prompt))
	}
	return PromptListResponse{Data: data}
}
