package model

import "time"

// PromptSet is a named, tagged collection of reusable prompts owned by
// a user. Upvotes never go below zero.
type PromptSet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	AuthorID    string    `json:"author_id"`
	Upvotes     int64     `json:"upvotes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Prompt is a single reusable prompt text belonging to a PromptSet.
type Prompt struct {
	ID        string    `json:"id"`
	SetID     string    `json:"set_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
