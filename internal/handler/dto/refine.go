package dto

// RefineRequest represents the request body for a refine call.
type RefineRequest struct {
	Prompt string `json:"prompt"`
}

// RefineResponse represents a successful refine result.
type RefineResponse struct {
	Tier      string `json:"tier"`
	Refined   string `json:"refined"`
	Remaining int    `json:"remaining"`
}
