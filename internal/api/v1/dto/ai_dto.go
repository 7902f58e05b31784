package dto

// ArticleRequestDTO asks for a generated article of roughly the given token
// length.
type ArticleRequestDTO struct {
	Prompt string `json:"prompt" validate:"required"`
	Length int    `json:"length" validate:"required,gt=0"`
}

type BlogTitleRequestDTO struct {
	Prompt string `json:"prompt" validate:"required"`
}

type ImageRequestDTO struct {
	Prompt  string `json:"prompt" validate:"required"`
	Publish bool   `json:"publish"`
}

// GenerationResponseDTO is the shared success/failure envelope for all
// generation endpoints.
type GenerationResponseDTO struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

type AssistantRequestDTO struct {
	Message string `json:"message" validate:"required"`
}

type AssistantResponseDTO struct {
	Reply string `json:"reply"`
}
