package dto

import "time"

type CreationResponseDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Publish   bool      `json:"publish"`
	CreatedAt time.Time `json:"created_at"`
}

type PublishToggleDTO struct {
	Publish bool `json:"publish"`
}
