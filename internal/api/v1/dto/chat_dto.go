package dto

import "time"

type ConversationMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ConversationSaveDTO struct {
	Title    string                   `json:"title" validate:"required"`
	Messages []ConversationMessageDTO `json:"messages" validate:"required,min=1,dive"`
}

type ConversationSavedDTO struct {
	Message string `json:"message"`
	ChatID  string `json:"chatId"`
}

type ChatResponseDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageResponseDTO struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatDeleteDTO struct {
	ID string `json:"id" validate:"required"`
}

type ChatDeletedDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
