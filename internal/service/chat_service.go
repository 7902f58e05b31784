package service

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// ChatService persists conversations and answers one-off assistant messages.
type ChatService interface {
	// SaveConversation creates one chat and its messages in input order,
	// returning the new chat id.
	SaveConversation(ctx context.Context, userID, title string, msgs []model.Message) (string, error)
	ListChats(ctx context.Context, userID string) ([]model.Chat, error)
	// GetChat returns the chat's messages oldest first; ErrChatNotFound when
	// there are none.
	GetChat(ctx context.Context, chatID string) ([]model.Message, error)
	DeleteChat(ctx context.Context, chatID, userID string) error
	Reply(ctx context.Context, message string) (string, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	bot      ChatBot
	logger   zerolog.Logger
}

func NewChatService(chatRepo repository.ChatRepository, bot ChatBot, logger zerolog.Logger) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		bot:      bot,
		logger:   logger.With().Str("service", "ChatService").Logger(),
	}
}

func (s *chatService) SaveConversation(ctx context.Context, userID, title string, msgs []model.Message) (string, error) {
	if title == "" || len(msgs) == 0 {
		return "", ErrInvalidConversation
	}

	chatID, err := s.chatRepo.CreateChatWithMessages(ctx, userID, title, msgs)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to save conversation")
		return "", fmt.Errorf("saving conversation: %w", err)
	}
	return chatID, nil
}

func (s *chatService) ListChats(ctx context.Context, userID string) ([]model.Chat, error) {
	chats, err := s.chatRepo.ListChatsByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list chats")
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	return chats, nil
}

func (s *chatService) GetChat(ctx context.Context, chatID string) ([]model.Message, error) {
	messages, err := s.chatRepo.ListMessages(ctx, chatID)
	if err != nil {
		s.logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to list messages")
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	if len(messages) == 0 {
		return nil, ErrChatNotFound
	}
	return messages, nil
}

func (s *chatService) DeleteChat(ctx context.Context, chatID, userID string) error {
	err := s.chatRepo.DeleteChat(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			return ErrChatNotFound
		}
		s.logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to delete chat")
		return fmt.Errorf("deleting chat: %w", err)
	}
	return nil
}

func (s *chatService) Reply(ctx context.Context, message string) (string, error) {
	reply, err := s.bot.Reply(ctx, message)
	if err != nil {
		s.logger.Error().Err(err).Msg("Chat completion failed")
		return "", err
	}
	return reply, nil
}
