package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrChatNotFound is returned when a chat does not exist or belongs to another
// user.
var ErrChatNotFound = errors.New("chat not found")

type ChatRepository interface {
	// CreateChatWithMessages inserts the chat row, then each message in list
	// order. Returns the new chat id.
	CreateChatWithMessages(ctx context.Context, userID, title string, msgs []model.Message) (string, error)
	ListChatsByUser(ctx context.Context, userID string) ([]model.Chat, error)
	ListMessages(ctx context.Context, chatID string) ([]model.Message, error)
	DeleteChat(ctx context.Context, chatID, userID string) error
}

type chatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) ChatRepository {
	return &chatRepo{pool: pool}
}

func (r *chatRepo) CreateChatWithMessages(ctx context.Context, userID, title string, msgs []model.Message) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("starting transaction for chat save: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const chatQ = `
		INSERT INTO chats (user_id, title)
		VALUES ($1, $2)
		RETURNING id
	`
	var chatID string
	if err := tx.QueryRow(ctx, chatQ, userID, title).Scan(&chatID); err != nil {
		return "", fmt.Errorf("creating chat: %w", err)
	}

	// created_at cannot carry the conversation order: NOW() is frozen at
	// transaction start, so every row in one save would tie. Each message
	// stores its position instead.
	const msgQ = `
		INSERT INTO messages (chat_id, position, role, content)
		VALUES ($1, $2, $3, $4)
	`
	for _, row := range messageRows(chatID, msgs) {
		if _, err := tx.Exec(ctx, msgQ, row...); err != nil {
			return "", fmt.Errorf("creating message: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("committing chat save: %w", err)
	}
	return chatID, nil
}

// messageRows maps a conversation to insert argument rows, assigning each
// message its zero-based position in input order.
func messageRows(chatID string, msgs []model.Message) [][]any {
	rows := make([][]any, len(msgs))
	for i, m := range msgs {
		rows[i] = []any{chatID, i, m.Role, m.Content}
	}
	return rows
}

func (r *chatRepo) ListChatsByUser(ctx context.Context, userID string) ([]model.Chat, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM chats
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying chats: %w", err)
	}
	defer rows.Close()

	var chats []model.Chat
	for rows.Next() {
		var chat model.Chat
		if err := rows.Scan(
			&chat.ID,
			&chat.UserID,
			&chat.Title,
			&chat.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning chat row: %w", err)
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat rows: %w", err)
	}
	return chats, nil
}

func (r *chatRepo) ListMessages(ctx context.Context, chatID string) ([]model.Message, error) {
	query := `
		SELECT id, chat_id, role, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY position ASC
	`
	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var message model.Message
		if err := rows.Scan(
			&message.ID,
			&message.ChatID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return messages, nil
}

// DeleteChat deletes only when the chat belongs to the caller. The ownership
// check lives in the DELETE predicate so there is no check-then-delete window.
func (r *chatRepo) DeleteChat(ctx context.Context, chatID, userID string) error {
	query := `
		DELETE FROM chats
		WHERE id = $1 AND user_id = $2
	`
	result, err := r.pool.Exec(ctx, query, chatID, userID)
	if err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrChatNotFound
	}
	return nil
}
