package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ChatHandler serves saved-conversation CRUD.
type ChatHandler struct {
	chatService service.ChatService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewChatHandler(chatService service.ChatService, validate *validator.Validate, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validate:    validate,
		logger:      logger,
	}
}

// RegisterRoutes mounts v1 chat routes.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/chats", authMw(http.HandlerFunc(h.handleChats)))
	mux.Handle("/chats/", authMw(http.HandlerFunc(h.getChat)))
}

func (h *ChatHandler) handleChats(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.saveConversation(w, r)
	case http.MethodGet:
		h.listChats(w, r)
	case http.MethodDelete:
		h.deleteChat(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ChatHandler) saveConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.ConversationSaveDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	msgs := make([]model.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = model.Message{Role: m.Role, Content: m.Content}
	}

	chatID, err := h.chatService.SaveConversation(r.Context(), userID, req.Title, msgs)
	if err != nil {
		if errors.Is(err, service.ErrInvalidConversation) {
			http.Error(w, "Invalid data provided", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to save chat: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ConversationSavedDTO{
		Message: "Chat saved successfully",
		ChatID:  chatID,
	})
}

func (h *ChatHandler) listChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	chats, err := h.chatService.ListChats(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch chats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]dto.ChatResponseDTO, len(chats))
	for i, chat := range chats {
		resp[i] = dto.ChatResponseDTO{
			ID:        chat.ID,
			UserID:    chat.UserID,
			Title:     chat.Title,
			CreatedAt: chat.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) getChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := r.Context().Value(middleware.UserContextKey).(string); !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	chatID := strings.TrimPrefix(r.URL.Path, "/chats/")
	if chatID == "" || strings.Contains(chatID, "/") {
		http.NotFound(w, r)
		return
	}

	messages, err := h.chatService.GetChat(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, service.ErrChatNotFound) {
			http.Error(w, "No messages found for this chat", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load chat messages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]dto.MessageResponseDTO, len(messages))
	for i, m := range messages {
		resp[i] = dto.MessageResponseDTO{
			ID:        m.ID,
			ChatID:    m.ChatID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) deleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.ChatDeleteDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), req.ID, userID); err != nil {
		if errors.Is(err, service.ErrChatNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ChatDeletedDTO{Success: false, Message: "Item not found or unauthorized"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ChatDeletedDTO{Success: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dto.ChatDeletedDTO{Success: true, Message: "Deleted successfully"})
}
