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

	"github.com/rs/zerolog"
)

// CreationHandler serves a user's generation history and the published feed.
type CreationHandler struct {
	creationService service.CreationService
	logger          zerolog.Logger
}

func NewCreationHandler(creationService service.CreationService, logger zerolog.Logger) *CreationHandler {
	return &CreationHandler{
		creationService: creationService,
		logger:          logger,
	}
}

// RegisterRoutes mounts v1 creation routes.
func (h *CreationHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/creations", authMw(http.HandlerFunc(h.listCreations)))
	mux.Handle("/creations/published", authMw(http.HandlerFunc(h.listPublished)))
	mux.Handle("/creations/", authMw(http.HandlerFunc(h.togglePublish)))
}

func (h *CreationHandler) listCreations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	creations, err := h.creationService.ListCreations(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch creations: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toCreationDTOs(creations))
}

func (h *CreationHandler) listPublished(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	creations, err := h.creationService.ListPublished(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch published creations: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toCreationDTOs(creations))
}

func (h *CreationHandler) togglePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/creations/")
	creationID, found := strings.CutSuffix(rest, "/publish")
	if !found || creationID == "" || strings.Contains(creationID, "/") {
		http.NotFound(w, r)
		return
	}

	var req dto.PublishToggleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	creation, err := h.creationService.SetPublish(r.Context(), creationID, userID, req.Publish)
	if err != nil {
		if errors.Is(err, service.ErrCreationNotFound) {
			http.Error(w, "Creation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update creation: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toCreationDTO(*creation))
}

func toCreationDTOs(creations []model.Creation) []dto.CreationResponseDTO {
	resp := make([]dto.CreationResponseDTO, len(creations))
	for i, c := range creations {
		resp[i] = toCreationDTO(c)
	}
	return resp
}

func toCreationDTO(c model.Creation) dto.CreationResponseDTO {
	return dto.CreationResponseDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Prompt:    c.Prompt,
		Content:   c.Content,
		Type:      string(c.Type),
		Publish:   c.Publish,
		CreatedAt: c.CreatedAt,
	}
}
