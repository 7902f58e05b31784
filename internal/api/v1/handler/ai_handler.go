package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// multipartMemoryLimit caps how much of an upload is buffered in memory
// before spilling to disk.
const multipartMemoryLimit = 10 << 20

// AIHandler serves the generation endpoints: article, blog title, image
// synthesis, image editing, resume review and the one-off assistant chat.
type AIHandler struct {
	generationService service.GenerationService
	chatService       service.ChatService
	validate          *validator.Validate
	logger            zerolog.Logger
}

func NewAIHandler(generationService service.GenerationService, chatService service.ChatService, validate *validator.Validate, logger zerolog.Logger) *AIHandler {
	return &AIHandler{
		generationService: generationService,
		chatService:       chatService,
		validate:          validate,
		logger:            logger,
	}
}

// RegisterRoutes mounts v1 AI routes.
func (h *AIHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/ai/generate-article", authMw(http.HandlerFunc(h.generateArticle)))
	mux.Handle("/ai/generate-blog-title", authMw(http.HandlerFunc(h.generateBlogTitle)))
	mux.Handle("/ai/generate-image", authMw(http.HandlerFunc(h.generateImage)))
	mux.Handle("/ai/remove-image-background", authMw(http.HandlerFunc(h.removeBackground)))
	mux.Handle("/ai/remove-image-object", authMw(http.HandlerFunc(h.removeObject)))
	mux.Handle("/ai/resume-review", authMw(http.HandlerFunc(h.reviewResume)))
	mux.Handle("/ai/chat", authMw(http.HandlerFunc(h.assistantChat)))
}

func (h *AIHandler) generateArticle(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	var req dto.ArticleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.generationService.GenerateArticle(r.Context(), userID, req.Prompt, req.Length)
	h.respondGeneration(w, content, err)
}

func (h *AIHandler) generateBlogTitle(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	var req dto.BlogTitleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.generationService.GenerateBlogTitle(r.Context(), userID, req.Prompt)
	h.respondGeneration(w, content, err)
}

func (h *AIHandler) generateImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	var req dto.ImageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	url, err := h.generationService.GenerateImage(r.Context(), userID, req.Prompt, req.Publish)
	h.respondGeneration(w, url, err)
}

func (h *AIHandler) removeBackground(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		http.Error(w, "Invalid multipart payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, svcErr := h.generationService.RemoveBackground(r.Context(), userID, file, header.Filename)
	h.respondGeneration(w, url, svcErr)
}

func (h *AIHandler) removeObject(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		http.Error(w, "Invalid multipart payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	object := r.FormValue("object")
	if object == "" {
		http.Error(w, "Missing object field", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, svcErr := h.generationService.RemoveObject(r.Context(), userID, file, header.Filename, object)
	h.respondGeneration(w, url, svcErr)
}

func (h *AIHandler) reviewResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		http.Error(w, "Invalid multipart payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		http.Error(w, "Missing resume upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, svcErr := h.generationService.ReviewResume(r.Context(), userID, file, header.Size)
	h.respondGeneration(w, content, svcErr)
}

func (h *AIHandler) assistantChat(w http.ResponseWriter, r *http.Request) {
	_, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	var req dto.AssistantRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.chatService.Reply(r.Context(), req.Message)
	if err != nil {
		h.logger.Error().Err(err).Msg("Assistant chat failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Something went wrong with AI."})
		return
	}
	writeJSON(w, http.StatusOK, dto.AssistantResponseDTO{Reply: reply})
}

// requirePost enforces the method and pulls the authenticated user id from
// the request context.
func (h *AIHandler) requirePost(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// respondGeneration maps service errors onto the shared envelope. Entitlement
// and content failures stay 200 with success:false; provider quota gets a
// dedicated 429; anything else surfaces only the provider/store message.
func (h *AIHandler) respondGeneration(w http.ResponseWriter, content string, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, dto.GenerationResponseDTO{Success: true, Content: content})
		return
	}
	switch {
	case errors.Is(err, service.ErrProviderQuota):
		writeJSON(w, http.StatusTooManyRequests, dto.GenerationResponseDTO{Success: false, Message: "AI quota limit reached for today."})
	case errors.Is(err, service.ErrLimitReached):
		writeJSON(w, http.StatusOK, dto.GenerationResponseDTO{Success: false, Message: "Limit reached. Upgrade to continue."})
	case errors.Is(err, service.ErrPremiumRequired):
		writeJSON(w, http.StatusOK, dto.GenerationResponseDTO{Success: false, Message: "Only Available for premium customers."})
	case errors.Is(err, service.ErrContentBlocked):
		writeJSON(w, http.StatusOK, dto.GenerationResponseDTO{Success: false, Message: "The model returned no content. Try rephrasing your prompt."})
	case errors.Is(err, service.ErrFileTooLarge):
		writeJSON(w, http.StatusBadRequest, dto.GenerationResponseDTO{Success: false, Message: "Resume file size exceeds allowed size (5 MB)."})
	case errors.Is(err, service.ErrUnreadableDocument):
		writeJSON(w, http.StatusBadRequest, dto.GenerationResponseDTO{Success: false, Message: "Could not read text from the uploaded document."})
	default:
		h.logger.Error().Err(err).Msg("Generation failed")
		writeJSON(w, http.StatusInternalServerError, dto.GenerationResponseDTO{Success: false, Message: err.Error()})
	}
}
