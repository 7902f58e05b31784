package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"app/internal/model"
	"app/internal/repository"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

const (
	blogTitleMaxTokens    = 100
	resumeReviewMaxTokens = 1000

	// MaxResumeSize caps resume uploads at 5 MB, checked before any parsing
	// or generation call.
	MaxResumeSize = 5 * 1024 * 1024

	backgroundRemovalPrompt = "Remove background from image"
	resumeReviewPrompt      = "Review the uploaded resume"
)

// GenerationService orchestrates one generation request end to end: quota
// gate, provider call, creation insert, free-usage accounting.
type GenerationService interface {
	GenerateArticle(ctx context.Context, userID, prompt string, length int) (string, error)
	GenerateBlogTitle(ctx context.Context, userID, prompt string) (string, error)
	GenerateImage(ctx context.Context, userID, prompt string, publish bool) (string, error)
	RemoveBackground(ctx context.Context, userID string, image io.Reader, filename string) (string, error)
	RemoveObject(ctx context.Context, userID string, image io.Reader, filename, object string) (string, error)
	ReviewResume(ctx context.Context, userID string, resume io.Reader, size int64) (string, error)
}

type generationService struct {
	ledger    UsageLedger
	textGen   TextGenerator
	imageGen  ImageGenerator
	media     MediaHost
	creations repository.CreationRepository
	freeLimit int
	logger    zerolog.Logger
}

func NewGenerationService(
	ledger UsageLedger,
	textGen TextGenerator,
	imageGen ImageGenerator,
	media MediaHost,
	creations repository.CreationRepository,
	freeLimit int,
	logger zerolog.Logger,
) GenerationService {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeUsageLimit
	}
	return &generationService{
		ledger:    ledger,
		textGen:   textGen,
		imageGen:  imageGen,
		media:     media,
		creations: creations,
		freeLimit: freeLimit,
		logger:    logger.With().Str("service", "GenerationService").Logger(),
	}
}

func (s *generationService) GenerateArticle(ctx context.Context, userID, prompt string, length int) (string, error) {
	return s.generateText(ctx, userID, model.CapabilityArticle, prompt, length, model.CreationTypeArticle)
}

func (s *generationService) GenerateBlogTitle(ctx context.Context, userID, prompt string) (string, error) {
	return s.generateText(ctx, userID, model.CapabilityBlogTitle, prompt, blogTitleMaxTokens, model.CreationTypeBlogTitle)
}

// generateText runs the shared text path. The counter is consumed only after
// the provider call and the insert both succeed.
func (s *generationService) generateText(ctx context.Context, userID string, capability model.Capability, prompt string, maxTokens int, ctype model.CreationType) (string, error) {
	rec, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetching usage record: %w", err)
	}
	if err := AuthorizeUsage(rec, capability, s.freeLimit); err != nil {
		return "", err
	}

	content, err := s.textGen.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return "", err
	}

	if _, err := s.creations.CreateCreation(ctx, userID, prompt, content, ctype, false); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("type", string(ctype)).Msg("Failed to persist creation")
		return "", err
	}

	if err := s.consumeFreeUsage(ctx, rec); err != nil {
		return "", err
	}
	return content, nil
}

func (s *generationService) GenerateImage(ctx context.Context, userID, prompt string, publish bool) (string, error) {
	rec, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetching usage record: %w", err)
	}
	if err := AuthorizeUsage(rec, model.CapabilityImageGeneration, s.freeLimit); err != nil {
		return "", err
	}

	imageBytes, err := s.imageGen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBytes)
	upload, err := s.media.UploadDataURI(ctx, dataURI)
	if err != nil {
		return "", err
	}

	if _, err := s.creations.CreateCreation(ctx, userID, prompt, upload.SecureURL, model.CreationTypeImage, publish); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to persist image creation")
		return "", err
	}
	return upload.SecureURL, nil
}

func (s *generationService) RemoveBackground(ctx context.Context, userID string, image io.Reader, filename string) (string, error) {
	rec, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetching usage record: %w", err)
	}
	if err := AuthorizeUsage(rec, model.CapabilityBackgroundRemoval, s.freeLimit); err != nil {
		return "", err
	}

	upload, err := s.media.UploadFile(ctx, image, filename, TransformationBackgroundRemoval)
	if err != nil {
		return "", err
	}

	if _, err := s.creations.CreateCreation(ctx, userID, backgroundRemovalPrompt, upload.SecureURL, model.CreationTypeImage, false); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to persist background removal")
		return "", err
	}
	return upload.SecureURL, nil
}

func (s *generationService) RemoveObject(ctx context.Context, userID string, image io.Reader, filename, object string) (string, error) {
	rec, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetching usage record: %w", err)
	}
	if err := AuthorizeUsage(rec, model.CapabilityObjectRemoval, s.freeLimit); err != nil {
		return "", err
	}

	upload, err := s.media.UploadFile(ctx, image, filename, "")
	if err != nil {
		return "", err
	}
	// The removal itself happens at fetch time, so only one upload is needed.
	imageURL := s.media.DeliveryURL(upload.PublicID, "e_gen_remove:"+object)

	prompt := fmt.Sprintf("Removed %s from image", object)
	if _, err := s.creations.CreateCreation(ctx, userID, prompt, imageURL, model.CreationTypeImage, false); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to persist object removal")
		return "", err
	}
	return imageURL, nil
}

func (s *generationService) ReviewResume(ctx context.Context, userID string, resume io.Reader, size int64) (string, error) {
	rec, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetching usage record: %w", err)
	}
	if err := AuthorizeUsage(rec, model.CapabilityResumeReview, s.freeLimit); err != nil {
		return "", err
	}

	if size > MaxResumeSize {
		return "", ErrFileTooLarge
	}

	data, err := io.ReadAll(resume)
	if err != nil {
		return "", fmt.Errorf("reading resume upload: %w", err)
	}
	text, err := extractPDFText(data)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"Review the following resume and provide constructive feedback on its strengths, weaknesses and areas for improvement. Resume content:\n\n%s",
		text,
	)
	content, err := s.textGen.Generate(ctx, prompt, resumeReviewMaxTokens)
	if err != nil {
		return "", err
	}

	if _, err := s.creations.CreateCreation(ctx, userID, resumeReviewPrompt, content, model.CreationTypeResumeReview, false); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to persist resume review")
		return "", err
	}
	return content, nil
}

// consumeFreeUsage increments the counter by exactly one for free-tier users.
// The read-then-increment is not atomic across concurrent requests from the
// same user; that window is accepted.
func (s *generationService) consumeFreeUsage(ctx context.Context, rec *model.UsageRecord) error {
	if rec.Plan == model.PlanPremium {
		return nil
	}
	if err := s.ledger.SetFreeUsage(ctx, rec.UserID, rec.FreeUsage+1); err != nil {
		s.logger.Error().Err(err).Str("user_id", rec.UserID).Msg("Failed to update free usage")
		return err
	}
	return nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrUnreadableDocument
	}
	return text, nil
}
