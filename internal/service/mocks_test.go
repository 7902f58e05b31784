package service_test

import (
	"context"
	"io"

	"app/internal/model"
	"app/internal/service"

	"github.com/stretchr/testify/mock"
)

type mockUsageLedger struct {
	mock.Mock
}

func (m *mockUsageLedger) Get(ctx context.Context, userID string) (*model.UsageRecord, error) {
	args := m.Called(ctx, userID)
	if rec := args.Get(0); rec != nil {
		return rec.(*model.UsageRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsageLedger) SetFreeUsage(ctx context.Context, userID string, freeUsage int) error {
	args := m.Called(ctx, userID, freeUsage)
	return args.Error(0)
}

type mockTextGenerator struct {
	mock.Mock
}

func (m *mockTextGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	args := m.Called(ctx, prompt, maxTokens)
	return args.String(0), args.Error(1)
}

type mockImageGenerator struct {
	mock.Mock
}

func (m *mockImageGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	args := m.Called(ctx, prompt)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMediaHost struct {
	mock.Mock
}

func (m *mockMediaHost) UploadFile(ctx context.Context, file io.Reader, filename, transformation string) (*service.MediaUpload, error) {
	args := m.Called(ctx, file, filename, transformation)
	if u := args.Get(0); u != nil {
		return u.(*service.MediaUpload), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMediaHost) UploadDataURI(ctx context.Context, dataURI string) (*service.MediaUpload, error) {
	args := m.Called(ctx, dataURI)
	if u := args.Get(0); u != nil {
		return u.(*service.MediaUpload), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMediaHost) DeliveryURL(publicID, transformation string) string {
	args := m.Called(publicID, transformation)
	return args.String(0)
}

type mockChatBot struct {
	mock.Mock
}

func (m *mockChatBot) Reply(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

type mockCreationRepo struct {
	mock.Mock
}

func (m *mockCreationRepo) CreateCreation(ctx context.Context, userID, prompt, content string, ctype model.CreationType, publish bool) (*model.Creation, error) {
	args := m.Called(ctx, userID, prompt, content, ctype, publish)
	if c := args.Get(0); c != nil {
		return c.(*model.Creation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCreationRepo) ListCreationsByUser(ctx context.Context, userID string) ([]model.Creation, error) {
	args := m.Called(ctx, userID)
	if c := args.Get(0); c != nil {
		return c.([]model.Creation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCreationRepo) ListPublishedCreations(ctx context.Context) ([]model.Creation, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]model.Creation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCreationRepo) SetPublish(ctx context.Context, creationID, userID string, publish bool) (*model.Creation, error) {
	args := m.Called(ctx, creationID, userID, publish)
	if c := args.Get(0); c != nil {
		return c.(*model.Creation), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockChatRepo struct {
	mock.Mock
}

func (m *mockChatRepo) CreateChatWithMessages(ctx context.Context, userID, title string, msgs []model.Message) (string, error) {
	args := m.Called(ctx, userID, title, msgs)
	return args.String(0), args.Error(1)
}

func (m *mockChatRepo) ListChatsByUser(ctx context.Context, userID string) ([]model.Chat, error) {
	args := m.Called(ctx, userID)
	if c := args.Get(0); c != nil {
		return c.([]model.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChatRepo) ListMessages(ctx context.Context, chatID string) ([]model.Message, error) {
	args := m.Called(ctx, chatID)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]model.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChatRepo) DeleteChat(ctx context.Context, chatID, userID string) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}
