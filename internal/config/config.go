package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`

	// Text generation (OpenAI-compatible chat completions endpoint)
	TextGenAPIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	TextGenBaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	TextGenModel   string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`

	// Image synthesis
	ImageGenAPIKey  string `envconfig:"CLIPDROP_API_KEY" required:"true"`
	ImageGenBaseURL string `envconfig:"CLIPDROP_BASE_URL" default:"https://clipdrop-api.co"`

	// Chat completion provider backing the assistant endpoint
	ChatBotAPIKey  string `envconfig:"COHERE_API_KEY" required:"true"`
	ChatBotBaseURL string `envconfig:"COHERE_BASE_URL" default:"https://api.cohere.ai"`
	ChatBotModel   string `envconfig:"COHERE_MODEL" default:"command-r-plus-08-2024"`

	// Media host (upload + delivery-time transformations)
	MediaCloudName   string `envconfig:"CLOUDINARY_CLOUD_NAME" required:"true"`
	MediaAPIKey      string `envconfig:"CLOUDINARY_API_KEY" required:"true"`
	MediaAPISecret   string `envconfig:"CLOUDINARY_API_SECRET" required:"true"`
	MediaUploadURL   string `envconfig:"CLOUDINARY_UPLOAD_URL" default:"https://api.cloudinary.com/v1_1"`
	MediaDeliveryURL string `envconfig:"CLOUDINARY_DELIVERY_URL" default:"https://res.cloudinary.com"`

	// Identity provider that owns the plan tier and free-usage counter
	IdentityBaseURL string `envconfig:"IDENTITY_API_URL" default:"https://api.clerk.com/v1"`
	IdentityAPIKey  string `envconfig:"IDENTITY_SECRET_KEY" required:"true"`

	// Free-tier text generations allowed before requiring an upgrade
	FreeUsageLimit int `envconfig:"FREE_USAGE_LIMIT" default:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
