package service

import (
	"errors"
	"testing"

	"app/internal/model"
)

func TestAuthorizeUsage(t *testing.T) {
	tests := []struct {
		name       string
		plan       model.Plan
		freeUsage  int
		capability model.Capability
		wantErr    error
	}{
		{"premium article always allowed", model.PlanPremium, 0, model.CapabilityArticle, nil},
		{"premium allowed past the limit", model.PlanPremium, 999, model.CapabilityArticle, nil},
		{"premium image allowed", model.PlanPremium, 0, model.CapabilityImageGeneration, nil},
		{"free article under limit", model.PlanFree, 9, model.CapabilityArticle, nil},
		{"free blog title under limit", model.PlanFree, 0, model.CapabilityBlogTitle, nil},
		{"free article at limit", model.PlanFree, 10, model.CapabilityArticle, ErrLimitReached},
		{"free article past limit", model.PlanFree, 11, model.CapabilityBlogTitle, ErrLimitReached},
		{"free image denied at zero usage", model.PlanFree, 0, model.CapabilityImageGeneration, ErrPremiumRequired},
		{"free background removal denied", model.PlanFree, 0, model.CapabilityBackgroundRemoval, ErrPremiumRequired},
		{"free object removal denied", model.PlanFree, 0, model.CapabilityObjectRemoval, ErrPremiumRequired},
		{"free resume review denied", model.PlanFree, 0, model.CapabilityResumeReview, ErrPremiumRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &model.UsageRecord{UserID: "user_1", Plan: tt.plan, FreeUsage: tt.freeUsage}
			err := AuthorizeUsage(rec, tt.capability, DefaultFreeUsageLimit)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AuthorizeUsage(%s, %d, %s) = %v, want %v", tt.plan, tt.freeUsage, tt.capability, err, tt.wantErr)
			}
		})
	}
}
