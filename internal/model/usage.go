package model

// Plan is the caller's subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// Capability identifies one generation feature for entitlement checks.
type Capability string

const (
	CapabilityArticle           Capability = "article"
	CapabilityBlogTitle         Capability = "blog-title"
	CapabilityImageGeneration   Capability = "image-generation"
	CapabilityBackgroundRemoval Capability = "background-removal"
	CapabilityObjectRemoval     Capability = "object-removal"
	CapabilityResumeReview      Capability = "resume-review"
)

// PremiumOnly reports whether the capability is reserved for premium plans
// regardless of the free-usage counter.
func (c Capability) PremiumOnly() bool {
	switch c {
	case CapabilityImageGeneration, CapabilityBackgroundRemoval, CapabilityObjectRemoval, CapabilityResumeReview:
		return true
	}
	return false
}

// UsageRecord is the per-user entitlement state held by the identity provider:
// the plan tier plus the free-tier usage counter.
type UsageRecord struct {
	UserID    string `json:"user_id"`
	Plan      Plan   `json:"plan"`
	FreeUsage int    `json:"free_usage"`
}
