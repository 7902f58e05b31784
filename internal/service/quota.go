package service

import "app/internal/model"

// DefaultFreeUsageLimit is the number of free-tier text generations allowed
// before requiring an upgrade.
const DefaultFreeUsageLimit = 10

// AuthorizeUsage decides whether the caller may invoke the capability.
// Premium plans are always allowed and never consume the counter. Free plans
// are denied premium-only capabilities outright, regardless of the counter,
// and denied text capabilities once the counter reaches the limit.
func AuthorizeUsage(rec *model.UsageRecord, capability model.Capability, freeLimit int) error {
	if rec.Plan == model.PlanPremium {
		return nil
	}
	if capability.PremiumOnly() {
		return ErrPremiumRequired
	}
	if rec.FreeUsage >= freeLimit {
		return ErrLimitReached
	}
	return nil
}
