package service

import "errors"

var (
	// ErrLimitReached means a free-tier user has exhausted the free-usage quota.
	ErrLimitReached = errors.New("free usage limit reached")
	// ErrPremiumRequired means the capability is reserved for premium plans.
	ErrPremiumRequired = errors.New("premium plan required")
	// ErrProviderQuota means the upstream provider rejected the call with a
	// rate/quota status (HTTP 429).
	ErrProviderQuota = errors.New("provider quota exceeded")
	// ErrContentBlocked means the provider returned empty or filtered output.
	ErrContentBlocked = errors.New("provider returned no content")

	// ErrChatNotFound covers both a missing chat and one owned by another user.
	ErrChatNotFound = errors.New("chat not found")
	// ErrInvalidConversation means a chat save had no title or no messages.
	ErrInvalidConversation = errors.New("invalid conversation payload")

	// ErrFileTooLarge means an uploaded document exceeded the size cap.
	ErrFileTooLarge = errors.New("file exceeds allowed size")
	// ErrUnreadableDocument means no text could be extracted from an upload.
	ErrUnreadableDocument = errors.New("unreadable document")
)
