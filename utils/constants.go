package utils

import "time"

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (30 days,
	// matching the portal's "stay signed in for a month" session policy)
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Notification constants
const (
	// NotificationListLimit caps how many rows the notification center loads
	NotificationListLimit = 50

	// NotificationDescriptionLimit is the truncation length applied to
	// descriptions before they are fanned out
	NotificationDescriptionLimit = 100
)

// Cache key suffixes, combined with the configured redis prefix
const (
	// NoteCatalogCacheKey holds the serialized full note catalog
	NoteCatalogCacheKey = "notes:catalog"
)

// ContextKey is the type for request-scoped context values.
type ContextKey string

// Context keys carried from the HTTP layer into business flows.
const (
	RequestIDKey ContextKey = "request_id"
	UserAgentKey ContextKey = "user_agent"
	IPAddressKey ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)
