package constants

import "time"

// Echo context keys
const (
	ContextTokenData = "token_data"
	ContextIdentity  = "identity"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

const (
	DefaultTimeout        = 5 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseLockTimeout     = 2 * time.Second
)

// Redis keys
const (
	RedisKeyTokenBlacklist = "auth:blacklist:"
	RedisKeyLoginAttempt   = "auth:login:"
)

const (
	MaxLoginAttempts  = 5
	BlockDuration     = 15 * time.Minute
	TokenBlacklistTTL = 24 * time.Hour
)

// Notifications
const (
	NotificationChannelPrefix   = "notifications:user:"
	NotificationBufferSize      = 32
	NotificationOutboxSize      = 1024
	TaskTypeNotificationPersist = "notification:persist"
	QueueNotifications          = "notifications"
)

// Event types pushed to notification subscribers
const (
	EventConnectionEstablished = "connection_established"
	EventNotification          = "notification"
	EventSwapRequestReceived   = "swap_request_received"
	EventSwapRequestAccepted   = "swap_request_accepted"
	EventSwapRequestRejected   = "swap_request_rejected"
)
