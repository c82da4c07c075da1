package utils

import "time"

// Application Constants
const (
	AppName    = "EcoTrip"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultCurrency = "INR"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// Trip Constants
	MaxSegmentsPerTrip = 20
	MaxTripDistance    = 500.0 // kilometers
	MaxTripDuration    = 24 * time.Hour

	// Aggregation Constants
	MaxFoldAttempts    = 3
	FoldRetryBackoff   = 200 * time.Millisecond
	FoldLockExpiry     = 10 * time.Second
	FoldLockRetryDelay = 50 * time.Millisecond

	// Notification
	NotificationRetryAttempts = 3
	NotificationTimeout       = 30 * time.Second

	// Rate Limiting
	DefaultRateLimit = 100
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFailed  = "failed"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserNotFound       = "user not found"
	ErrInvalidToken       = "invalid token"
	ErrTokenExpired       = "token expired"
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrNotFound           = "not found"
	ErrConflict           = "conflict"
	ErrValidationFailed   = "validation failed"
	ErrTripNotFound       = "trip not found"
	ErrTripNotEditable    = "trip is no longer editable"
)

// Cache Keys
const (
	CacheKeyEcoStat      = "eco_stat:%s:%s:%s" // userID, periodType, periodStart
	CacheKeyEcoTotal     = "eco_total:%s"      // userID
	CacheKeyUnreadCount  = "unread_count:%s"   // userID
	CacheKeyUserFoldLock = "eco_fold:%s"       // userID
)
