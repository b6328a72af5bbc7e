package constants

import "time"

// Request
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultTimeout        = 30 * time.Second
)

// Context keys
const (
	ContextTokenData   = "token_data"
	ContextCurrentUser = "current_user"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Database
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Cache
const (
	RedisKeyDirectoryUser = "directory:user:"
	DirectoryCacheTTL     = time.Minute
)

// Meetings
const (
	MeetingTitleMaxLength       = 250
	MeetingDescriptionMaxLength = 250
	DefaultMeetingListLimit     = 100
	MaxMeetingListLimit         = 500
)

// Calendar
const (
	CalendarDateLayout = "2006-01-02"
	MinCalendarYear    = 2000
	MaxCalendarYear    = 2100
)
