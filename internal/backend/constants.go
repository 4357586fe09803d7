package backend

import "time"

// API paths
const (
	PathRegister        = "/users/register"
	PathComments        = "/comments"
	PathUserRankPattern = "/leaderboard/user/%s"
)

// Client defaults
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultBackoff    = time.Second
	maxErrorBody      = 512
)

// Sync defaults
const (
	DefaultSyncBatch   = 20
	DefaultSyncSpacing = 100 * time.Millisecond
)

// Identity: locally generated ids carry ExtensionIDPrefix and the registered
// username is UsernamePrefix plus the last usernameTailChars of the id
const (
	ExtensionIDPrefix = "ext_"
	UsernamePrefix    = "User_"
	usernameTailChars = 6
)

// Log messages
const (
	LogMsgUserRegistered     = "Registered user with backend"
	LogMsgUserRegisterFailed = "Backend user registration failed"
	LogMsgExtensionIDCreated = "Generated extension user id"
	LogMsgSyncStarted        = "Backend sync started"
	LogMsgSyncRecordFailed   = "Failed to sync comment record"
	LogMsgSyncCompleted      = "Backend sync completed"
	LogMsgSyncMarkFailed     = "Failed to mark records as synced"
	LogMsgRankLookupFailed   = "Backend rank lookup failed"
)
