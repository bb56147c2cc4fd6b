package constants

import "time"

// Application constants
const (
	// Service identification
	ServiceName    = "estatechat"
	ServiceVersion = "v1.0.0"
	APIVersion     = "v1"
)

// Default timeouts
const (
	DefaultHTTPTimeout      = 10 * time.Second
	ShortHTTPTimeout        = 5 * time.Second
	LongHTTPTimeout         = 30 * time.Second
	StorageTimeout          = 10 * time.Second
	SearchTimeout           = 5 * time.Second
	DispatchTimeout         = 30 * time.Second
	HealthCheckTimeout      = 5 * time.Second
	GracefulShutdownTimeout = 30 * time.Second
)

// Database configuration
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 25
	DefaultConnMaxLifetime = 5 * time.Minute

	MigrationsTableName = "schema_migrations"
)

// Dispatch defaults
const (
	// MaxSearchResults caps how many search hits are formatted into one bot
	// reply.
	MaxSearchResults = 5
)

// Canned bot messages. Replies degrade to an in-conversation bot message on
// every failure path; there is no separate error surface.
const (
	GreetingMessage = "Hello! I am your Real Estate assistant. How can I help you today?"

	ApologyMessage = "Sorry, I could not find an answer for that right now. Please try again.\n" +
		"क्षमा करें, अभी आपके प्रश्न का उत्तर नहीं मिल सका। कृपया पुनः प्रयास करें।"

	ConnectionTroubleMessage = "Sorry, I am having trouble connecting to the server. Please try again later.\n" +
		"सर्वर से संपर्क नहीं हो पा रहा है। कृपया थोड़ी देर बाद फिर से प्रयास करें।"
)

// Error messages
const (
	ErrMsgConversationNotFound = "conversation not found"
	ErrMsgMessageNotFound      = "message not found"
	ErrMsgInvalidRequest       = "invalid request"
	ErrMsgInternalServer       = "internal server error"
	ErrMsgServiceUnavailable   = "service unavailable"
)

// HTTP status messages
const (
	StatusOK                 = "ok"
	StatusError              = "error"
	StatusServiceUnavailable = "service_unavailable"
)

// Operation types for timeout selection
const (
	OperationTypeStorage  = "storage"
	OperationTypeSearch   = "search"
	OperationTypeDispatch = "dispatch"
	OperationTypeDefault  = "default"
)

// Log levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// File and directory paths
const (
	DefaultDataDir        = "./data"
	DefaultDBPath         = "./data/estatechat.db"
	DefaultMigrationsPath = "./internal/adapters/storage/sqlite/migrations"
)

// Validation constraints
const (
	MaxMessageContentLength = 10000
)
