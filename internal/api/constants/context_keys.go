package constants

// Context keys set by middleware
const (
	ContextKeyUserID    = "userID"
	ContextKeyRequestID = "RequestID"
)
