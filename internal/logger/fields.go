package logger

import "go.uber.org/zap"

// Field keys used across request, search and history log lines.
const (
	KeyRequestID = "request_id"
	KeyUser      = "user"
	KeySearchID  = "search_id"
)

// RequestID tags a line with the X-Request-ID of the request.
func RequestID(id string) zap.Field { return zap.String(KeyRequestID, id) }

// User tags a line with the caller's user ID.
func User(id string) zap.Field { return zap.String(KeyUser, id) }

// SearchID tags a line with a search history record ID.
func SearchID(id string) zap.Field { return zap.String(KeySearchID, id) }
