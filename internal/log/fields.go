package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldKey         = "key"
	FieldRange       = "range"
	FieldSource      = "source"
	FieldWindow      = "window"
	FieldCount       = "count"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldDescription = "description"
	FieldSyncedAt    = "synced_at"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentSheets    = "sheets"
	ComponentReconcile = "reconcile"
	ComponentSession   = "session"
	ComponentCache     = "cache"
	ComponentTrace     = "trace"
)

// Operations defines standard operation names
const (
	OpGet      = "get"
	OpSet      = "set"
	OpRemove   = "remove"
	OpRead     = "read"
	OpAppend   = "append"
	OpMerge    = "merge"
	OpFallback = "fallback"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
