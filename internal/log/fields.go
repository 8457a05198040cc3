package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldBackend    = "backend"
	FieldBetID      = "bet_id"
	FieldBetStatus  = "bet_status"
	FieldStake      = "stake"
	FieldOdds       = "odds"
	FieldAmount     = "amount"
	FieldTxType     = "transaction_type"
	FieldCount      = "count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentTracker  = "tracker"
	ComponentSettings = "settings"
	ComponentAMQP     = "amqp"
	ComponentBackend  = "backend"
	ComponentCache    = "cache"
)

// Operations defines standard operation names
const (
	OpAdd      = "add"
	OpEdit     = "edit"
	OpStatus   = "status"
	OpDelete   = "delete"
	OpFetch    = "fetch"
	OpSync     = "sync"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
