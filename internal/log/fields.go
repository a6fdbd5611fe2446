package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldSaleID    = "sale_id"
	FieldCompany   = "company"
	FieldCountry   = "country"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldVersion   = "version"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentLedger    = "ledger"
	ComponentExpense   = "expense"
	ComponentReport    = "report"
	ComponentStorage   = "storage"
	ComponentSheets    = "sheets"
	ComponentScheduler = "scheduler"
	ComponentUpdater   = "updater"
	ComponentCache     = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpSync     = "sync"
	OpExport   = "export"
	OpRefresh  = "refresh"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
