package httpdto

// ErrorCode is the machine-readable code of a failure body.
type ErrorCode string

const (
	CodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeReference          ErrorCode = "REFERENCE_ERROR"
	CodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	CodeRateLimited        ErrorCode = "RATE_LIMITED"
	CodeUnhealthy          ErrorCode = "UNHEALTHY"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StatusBody is returned by the service endpoints (/ping, /health).
// Poll, candidate and vote resources are written bare.
type StatusBody struct {
	OK      bool   `json:"ok"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewStatusBody(status string) StatusBody {
	return StatusBody{OK: true, Status: status}
}

// ErrorBody is the shape of every 4xx/5xx response that carries a body.
// A missing poll or candidate is a 404 with no body at all.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewErrorBody(code ErrorCode, message string) ErrorBody {
	return ErrorBody{Code: code, Message: message}
}

// StorageUnavailableBody hides the storage cause from clients.
var StorageUnavailableBody = NewErrorBody(CodeStorageUnavailable, "storage unavailable")
