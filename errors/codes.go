package errors

// ErrorCode identifies an application error category in API responses.
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1003

	// Pipeline input errors
	ErrorCode_NO_INPUT      ErrorCode = 2000
	ErrorCode_EMPTY_CONTENT ErrorCode = 2001

	// Provider errors
	ErrorCode_TRANSCRIPTION_FAILED ErrorCode = 3000
	ErrorCode_MALFORMED_OUTPUT     ErrorCode = 3001
	ErrorCode_ALL_PROVIDERS_FAILED ErrorCode = 3002
	ErrorCode_PROCESSING_FAILED    ErrorCode = 3003
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:              "OK",
	ErrorCode_INTERNAL:             "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:     "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:            "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:      "INVALID_PAYLOAD",
	ErrorCode_NO_INPUT:             "NO_INPUT",
	ErrorCode_EMPTY_CONTENT:        "EMPTY_CONTENT",
	ErrorCode_TRANSCRIPTION_FAILED: "TRANSCRIPTION_FAILED",
	ErrorCode_MALFORMED_OUTPUT:     "MALFORMED_OUTPUT",
	ErrorCode_ALL_PROVIDERS_FAILED: "ALL_PROVIDERS_FAILED",
	ErrorCode_PROCESSING_FAILED:    "PROCESSING_FAILED",
}

// String returns the symbolic name of the error code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
