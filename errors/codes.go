package errors

// ErrorCode identifies an application error in API responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1003
	ErrorCode_PROCESSING_FAILED ErrorCode = 1004

	// Video / question input
	ErrorCode_VIDEO_INVALID_ID  ErrorCode = 2001
	ErrorCode_VIDEO_INVALID_URL ErrorCode = 2002
	ErrorCode_QUESTION_INVALID  ErrorCode = 2003

	// Transcript
	ErrorCode_TRANSCRIPT_UNAVAILABLE ErrorCode = 3001

	// AI
	ErrorCode_AI_QUOTA_EXCEEDED    ErrorCode = 4002
	ErrorCode_AI_GENERATION_FAILED ErrorCode = 4003

	// Integrations
	ErrorCode_INTEGRATION_INDEX_FAILED   ErrorCode = 5002
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5003
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_PROCESSING_FAILED:          "PROCESSING_FAILED",
	ErrorCode_VIDEO_INVALID_ID:           "VIDEO_INVALID_ID",
	ErrorCode_VIDEO_INVALID_URL:          "VIDEO_INVALID_URL",
	ErrorCode_QUESTION_INVALID:           "QUESTION_INVALID",
	ErrorCode_TRANSCRIPT_UNAVAILABLE:     "TRANSCRIPT_UNAVAILABLE",
	ErrorCode_AI_QUOTA_EXCEEDED:          "AI_QUOTA_EXCEEDED",
	ErrorCode_AI_GENERATION_FAILED:       "AI_GENERATION_FAILED",
	ErrorCode_INTEGRATION_INDEX_FAILED:   "INTEGRATION_INDEX_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
