package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrQuotaExceeded indicates the document has more pages than the plan allows
	ErrQuotaExceeded = errors.New("page quota exceeded")

	// ErrFileTooLarge indicates the upload exceeds the plan's size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrDocumentNotReady indicates the document has not finished ingestion
	ErrDocumentNotReady = errors.New("document not ready")

	// ErrIngestionFailed indicates loading or indexing a document failed
	ErrIngestionFailed = errors.New("ingestion failed")

	// ErrRetrieval indicates the vector index could not be queried
	ErrRetrieval = errors.New("retrieval failed")

	// ErrStreamFailed indicates generation failed before or during streaming
	ErrStreamFailed = errors.New("stream failed")

	// ErrServiceUnavailable indicates an AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidProvider indicates an unknown AI provider was configured
	ErrInvalidProvider = errors.New("invalid AI provider")

	// ErrLockHeld indicates another worker holds the ingestion lock for a key
	ErrLockHeld = errors.New("lock held")
)
