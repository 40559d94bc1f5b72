package httputil

import "github.com/redmonkez12/go-todo-api/internal/apperror"

// Machine-readable error codes returned next to the human message.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInternalError      = "INTERNAL_ERROR"

	CodeMissingAuth       = "MISSING_AUTH"
	CodeInvalidAuthHeader = "INVALID_AUTH_HEADER"
)

// CodeFor returns the code matching an error kind.
func CodeFor(kind apperror.Kind) string {
	switch kind {
	case apperror.KindValidation:
		return CodeValidationFailed
	case apperror.KindConflict:
		return CodeAlreadyExists
	case apperror.KindNotFound:
		return CodeNotFound
	case apperror.KindAuthentication:
		return CodeInvalidCredentials
	case apperror.KindInvalidToken:
		return CodeInvalidToken
	default:
		return CodeInternalError
	}
}
