package registration

import "fmt"

type ErrorReason string

const (
	REASON_MISSING_FIELDS                  ErrorReason = "MISSING_FIELDS"
	REASON_INVALID_PARTICIPANT             ErrorReason = "INVALID_PARTICIPANT"
	REASON_PREFERENCE_CREATION_FAILED      ErrorReason = "PREFERENCE_CREATION_FAILED"
	REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL ErrorReason = "FAILED_TO_TRANSLATE_TO_DB_MODEL"
	REASON_FAILED_TO_WRITE                 ErrorReason = "FAILED_TO_WRITE"
	REASON_FAILED_TO_FETCH                 ErrorReason = "FAILED_TO_FETCH"
	REASON_REGISTRATION_DOES_NOT_EXIST     ErrorReason = "REGISTRATION_DOES_NOT_EXIST"
	REASON_REGISTRATION_ALREADY_EXISTS     ErrorReason = "REGISTRATION_ALREADY_EXISTS"
	REASON_EMAIL_ALREADY_SENT              ErrorReason = "EMAIL_ALREADY_SENT"
	REASON_EMAIL_SEND_FAILED               ErrorReason = "EMAIL_SEND_FAILED"
	REASON_INVALID_CURSOR                  ErrorReason = "INVALID_CURSOR"
)

type Error struct {
	Reason  ErrorReason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Reason, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newRegistrationError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewMissingFieldsError(message string) *Error {
	return newRegistrationError(REASON_MISSING_FIELDS, message, nil)
}

func NewInvalidParticipantError(message string) *Error {
	return newRegistrationError(REASON_INVALID_PARTICIPANT, message, nil)
}

func NewPreferenceCreationFailedError(message string, cause error) *Error {
	return newRegistrationError(REASON_PREFERENCE_CREATION_FAILED, message, cause)
}

func NewFailedToTranslateToDBModelError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL, message, cause)
}

func NewFailedToWriteError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_WRITE, message, cause)
}

func NewFailedToFetchError(message string, cause error) *Error {
	return newRegistrationError(REASON_FAILED_TO_FETCH, message, cause)
}

func NewRegistrationDoesNotExistError(message string, cause error) *Error {
	return newRegistrationError(REASON_REGISTRATION_DOES_NOT_EXIST, message, cause)
}

func NewRegistrationAlreadyExistsError(message string, cause error) *Error {
	return newRegistrationError(REASON_REGISTRATION_ALREADY_EXISTS, message, cause)
}

func NewEmailAlreadySentError(message string) *Error {
	return newRegistrationError(REASON_EMAIL_ALREADY_SENT, message, nil)
}

func NewEmailSendFailedError(message string, cause error) *Error {
	return newRegistrationError(REASON_EMAIL_SEND_FAILED, message, cause)
}

func NewInvalidCursorError(message string, cause error) *Error {
	return newRegistrationError(REASON_INVALID_CURSOR, message, cause)
}
