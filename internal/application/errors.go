package application

import (
	"fmt"
	"net/http"
)

// ErrorKind enumerates every failure a use case can return.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindValidation
	KindInvalidCredential
	KindUserNotFound
	KindUserIsMarkedForDeletion
	KindUsernameTaken
	KindEmailAlreadyExists
	KindUnableToSaveUser
	KindUnableToDeleteUser
	KindNotAuthorized
)

var kindNames = map[ErrorKind]string{
	KindUnexpected:              "UnexpectedError",
	KindValidation:              "ValidationError",
	KindInvalidCredential:       "InvalidCredential",
	KindUserNotFound:            "UserNotFound",
	KindUserIsMarkedForDeletion: "UserIsMarkedForDeletion",
	KindUsernameTaken:           "UsernameTaken",
	KindEmailAlreadyExists:      "EmailAlreadyExists",
	KindUnableToSaveUser:        "UnableToSaveUser",
	KindUnableToDeleteUser:      "UnableToDeleteUser",
	KindNotAuthorized:           "NotAuthorized",
}

func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return kindNames[KindUnexpected]
}

// Status maps the kind to an HTTP status code.
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation, KindInvalidCredential:
		return http.StatusBadRequest
	case KindUserNotFound, KindUserIsMarkedForDeletion, KindUsernameTaken, KindEmailAlreadyExists:
		return http.StatusConflict
	case KindNotAuthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// UseCaseError is the failure payload of every use case.
type UseCaseError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *UseCaseError) Error() string { return e.Message }
func (e *UseCaseError) Unwrap() error { return e.Cause }

func ValidationError(msg string) *UseCaseError {
	return &UseCaseError{Kind: KindValidation, Message: msg}
}

func InvalidCredential() *UseCaseError {
	return &UseCaseError{Kind: KindInvalidCredential, Message: "Username or password is invalid."}
}

func UserNotFound(username string) *UseCaseError {
	return &UseCaseError{Kind: KindUserNotFound, Message: fmt.Sprintf("User %s not found.", username)}
}

// UserIsMarkedForDeletion is returned to the account owner during sign up
// and sign in.
func UserIsMarkedForDeletion() *UseCaseError {
	return &UseCaseError{
		Kind:    KindUserIsMarkedForDeletion,
		Message: "The user is marked for deletion: Contact support for assistance.",
	}
}

// UserAwaitingRemoval is returned when deleting an account that is
// already soft-deleted.
func UserAwaitingRemoval(username string) *UseCaseError {
	return &UseCaseError{
		Kind:    KindUserIsMarkedForDeletion,
		Message: fmt.Sprintf("The user %s is marked for deletion and will be removed.", username),
	}
}

func UsernameTaken(username string) *UseCaseError {
	return &UseCaseError{Kind: KindUsernameTaken, Message: fmt.Sprintf("The username %s is already taken", username)}
}

func EmailAlreadyExists(email string) *UseCaseError {
	return &UseCaseError{Kind: KindEmailAlreadyExists, Message: fmt.Sprintf("The email %s already exists", email)}
}

func UnableToSaveUser(username string, cause error) *UseCaseError {
	return &UseCaseError{
		Kind:    KindUnableToSaveUser,
		Message: fmt.Sprintf("Unable to save %s: Contact support for assistance.", username),
		Cause:   cause,
	}
}

func UnableToDeleteUser(username string, cause error) *UseCaseError {
	return &UseCaseError{
		Kind:    KindUnableToDeleteUser,
		Message: fmt.Sprintf("Unable to delete user %s: Contact support for assistance.", username),
		Cause:   cause,
	}
}

func NotAuthorized(cause error) *UseCaseError {
	return &UseCaseError{Kind: KindNotAuthorized, Message: "Request was not authorized", Cause: cause}
}

func UnexpectedError(cause error) *UseCaseError {
	return &UseCaseError{Kind: KindUnexpected, Message: "An unexpected error occurred.", Cause: cause}
}
