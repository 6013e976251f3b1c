// Package apierror defines the error kinds the API exposes. Every failure a
// handler can report carries an HTTP status, a stable machine-readable code,
// and a human-readable message; the translation to a response body happens in
// exactly one place (internal/handler.writeError).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code string, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// IsNotFound reports whether err is an entity_not_found error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func TokenNotProvided() *APIError {
	return New(http.StatusForbidden, "authentication_required", "Not authenticated")
}

func InvalidAccessToken() *APIError {
	return New(http.StatusForbidden, "invalid_access_token", "Authentication failed: invalid access token")
}

func ExpiredAccessToken() *APIError {
	return New(http.StatusForbidden, "expired_access_token", "Authentication failed: expired access token")
}

func InvalidCredentials() *APIError {
	return New(http.StatusUnauthorized, "invalid_credentials", "Authentication failed: invalid username or password")
}

// DuplicateValue reports a uniqueness violation, naming the entity and the
// colliding field, e.g. "account with username=juniper already exists".
func DuplicateValue(entity string, field string, value string) *APIError {
	return New(http.StatusUnprocessableEntity, "duplicate_entity_value",
		fmt.Sprintf("Duplicate value: %s with %s=%s already exists", entity, field, value))
}

func EntityNotFound(entity string, id int64) *APIError {
	return New(http.StatusNotFound, "entity_not_found",
		fmt.Sprintf("Unable to find %s with id=%d", entity, id))
}

func AccessDenied(message string) *APIError {
	return New(http.StatusForbidden, "access_denied", message)
}

func ChatOwnerRemoval() *APIError {
	return New(http.StatusUnprocessableEntity, "chat_owner_removal", "Unable to remove the owner of a chat")
}

func MembershipRequired(accountID int64, chatID int64) *APIError {
	return New(http.StatusUnprocessableEntity, "chat_membership_required",
		fmt.Sprintf("Account with id=%d must be a member of chat with id=%d", accountID, chatID))
}

func DuplicateJoinRequest(senderID int64, chatID int64) *APIError {
	return New(http.StatusUnprocessableEntity, "invalid_join_chat_request",
		fmt.Sprintf("Existing chat request from account=%d to chat=%d", senderID, chatID))
}

func AlreadyChatMember(senderID int64, chatID int64) *APIError {
	return New(http.StatusUnprocessableEntity, "invalid_join_chat_request",
		fmt.Sprintf("User with account=%d already member of chat=%d", senderID, chatID))
}
