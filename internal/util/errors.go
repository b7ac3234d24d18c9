package util

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)

// FieldError is a validation failure tied to one input field. Services return
// it instead of a bare error so controllers can point the client at the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}

func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "violates check constraint")
}

// ErrorResponse maps a service error to a status code and JSON body:
// c.JSON(util.ErrorResponse(err)).
func ErrorResponse(err error) (int, map[string]any) {
	if fe, ok := AsFieldError(err); ok {
		body := map[string]any{"error": fe.Message}
		if fe.Field != "" {
			body["field"] = fe.Field
		}
		return http.StatusBadRequest, body
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, map[string]any{"error": "not found"}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, map[string]any{"error": err.Error()}
	case errors.Is(err, ErrConflict), IsUniqueViolation(err):
		return http.StatusConflict, map[string]any{"error": err.Error()}
	case IsForeignKeyViolation(err):
		return http.StatusBadRequest, map[string]any{"error": "referenced record does not exist"}
	case IsCheckViolation(err):
		return http.StatusBadRequest, map[string]any{"error": err.Error()}
	}
	return http.StatusInternalServerError, map[string]any{"error": err.Error()}
}
