package dto

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func validateRequired(field, value string) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(value) == "" {
		errs = append(errs, ValidationError{Field: field, Message: "is required"})
	}
	return errs
}

func validateID(field string, id ID) []ValidationError {
	var errs []ValidationError
	if !id.Valid {
		errs = append(errs, ValidationError{Field: field, Message: "is required"})
	} else if id.Value <= 0 {
		errs = append(errs, ValidationError{Field: field, Message: "must be a positive integer"})
	}
	return errs
}
