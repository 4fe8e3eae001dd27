package validation

import (
	"strings"

	"trivia-gen/internal/domain"
	"trivia-gen/internal/util"
)

// Validator provides request validation functionality
type Validator struct {
	maxUploadBytes int64
}

// NewValidator creates a new validator instance. maxUploadBytes <= 0 disables
// the size check.
func NewValidator(maxUploadBytes int64) *Validator {
	return &Validator{maxUploadBytes: maxUploadBytes}
}

// ValidateSessionID validates a session path parameter
func (v *Validator) ValidateSessionID(sessionID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(sessionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("session_id"))
	} else if !util.IsULID(sessionID) {
		errors = append(errors, domain.NewInvalidFormatError("session_id", sessionID))
	}

	return errors
}

// ValidateUpload only checks that a file was chosen and fits the body limit;
// the contents are the backend's business.
func (v *Validator) ValidateUpload(fileName string, size int64) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(fileName) == "" {
		errors = append(errors, domain.NewMissingFieldError("file"))
		return errors
	}
	if v.maxUploadBytes > 0 && size > v.maxUploadBytes {
		errors = append(errors, domain.NewOutOfRangeError("file", size, 0, v.maxUploadBytes))
	}

	return errors
}
