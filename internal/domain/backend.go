package domain

import (
	"context"
	"errors"
)

// Status tags returned by the backend on logical success.
const (
	TagTextExtracted      = "text_extracted"
	TagQuestionsGenerated = "questions_generated"
)

// Failure causes. They are kept for logs only; the user sees one message per stage.
var (
	ErrTransport         = errors.New("backend request failed")
	ErrUnexpectedStatus  = errors.New("backend returned non-2xx status")
	ErrMalformedResponse = errors.New("backend returned malformed response")
	ErrUnexpectedTag     = errors.New("backend returned unexpected status tag")
	ErrStagePanic        = errors.New("stage panicked")
)

// ExtractionResult is the decoded body of a successful extraction call.
type ExtractionResult struct {
	Status  string
	Message string
	Context string
}

// GenerationResult is the decoded body of a successful generation call.
type GenerationResult struct {
	Status    string
	Message   string
	Questions string
}

// TextExtractor turns an uploaded document into text (stage 1).
type TextExtractor interface {
	ExtractText(ctx context.Context, file *UploadRequest) (*ExtractionResult, error)
}

// QuestionGenerator turns extracted text into trivia questions (stage 2).
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, text string) (*GenerationResult, error)
}
