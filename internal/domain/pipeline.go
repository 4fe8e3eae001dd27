package domain

import (
	"fmt"
)

// UploadRequest is the file a user picked. Its bytes are never inspected,
// only forwarded to the extraction backend.
type UploadRequest struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Size returns the payload length in bytes.
func (u *UploadRequest) Size() int64 {
	return int64(len(u.Data))
}

// Stage identifies one of the two backend calls of a submission.
type Stage string

const (
	StageExtraction Stage = "extraction"
	StageGeneration Stage = "generation"
)

// StatusKind lets a presentation layer colour the status line.
type StatusKind string

const (
	StatusIdle       StatusKind = "idle"
	StatusProcessing StatusKind = "processing"
	StatusSucceeded  StatusKind = "succeeded"
	StatusFailed     StatusKind = "failed"
)

// StatusMessage is the single user-facing status line; last writer wins.
type StatusMessage struct {
	Kind StatusKind `json:"kind"`
	Text string     `json:"text"`
}

// User-facing status texts.
const (
	MsgProcessing       = "Processing your PDF..."
	MsgTextExtracted    = "Text extracted from PDF successfully!"
	MsgQuestionsReady   = "Questions generated successfully!"
	MsgExtractionFailed = "Failed to process PDF!"
	MsgGenerationFailed = "Failed to generate questions."
)

// PipelineState is the mutable state of one upload-and-generate session.
// ExtractedContext and GeneratedQuestions are nil until their stage succeeds;
// an empty string is a present value.
type PipelineState struct {
	SelectedFile       *UploadRequest
	ExtractedContext   *string
	GeneratedQuestions *string
	Status             StatusMessage
	Busy               bool
}

// NewPipelineState returns the state of a fresh session.
func NewPipelineState() PipelineState {
	return PipelineState{Status: StatusMessage{Kind: StatusIdle}}
}

// CanSubmit mirrors the enabled state of the submit control.
func (s PipelineState) CanSubmit() bool {
	return !s.Busy && s.SelectedFile != nil
}

// StageFailure records why a stage did not yield its success tag.
type StageFailure struct {
	Stage Stage
	Cause error
}

func (f *StageFailure) Error() string {
	return fmt.Sprintf("%s stage failed: %v", f.Stage, f.Cause)
}

func (f *StageFailure) Unwrap() error {
	return f.Cause
}

// PipelineOutcome is the result of one submission. Failure is nil when both
// stages succeeded; Context is set whenever extraction succeeded.
type PipelineOutcome struct {
	Context   *string
	Questions *string
	Failure   *StageFailure
}

// Succeeded reports whether both stages returned their success tags.
func (o *PipelineOutcome) Succeeded() bool {
	return o.Failure == nil
}
