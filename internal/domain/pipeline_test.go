package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestPipelineState_CanSubmit(t *testing.T) {
	state := NewPipelineState()
	if state.CanSubmit() {
		t.Error("fresh state must not be submittable")
	}
	if state.Status.Kind != StatusIdle || state.Status.Text != "" {
		t.Errorf("unexpected initial status %+v", state.Status)
	}

	state.SelectedFile = &UploadRequest{FileName: "a.pdf"}
	if !state.CanSubmit() {
		t.Error("state with a file should be submittable")
	}

	state.Busy = true
	if state.CanSubmit() {
		t.Error("busy state must not be submittable")
	}
}

func TestUploadRequest_Size(t *testing.T) {
	if got := (&UploadRequest{}).Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
	if got := (&UploadRequest{Data: []byte("%PDF")}).Size(); got != 4 {
		t.Errorf("Size() = %d, want 4", got)
	}
}

func TestStageFailure(t *testing.T) {
	cause := fmt.Errorf("%w: connection refused", ErrTransport)
	failure := &StageFailure{Stage: StageExtraction, Cause: cause}

	if !errors.Is(failure, ErrTransport) {
		t.Error("StageFailure should unwrap to its cause")
	}
	if got := failure.Error(); got != "extraction stage failed: backend request failed: connection refused" {
		t.Errorf("unexpected message %q", got)
	}

	outcome := &PipelineOutcome{}
	if !outcome.Succeeded() {
		t.Error("outcome without failure should succeed")
	}
	outcome.Failure = failure
	if outcome.Succeeded() {
		t.Error("outcome with failure should not succeed")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewMissingInputError())

	if !HasCode(err, ErrMissingInput) {
		t.Error("HasCode should see through wrapping")
	}
	if HasCode(err, ErrSubmitInProgress) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(errors.New("plain"), ErrMissingInput) {
		t.Error("HasCode matched a non-domain error")
	}
	if HasCode(nil, ErrMissingInput) {
		t.Error("HasCode matched nil")
	}
}

func TestDomainError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewBackendUnavailableError(cause)

	if !errors.Is(err, cause) {
		t.Error("DomainError should unwrap to its cause")
	}
	if got, want := err.Error(), "Backend service is unavailable: dial tcp: refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := NewMissingInputError().Error(), "Please upload a PDF file!"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
