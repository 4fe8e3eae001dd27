package dto

import "trivia-gen/internal/domain"

// CreateSessionResponse is returned when a new session is opened
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// StatusResponse is the status line of a session
type StatusResponse struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// SessionStateResponse represents a session snapshot in the API response.
// Context and Questions are null until their stage has succeeded; an empty
// string is a real result.
type SessionStateResponse struct {
	SessionID string         `json:"session_id"`
	Status    StatusResponse `json:"status"`
	Busy      bool           `json:"busy"`
	CanSubmit bool           `json:"can_submit"`
	FileName  string         `json:"file_name,omitempty"`
	FileSize  int64          `json:"file_size,omitempty"`
	Context   *string        `json:"context"`
	Questions *string        `json:"questions"`
}

// NewSessionStateResponse maps a controller snapshot to its API shape
func NewSessionStateResponse(sessionID string, state domain.PipelineState) SessionStateResponse {
	resp := SessionStateResponse{
		SessionID: sessionID,
		Status: StatusResponse{
			Kind: string(state.Status.Kind),
			Text: state.Status.Text,
		},
		Busy:      state.Busy,
		CanSubmit: state.CanSubmit(),
		Context:   state.ExtractedContext,
		Questions: state.GeneratedQuestions,
	}
	if state.SelectedFile != nil {
		resp.FileName = state.SelectedFile.FileName
		resp.FileSize = state.SelectedFile.Size()
	}
	return resp
}

// HealthResponse reports the reachability of downstream dependencies
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Cache   string `json:"cache,omitempty"`
}
