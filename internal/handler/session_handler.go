package handler

import (
	"io"

	"trivia-gen/internal/domain"
	"trivia-gen/internal/dto"
	"trivia-gen/internal/logger"
	"trivia-gen/internal/middleware"
	"trivia-gen/internal/service"
	"trivia-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler handles upload-and-generate session requests
type SessionHandler struct {
	sessions  service.SessionService
	validator *validation.Validator
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessions service.SessionService, validator *validation.Validator) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		validator: validator,
	}
}

// CreateSession godoc
// @Summary Open a session
// @Description Creates an idle session with no file selected
// @Tags sessions
// @Produce json
// @Success 201 {object} dto.CreateSessionResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	sess := h.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{SessionID: sess.ID})
}

// GetSession godoc
// @Summary Get session state
// @Description Returns the status line, busy flag, extracted context and generated questions
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)
	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionStateResponse(sessionID, sess.Controller.Snapshot()))
}

// SelectFile godoc
// @Summary Select the PDF to submit
// @Description Replaces the selected file; nothing is sent to the backend yet
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "PDF document"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/file [put]
func (h *SessionHandler) SelectFile(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}
	if errs := h.validator.ValidateUpload(fh.Filename, fh.Size); len(errs) > 0 {
		return errs
	}

	f, err := fh.Open()
	if err != nil {
		return domain.NewInternalError("failed to open uploaded file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.NewInternalError("failed to read uploaded file", err)
	}

	state, err := h.sessions.SelectFile(sessionID, &domain.UploadRequest{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionStateResponse(sessionID, state))
}

// Submit godoc
// @Summary Submit the selected file
// @Description Starts extraction followed by question generation; poll the session for progress
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 202 {object} dto.SessionStateResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	sessionID := sessionIDFrom(c)

	state, err := h.sessions.Submit(sessionID)
	if err != nil {
		if domain.HasCode(err, domain.ErrMissingInput) {
			logger.Get().Debug("Submit without a selected file", zap.String("session_id", sessionID))
		}
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.NewSessionStateResponse(sessionID, state))
}

// EndSession godoc
// @Summary End a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) EndSession(c *fiber.Ctx) error {
	if err := h.sessions.End(sessionIDFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func sessionIDFrom(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalSessionID).(string); ok {
		return id
	}
	return c.Params("id")
}
