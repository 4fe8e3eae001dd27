package service

import (
	"context"
	"time"

	"trivia-gen/internal/domain"
	"trivia-gen/internal/util"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Session is one user's upload-and-generate workspace.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Controller *PipelineController
}

// SessionService keeps independent sessions, each with its own controller.
type SessionService interface {
	Create() *Session
	Get(sessionID string) (*Session, error)
	SelectFile(sessionID string, file *domain.UploadRequest) (domain.PipelineState, error)
	Submit(sessionID string) (domain.PipelineState, error)
	End(sessionID string) error
}

// ControllerFactory builds the controller for a new session.
type ControllerFactory func() *PipelineController

type sessionServiceImpl struct {
	ctx           context.Context
	newController ControllerFactory
	sessions      *gocache.Cache
	logger        *zap.Logger
}

// NewSessionService creates a registry whose sessions expire after ttl of
// inactivity. Background submissions run under ctx, so cancelling it aborts
// their backend calls.
func NewSessionService(ctx context.Context, newController ControllerFactory, ttl time.Duration, logger *zap.Logger) SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionServiceImpl{
		ctx:           ctx,
		newController: newController,
		sessions:      gocache.New(ttl, ttl/2),
		logger:        logger,
	}
}

func (s *sessionServiceImpl) Create() *Session {
	sess := &Session{
		ID:         util.NewULID(),
		CreatedAt:  time.Now(),
		Controller: s.newController(),
	}
	s.sessions.SetDefault(sess.ID, sess)
	s.logger.Info("Session created", zap.String("session_id", sess.ID))
	return sess
}

// Get returns the session and refreshes its expiry.
func (s *sessionServiceImpl) Get(sessionID string) (*Session, error) {
	val, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	sess := val.(*Session)
	s.sessions.SetDefault(sessionID, sess)
	return sess, nil
}

func (s *sessionServiceImpl) SelectFile(sessionID string, file *domain.UploadRequest) (domain.PipelineState, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return domain.PipelineState{}, err
	}
	sess.Controller.SelectFile(file)
	s.logger.Debug("File selected",
		zap.String("session_id", sessionID),
		zap.String("file_name", file.FileName),
		zap.Int64("size", file.Size()),
	)
	return sess.Controller.Snapshot(), nil
}

// Submit starts the pipeline for the selected file and returns the busy
// state immediately; progress is observed through Get.
func (s *sessionServiceImpl) Submit(sessionID string) (domain.PipelineState, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return domain.PipelineState{}, err
	}

	done, err := sess.Controller.Start(s.ctx, sess.Controller.Snapshot().SelectedFile)
	if err != nil {
		return domain.PipelineState{}, err
	}

	go func() {
		outcome := <-done
		if outcome.Succeeded() {
			s.logger.Info("Submission completed", zap.String("session_id", sessionID))
		} else {
			s.logger.Warn("Submission failed",
				zap.String("session_id", sessionID),
				zap.String("stage", string(outcome.Failure.Stage)),
				zap.Error(outcome.Failure.Cause),
			)
		}
	}()

	return sess.Controller.Snapshot(), nil
}

func (s *sessionServiceImpl) End(sessionID string) error {
	if _, ok := s.sessions.Get(sessionID); !ok {
		return domain.NewSessionNotFoundError(sessionID)
	}
	s.sessions.Delete(sessionID)
	s.logger.Info("Session ended", zap.String("session_id", sessionID))
	return nil
}
