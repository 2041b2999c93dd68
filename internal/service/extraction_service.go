package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pdf-extractor/internal/config"
	"pdf-extractor/internal/dto"
	"pdf-extractor/internal/mapper"
	"pdf-extractor/internal/pkg/logger"
	"pdf-extractor/internal/pkg/serverutils"
	"pdf-extractor/pkg/events"
	"pdf-extractor/pkg/export"
	"pdf-extractor/pkg/extraction"
	"pdf-extractor/pkg/state"
	"pdf-extractor/pkg/store"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBusy            = errors.New("an extraction is already in progress")
	ErrNoResult        = errors.New("no extraction result to export")
)

// StateChangedType tags messages on the state topic.
const StateChangedType = "state_changed"

// SessionStore is the subset of the session repository the service needs.
type SessionStore interface {
	Save(session *store.Session)
	Get(sessionID string) (*store.Session, bool)
}

// EventPublisher emits outcome events; a nil publisher disables them.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IExtractionService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetState(ctx context.Context, sessionID string) (*dto.UIStateResponse, error)
	SelectFile(ctx context.Context, sessionID string, doc extraction.Document) (*dto.UIStateResponse, error)
	Submit(ctx context.Context, sessionID string) (*dto.UIStateResponse, error)
	ExportResult(ctx context.Context, sessionID string) (filename string, data []byte, err error)
}

type extractionService struct {
	sessions       SessionStore
	extractor      extraction.Extractor
	statePublisher IPublisherService
	eventPublisher EventPublisher
	sessionCfg     config.SessionConfig
	manager        *state.Manager
	mapper         *mapper.ExtractionMapper
	logger         logger.ILogger
}

func NewExtractionService(
	sessions SessionStore,
	extractor extraction.Extractor,
	statePublisher IPublisherService,
	eventPublisher EventPublisher,
	sessionCfg config.SessionConfig,
	log logger.ILogger,
) IExtractionService {
	return &extractionService{
		sessions:       sessions,
		extractor:      extractor,
		statePublisher: statePublisher,
		eventPublisher: eventPublisher,
		sessionCfg:     sessionCfg,
		manager:        state.NewManager(log),
		mapper:         mapper.NewExtractionMapper(),
		logger:         log,
	}
}

func (s *extractionService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := store.NewSession(uuid.NewString())
	s.sessions.Save(session)

	token, err := serverutils.IssueSessionToken(s.sessionCfg.Secret, session.ID, s.sessionCfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.logger.Info("ExtractionService", "Session created", map[string]interface{}{"session_id": session.ID})
	return &dto.CreateSessionResponse{
		Id:        session.ID,
		Token:     token,
		ExpiresAt: session.CreatedAt.Add(s.sessionCfg.TTL),
	}, nil
}

func (s *extractionService) GetState(ctx context.Context, sessionID string) (*dto.UIStateResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.present(session.Snapshot())
}

func (s *extractionService) SelectFile(ctx context.Context, sessionID string, doc extraction.Document) (*dto.UIStateResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	if s.manager.IsLoading(session) {
		session.Unlock()
		return nil, ErrBusy
	}
	accepted := s.manager.SelectFile(session, doc)
	snap := session.SnapshotLocked()
	session.Unlock()

	s.sessions.Save(session)
	s.logger.Info("ExtractionService", "File selected", map[string]interface{}{
		"session_id": sessionID,
		"filename":   doc.Filename,
		"mime_type":  doc.MIMEType,
		"size":       doc.Size(),
		"accepted":   accepted,
	})
	return s.publishAndPresent(ctx, snap)
}

// Submit sends the selected file and waits for the outcome. At most one
// request per session is in flight; the call is not cancelled with ctx.
func (s *extractionService) Submit(ctx context.Context, sessionID string) (*dto.UIStateResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	if s.manager.IsLoading(session) {
		session.Unlock()
		return nil, ErrBusy
	}
	doc, ok := s.manager.BeginSubmit(session)
	snap := session.SnapshotLocked()
	session.Unlock()

	if !ok {
		return s.publishAndPresent(ctx, snap)
	}
	if _, err := s.publishAndPresent(ctx, snap); err != nil {
		s.logger.Warn("ExtractionService", "Failed to present loading state", map[string]interface{}{"error": err})
	}

	started := time.Now()
	final, outcomeType, message := s.complete(context.WithoutCancel(ctx), session, doc)
	s.sessions.Save(session)

	s.logger.Info("ExtractionService", "Submission finished", map[string]interface{}{
		"session_id": sessionID,
		"filename":   doc.Filename,
		"status":     final.State.Status(),
		"elapsed_ms": time.Since(started).Milliseconds(),
	})
	s.publishOutcome(ctx, final, doc, outcomeType, message)
	return s.publishAndPresent(ctx, final)
}

// complete runs the extractor and always leaves the session out of Loading.
func (s *extractionService) complete(ctx context.Context, session *store.Session, doc extraction.Document) (snap store.Snapshot, eventType string, message string) {
	eventType = events.TypeExtractionFailed
	var result *extraction.Result

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("ExtractionService", "Extractor panicked", map[string]interface{}{
				"session_id": session.ID,
				"panic":      fmt.Sprint(r),
			})
			eventType, message, result = events.TypeExtractionFailed, "", nil
		}

		session.Lock()
		if result != nil {
			s.manager.Succeed(session, *result)
		} else {
			s.manager.Fail(session, message)
		}
		snap = session.SnapshotLocked()
		session.Unlock()
	}()

	outcome, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		s.logFailure(session.ID, err)
		return snap, eventType, err.Error()
	}

	switch o := outcome.(type) {
	case extraction.Extracted:
		normalized := extraction.Normalize(o.Result)
		result = &normalized
		eventType = events.TypeExtractionSucceeded
	case extraction.Rejected:
		message = o.Message
		s.logger.Warn("ExtractionService", "Extraction rejected by service", map[string]interface{}{
			"session_id": session.ID,
			"message":    o.Message,
		})
	default:
		s.logger.Error("ExtractionService", "Unknown extraction outcome", map[string]interface{}{
			"session_id": session.ID,
			"type":       fmt.Sprintf("%T", outcome),
		})
	}
	return snap, eventType, message
}

func (s *extractionService) logFailure(sessionID string, err error) {
	kind := "unknown"
	var te *extraction.TransportError
	var ce *extraction.ContractError
	switch {
	case errors.As(err, &te):
		kind = "transport"
	case errors.As(err, &ce):
		kind = "contract"
	}
	s.logger.Error("ExtractionService", "Extraction request failed", map[string]interface{}{
		"session_id": sessionID,
		"kind":       kind,
		"error":      err,
	})
}

func (s *extractionService) ExportResult(ctx context.Context, sessionID string) (string, []byte, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return "", nil, err
	}

	snap := session.Snapshot()
	success, ok := snap.State.(store.Success)
	if !ok {
		return "", nil, ErrNoResult
	}
	views, err := s.mapper.ToFieldViews(success.Result)
	if err != nil {
		return "", nil, err
	}

	wb := export.Workbook{ExtractedAt: time.Now()}
	if snap.File != nil {
		wb.SourceFile = snap.File.Filename
	}
	for _, v := range views {
		wb.Rows = append(wb.Rows, export.Row{
			Label:   v.Label,
			Value:   v.Value,
			Percent: v.Confidence.Percent,
			Tier:    v.Confidence.Tier,
			Color:   v.Confidence.Color,
		})
	}

	data, err := export.ResultXLSX(wb)
	if err != nil {
		return "", nil, fmt.Errorf("export result: %w", err)
	}
	return exportFilename(wb.SourceFile), data, nil
}

func exportFilename(source string) string {
	if source == "" {
		return "extraction.xlsx"
	}
	if n := len(source); n > 4 && (source[n-4:] == ".pdf" || source[n-4:] == ".PDF") {
		source = source[:n-4]
	}
	return source + "-extraction.xlsx"
}

func (s *extractionService) session(sessionID string) (*store.Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return session, nil
}

func (s *extractionService) present(snap store.Snapshot) (*dto.UIStateResponse, error) {
	view, err := s.mapper.ToUIStateResponse(snap)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// publishAndPresent renders snap and pushes it on the state topic.
func (s *extractionService) publishAndPresent(ctx context.Context, snap store.Snapshot) (*dto.UIStateResponse, error) {
	view, err := s.present(snap)
	if err != nil {
		return nil, err
	}
	if s.statePublisher == nil {
		return view, nil
	}

	payload, err := json.Marshal(dto.StateChangedMessage{Type: StateChangedType, State: *view})
	if err != nil {
		return nil, err
	}
	if err := s.statePublisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("ExtractionService", "Failed to publish state change", map[string]interface{}{
			"session_id": snap.ID,
			"error":      err.Error(),
		})
	}
	return view, nil
}

func (s *extractionService) publishOutcome(ctx context.Context, snap store.Snapshot, doc extraction.Document, eventType, message string) {
	if s.eventPublisher == nil {
		return
	}

	data := map[string]interface{}{
		"session_id": snap.ID,
		"filename":   doc.Filename,
		"size":       doc.Size(),
		"outcome":    snap.State.Status(),
	}
	switch st := snap.State.(type) {
	case store.Success:
		found := map[string]bool{}
		scores := map[string]float64{}
		for _, f := range extraction.Fields {
			found[string(f)] = st.Result.Value(f) != nil
			scores[string(f)] = st.Result.Confidence[f]
		}
		data["found"] = found
		data["confidence"] = scores
	case store.Failed:
		data["message"] = st.Message
	}

	if err := s.eventPublisher.Publish(context.WithoutCancel(ctx), events.New(eventType, data)); err != nil {
		s.logger.Warn("ExtractionService", "Failed to publish outcome event", map[string]interface{}{
			"session_id": snap.ID,
			"type":       eventType,
			"error":      err.Error(),
		})
	}
}
