package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pdf-extractor/internal/pkg/logger"
	"pdf-extractor/pkg/events"
	pktNats "pdf-extractor/pkg/nats"
)

// EventSubscriber is implemented by pkg/nats.Subscriber.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

// AuditStats counts outcome events seen since start.
type AuditStats struct {
	Succeeded int
	Failed    int
}

// AuditService logs every extraction outcome published on the event bus.
type AuditService struct {
	subscriber EventSubscriber
	logger     logger.ILogger

	mu    sync.Mutex
	stats AuditStats
}

func NewAuditService(sub EventSubscriber, log logger.ILogger) *AuditService {
	return &AuditService{
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *AuditService) Start() {
	subject := pktNats.SubjectPrefix + ".>"
	if err := s.subscriber.Subscribe(subject, "extraction-audit", s.handleEvent); err != nil {
		s.logger.Error("AuditService", "Failed to start audit subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("AuditService", "Audit service started, listening to "+subject, nil)
}

func (s *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), pktNats.SubjectPrefix+".")
	payload := event.Payload()

	details := map[string]interface{}{
		"type":        typeCode,
		"session_id":  payload["session_id"],
		"filename":    payload["filename"],
		"occurred_at": event.Timestamp(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch typeCode {
	case events.TypeExtractionSucceeded:
		s.stats.Succeeded++
		details["confidence"] = payload["confidence"]
		s.logger.Info("AuditService", "Extraction succeeded", details)
	case events.TypeExtractionFailed:
		s.stats.Failed++
		details["message"] = payload["message"]
		s.logger.Warn("AuditService", "Extraction failed", details)
	default:
		s.logger.Debug("AuditService", fmt.Sprintf("Ignoring event: %s", typeCode), nil)
	}
	return nil
}

// Stats returns a copy of the counters.
func (s *AuditService) Stats() AuditStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
