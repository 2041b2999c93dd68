package service

import (
	"context"
	"encoding/json"

	"pdf-extractor/internal/dto"
	"pdf-extractor/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// StateDelivery pushes raw state messages to the sockets of a session.
// Implemented by the websocket Hub.
type StateDelivery interface {
	Send(sessionID string, data []byte)
}

type IRelayService interface {
	Consume(ctx context.Context) error
}

type relayService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   StateDelivery
	logger     logger.ILogger
}

func NewRelayService(subscriber message.Subscriber, topicName string, delivery StateDelivery, log logger.ILogger) IRelayService {
	return &relayService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		logger:     log,
	}
}

// Consume subscribes to the state topic and relays messages until ctx ends.
func (rs *relayService) Consume(ctx context.Context) error {
	messages, err := rs.subscriber.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(msg)
		}
	}()

	return nil
}

func (rs *relayService) processMessage(msg *message.Message) {
	var payload dto.StateChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		rs.logger.Error("RelayService", "Failed to unmarshal state message", map[string]interface{}{"error": err})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}
	if payload.State.SessionId == "" {
		msg.Ack()
		return
	}

	rs.delivery.Send(payload.State.SessionId, msg.Payload)
	msg.Ack()
}
