package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/pkg/logger"
	"studio-booking-be/internal/repository/specification"
	"studio-booking-be/internal/repository/unitofwork"
)

type IProgressionService interface {
	Consume(ctx context.Context) error
}

// progressionService drains the XP award topic and applies points to
// customer accounts. Awards are best effort: a failed award is logged
// and retried, a malformed or orphaned message is dropped.
type progressionService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewProgressionService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IProgressionService {
	return &progressionService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *progressionService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *progressionService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishXPAwardMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("ProgressionService", "Failed to unmarshal XP award message", map[string]interface{}{
			"error": err.Error(),
		})
		// Malformed messages never become valid, ack to drop.
		msg.Ack()
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserID})
	if err != nil {
		s.logger.Error("ProgressionService", "Failed to load user for XP award", map[string]interface{}{
			"user_id": payload.UserID.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if user == nil {
		s.logger.Warn("ProgressionService", "XP award for unknown user, dropping", map[string]interface{}{
			"user_id":    payload.UserID.String(),
			"booking_id": payload.BookingID.String(),
		})
		msg.Ack()
		return
	}

	if err := uow.UserRepository().AddXP(ctx, payload.UserID, payload.Points); err != nil {
		s.logger.Error("ProgressionService", "Failed to apply XP award", map[string]interface{}{
			"user_id": payload.UserID.String(),
			"points":  payload.Points,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	s.logger.Info("ProgressionService", "XP awarded", map[string]interface{}{
		"user_id":    payload.UserID.String(),
		"booking_id": payload.BookingID.String(),
		"points":     payload.Points,
	})
	msg.Ack()
}
