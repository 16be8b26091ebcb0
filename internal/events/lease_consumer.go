package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/events"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/kafka"
)

// LeaseTerminator ends leases. *application.BookingService satisfies it.
type LeaseTerminator interface {
	TerminateLease(ctx context.Context, caller application.Caller, leaseID uuid.UUID) (*application.LeaseDTO, error)
}

// LeaseEndedConsumer listens to contract events and terminates leases whose agreement has ended.
type LeaseEndedConsumer struct {
	consumer *kafka.Consumer
	leases   LeaseTerminator
	logger   *zap.Logger
}

// NewLeaseEndedConsumer creates a new LeaseEndedConsumer.
func NewLeaseEndedConsumer(
	brokers []string,
	groupID string,
	leases LeaseTerminator,
	logger *zap.Logger,
) *LeaseEndedConsumer {
	return &LeaseEndedConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, events.TopicContractEvents, logger),
		leases:   leases,
		logger:   logger,
	}
}

// Start begins consuming contract events. This blocks until the context is cancelled.
func (c *LeaseEndedConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *LeaseEndedConsumer) Close() error {
	return c.consumer.Close()
}

func (c *LeaseEndedConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from contract topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // malformed messages are not retried
	}

	switch cloudEvent.Type {
	case events.ContractLeaseEnded:
		return c.handleLeaseEnded(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled contract event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *LeaseEndedConsumer) handleLeaseEnded(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.LeaseEndedEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.LeaseID == uuid.Nil {
		c.logger.Error("failed to parse LeaseEndedEvent data",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("processing lease ended event",
		zap.String("lease_id", evt.LeaseID.String()),
		zap.String("reason", evt.Reason),
	)

	if _, err := c.leases.TerminateLease(ctx, application.SystemCaller(), evt.LeaseID); err != nil {
		// Redelivery of an already handled event, or a lease this service never had.
		switch domain.KindOf(err) {
		case domain.KindInvalidTransition, domain.KindNotFound:
			c.logger.Warn("lease ended event had nothing to terminate",
				zap.String("lease_id", evt.LeaseID.String()),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to terminate lease after contract end",
			zap.String("lease_id", evt.LeaseID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("lease terminated after contract end",
		zap.String("lease_id", evt.LeaseID.String()),
	)
	return nil
}
