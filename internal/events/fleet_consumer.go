package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rebil-rentals/service-booking/internal/pkg/kafka"
)

// VehicleSweeper cancels every occupying booking of a vehicle that was
// pulled from the fleet.
type VehicleSweeper interface {
	EmergencyCancelVehicle(ctx context.Context, carID uuid.UUID, detail string) error
}

// FleetConsumer reacts to fleet events. When a vehicle is deactivated,
// every occupying booking for it is emergency-cancelled.
type FleetConsumer struct {
	consumer *kafka.Consumer
	bookings VehicleSweeper
	logger   *zap.Logger
}

// NewFleetConsumer creates a FleetConsumer on the fleet events topic.
func NewFleetConsumer(brokers []string, groupID string, bookings VehicleSweeper, logger *zap.Logger) *FleetConsumer {
	return &FleetConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicFleetEvents, logger),
		bookings: bookings,
		logger:   logger,
	}
}

// Run consumes fleet events until the context is cancelled. Malformed
// messages are logged and skipped rather than blocking the partition.
func (fc *FleetConsumer) Run(ctx context.Context) error {
	return fc.consumer.Consume(ctx, fc.handleMessage)
}

func (fc *FleetConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		fc.logger.Warn("skipping malformed fleet event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	if ce.Type != FleetVehicleDeactivated {
		return nil
	}

	var evt VehicleDeactivatedEvent
	if err := ce.ParseData(&evt); err != nil {
		fc.logger.Warn("skipping fleet event with malformed payload",
			zap.String("event_id", ce.ID),
			zap.Error(err),
		)
		return nil
	}

	fc.logger.Info("vehicle deactivated, sweeping occupying bookings",
		zap.String("car_id", evt.CarID.String()),
		zap.String("reason", evt.Reason),
	)
	return fc.bookings.EmergencyCancelVehicle(ctx, evt.CarID, evt.Reason)
}

// Close closes the underlying consumer.
func (fc *FleetConsumer) Close() error {
	return fc.consumer.Close()
}
