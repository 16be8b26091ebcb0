package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/events"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/kafka"
)

type mockTerminator struct {
	mock.Mock
}

func (m *mockTerminator) TerminateLease(ctx context.Context, caller application.Caller, leaseID uuid.UUID) (*application.LeaseDTO, error) {
	args := m.Called(ctx, caller, leaseID)
	if dto, ok := args.Get(0).(*application.LeaseDTO); ok {
		return dto, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestConsumer(leases LeaseTerminator) *LeaseEndedConsumer {
	return &LeaseEndedConsumer{leases: leases, logger: zap.NewNop()}
}

func leaseEndedMessage(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("contract-service", eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: events.TopicContractEvents, Value: raw}
}

func isSystemCaller(c application.Caller) bool {
	return c.Role == auth.RoleSystem
}

func TestLeaseEndedConsumer_TerminatesLease(t *testing.T) {
	leaseID := uuid.New()
	term := &mockTerminator{}
	term.On("TerminateLease", mock.Anything, mock.MatchedBy(isSystemCaller), leaseID).
		Return(&application.LeaseDTO{ID: leaseID, Status: "terminated"}, nil)

	msg := leaseEndedMessage(t, events.ContractLeaseEnded, events.LeaseEndedEvent{LeaseID: leaseID, Reason: "expired"})
	err := newTestConsumer(term).handleMessage(context.Background(), msg)

	require.NoError(t, err)
	term.AssertExpectations(t)
}

func TestLeaseEndedConsumer_AlreadyTerminatedIsAcknowledged(t *testing.T) {
	leaseID := uuid.New()
	term := &mockTerminator{}
	term.On("TerminateLease", mock.Anything, mock.Anything, leaseID).
		Return(nil, domain.NewInvalidTransitionError(domain.CodeLeaseNotActive, "lease is not active", "terminated"))

	msg := leaseEndedMessage(t, events.ContractLeaseEnded, events.LeaseEndedEvent{LeaseID: leaseID})
	assert.NoError(t, newTestConsumer(term).handleMessage(context.Background(), msg))
}

func TestLeaseEndedConsumer_UnknownLeaseIsAcknowledged(t *testing.T) {
	leaseID := uuid.New()
	term := &mockTerminator{}
	term.On("TerminateLease", mock.Anything, mock.Anything, leaseID).
		Return(nil, domain.NewNotFoundError("lease", leaseID.String()))

	msg := leaseEndedMessage(t, events.ContractLeaseEnded, events.LeaseEndedEvent{LeaseID: leaseID})
	assert.NoError(t, newTestConsumer(term).handleMessage(context.Background(), msg))
}

func TestLeaseEndedConsumer_StorageFailureIsRetried(t *testing.T) {
	leaseID := uuid.New()
	term := &mockTerminator{}
	term.On("TerminateLease", mock.Anything, mock.Anything, leaseID).
		Return(nil, domain.NewStorageError(errors.New("connection reset")))

	msg := leaseEndedMessage(t, events.ContractLeaseEnded, events.LeaseEndedEvent{LeaseID: leaseID})
	assert.Error(t, newTestConsumer(term).handleMessage(context.Background(), msg))
}

func TestLeaseEndedConsumer_SkipsMalformedAndForeignEvents(t *testing.T) {
	term := &mockTerminator{}
	c := newTestConsumer(term)
	ctx := context.Background()

	assert.NoError(t, c.handleMessage(ctx, kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, c.handleMessage(ctx, leaseEndedMessage(t, "contract.signed", map[string]string{"id": "x"})))
	assert.NoError(t, c.handleMessage(ctx, leaseEndedMessage(t, events.ContractLeaseEnded, map[string]string{"reason": "no id"})))

	term.AssertNotCalled(t, "TerminateLease", mock.Anything, mock.Anything, mock.Anything)
}
