package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseRequestedDate(s)
	require.NoError(t, err)
	return d
}

func TestNewBooking_StartsPending(t *testing.T) {
	bk, err := NewBooking(uuid.New(), uuid.New(), mustDate(t, "2025-02-01"))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, int64(1), bk.Version())
	assert.Equal(t, "2025-02-01", FormatDate(bk.RequestedDate()))
}

func TestNewBooking_Validation(t *testing.T) {
	_, err := NewBooking(uuid.Nil, uuid.New(), mustDate(t, "2025-02-01"))
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = NewBooking(uuid.New(), uuid.New(), time.Time{})
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestBooking_ApproveThenDeclineFails(t *testing.T) {
	bk, err := NewBooking(uuid.New(), uuid.New(), mustDate(t, "2025-03-01"))
	require.NoError(t, err)

	require.NoError(t, bk.Approve())
	assert.Equal(t, StatusApproved, bk.Status())

	err = bk.Decline()
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.KindInvalidTransition, de.Kind)
	assert.Equal(t, domain.CodeNotPending, de.Code)
	assert.Equal(t, "approved", de.Details["current_status"])
	assert.Equal(t, StatusApproved, bk.Status())
}

func TestBooking_DeclineIsTerminal(t *testing.T) {
	bk, err := NewBooking(uuid.New(), uuid.New(), mustDate(t, "2025-03-01"))
	require.NoError(t, err)

	require.NoError(t, bk.Decline())
	assert.True(t, bk.Status().IsTerminal())
	assert.Error(t, bk.Approve())
}

func TestParseRequestedDate(t *testing.T) {
	valid := []string{"2025-02-01", "2024-02-29", "2025-12-31"}
	for _, s := range valid {
		_, err := ParseRequestedDate(s)
		assert.NoError(t, err, s)
	}

	invalid := []string{"2025-13-40", "2025-02-30", "2025-2-1", "01/02/2025", "", "2025-02-01T00:00:00Z", "2023-02-29"}
	for _, s := range invalid {
		_, err := ParseRequestedDate(s)
		var de *domain.Error
		require.True(t, errors.As(err, &de), s)
		assert.Equal(t, domain.CodeBadDateFormat, de.Code, s)
	}
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusDeclined))
	assert.False(t, StatusApproved.CanTransitionTo(StatusPending))
	assert.False(t, StatusDeclined.CanTransitionTo(StatusApproved))
	assert.False(t, StatusPending.IsTerminal())

	_, err := ParseBookingStatus("cancelled")
	assert.Error(t, err)
}
