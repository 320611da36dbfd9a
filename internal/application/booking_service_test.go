package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/rebil-rentals/service-booking/internal/domain/booking"
	"github.com/rebil-rentals/service-booking/internal/events"
	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type serviceFixture struct {
	service   *BookingService
	repo      *fakeBookingRepo
	audit     *fakeAuditRepo
	publisher *fakePublisher
}

func newServiceFixture(t *testing.T, now time.Time) *serviceFixture {
	return newServiceFixtureWithHolds(t, now, false)
}

func newServiceFixtureWithHolds(t *testing.T, now time.Time, pendingHolds bool) *serviceFixture {
	t.Helper()
	repo := newFakeBookingRepo()
	audit := newFakeAuditRepo()
	publisher := &fakePublisher{}

	cfg := bookingDomain.PolicyConfig{
		DeadlineOffset: 24 * time.Hour,
		PendingHolds:   pendingHolds,
		RefundTiers: []bookingDomain.RefundTier{
			{MinDaysBefore: 7, RefundPercent: 100},
			{MinDaysBefore: 3, RefundPercent: 50},
			{MinDaysBefore: 0, RefundPercent: 0},
		},
		EmergencyFeePercent: map[bookingDomain.EmergencyReason]int64{
			bookingDomain.ReasonVehicleBreakdown: 20,
			bookingDomain.ReasonAccident:         20,
			bookingDomain.ReasonSafetyConcern:    0,
			bookingDomain.ReasonOther:            30,
		},
	}
	quote := bookingDomain.NewStandardQuoteStrategy(bookingDomain.QuoteConfig{
		ServiceFeePercent: 10,
	})

	service := NewBookingService(
		repo, audit, cfg, quote,
		bookingDomain.FixedClock{Instant: now},
		publisher, zap.NewNop(),
	)
	return &serviceFixture{service: service, repo: repo, audit: audit, publisher: publisher}
}

func createRequest(hostID, carID uuid.UUID, start time.Time) CreateBookingRequest {
	return CreateBookingRequest{
		HostID:    hostID,
		CarID:     carID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 4),
		DailyRate: 250_000,
	}
}

func TestCreateBooking(t *testing.T) {
	hostID, renterID, carID := uuid.New(), uuid.New(), uuid.New()
	start := testNow.AddDate(0, 0, 10)

	t.Run("pending by default", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		dto, err := fx.service.CreateBooking(context.Background(), renterID, createRequest(hostID, carID, start))
		require.NoError(t, err)
		assert.Equal(t, "PENDING", dto.Status)
		assert.Equal(t, int64(1_000_000), dto.Price.Subtotal)
		assert.Equal(t, int64(100_000), dto.Price.ServiceFee)
		assert.Equal(t, []string{events.BookingRequested}, fx.publisher.eventTypes())
	})

	t.Run("auto approve honored", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		req := createRequest(hostID, carID, start)
		req.AutoApprove = true
		dto, err := fx.service.CreateBooking(context.Background(), renterID, req)
		require.NoError(t, err)
		assert.Equal(t, "AUTO_APPROVED", dto.Status)
	})

	t.Run("overlapping window rejected", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		req := createRequest(hostID, carID, start)
		req.AutoApprove = true
		_, err := fx.service.CreateBooking(context.Background(), renterID, req)
		require.NoError(t, err)

		second := createRequest(hostID, carID, start.AddDate(0, 0, 3))
		_, err = fx.service.CreateBooking(context.Background(), uuid.New(), second)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeConflict, domainErr.Code)
	})

	t.Run("pending booking does not block by default", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		_, err := fx.service.CreateBooking(context.Background(), renterID, createRequest(hostID, carID, start))
		require.NoError(t, err)

		// Same window, different renter: the pending request holds nothing.
		_, err = fx.service.CreateBooking(context.Background(), uuid.New(), createRequest(hostID, carID, start))
		assert.NoError(t, err)
	})

	t.Run("back to back windows allowed", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		req := createRequest(hostID, carID, start)
		req.AutoApprove = true
		_, err := fx.service.CreateBooking(context.Background(), renterID, req)
		require.NoError(t, err)

		next := createRequest(hostID, carID, start.AddDate(0, 0, 4))
		next.AutoApprove = true
		_, err = fx.service.CreateBooking(context.Background(), uuid.New(), next)
		assert.NoError(t, err)
	})

	t.Run("invalid dates rejected", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		req := createRequest(hostID, carID, start)
		req.EndDate = req.StartDate
		_, err := fx.service.CreateBooking(context.Background(), renterID, req)
		assert.Error(t, err)
	})
}

func TestAttemptTransition(t *testing.T) {
	hostID, renterID, carID := uuid.New(), uuid.New(), uuid.New()
	start := testNow.AddDate(0, 0, 10)

	seed := func(t *testing.T, fx *serviceFixture) uuid.UUID {
		t.Helper()
		dto, err := fx.service.CreateBooking(context.Background(), renterID, createRequest(hostID, carID, start))
		require.NoError(t, err)
		return dto.ID
	}

	t.Run("host confirms pending request", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx)

		dto, err := fx.service.AttemptTransition(context.Background(), id, hostID,
			TransitionRequest{TargetStatus: bookingDomain.StatusConfirmed})
		require.NoError(t, err)
		assert.Equal(t, "CONFIRMED", dto.Status)
		assert.Equal(t, int64(2), dto.Version)
		require.NotNil(t, dto.ApprovedBy)
		assert.Equal(t, hostID, *dto.ApprovedBy)
	})

	t.Run("renter cannot confirm", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx)

		_, err := fx.service.AttemptTransition(context.Background(), id, renterID,
			TransitionRequest{TargetStatus: bookingDomain.StatusConfirmed})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeForbidden, domainErr.Code)
	})

	t.Run("outsider is forbidden before state is considered", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx)

		_, err := fx.service.AttemptTransition(context.Background(), id, uuid.New(),
			TransitionRequest{TargetStatus: bookingDomain.StatusConfirmed})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeForbidden, domainErr.Code)
	})

	t.Run("cannot start rental before confirmation", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx)

		_, err := fx.service.AttemptTransition(context.Background(), id, hostID,
			TransitionRequest{TargetStatus: bookingDomain.StatusInProgress})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeInvalidState, domainErr.Code)
	})

	t.Run("full lifecycle emits an event per transition", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx)

		for _, target := range []bookingDomain.Status{
			bookingDomain.StatusConfirmed,
			bookingDomain.StatusInProgress,
			bookingDomain.StatusCompleted,
		} {
			_, err := fx.service.AttemptTransition(context.Background(), id, hostID,
				TransitionRequest{TargetStatus: target})
			require.NoError(t, err)
		}

		assert.Equal(t, []string{
			events.BookingRequested,
			events.BookingConfirmed,
			events.BookingStarted,
			events.BookingCompleted,
		}, fx.publisher.eventTypes())

		trail, err := fx.service.GetAuditTrail(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, trail, 3)
		assert.Equal(t, "PENDING", trail[0].FromStatus)
		assert.Equal(t, "CONFIRMED", trail[0].ToStatus)
		assert.Equal(t, "IN_PROGRESS", trail[2].FromStatus)
		assert.Equal(t, "COMPLETED", trail[2].ToStatus)
	})

	t.Run("host reject targets rejected with full refund", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx)

		dto, err := fx.service.AttemptTransition(context.Background(), id, hostID,
			TransitionRequest{TargetStatus: bookingDomain.StatusRejected, Reason: "car unavailable"})
		require.NoError(t, err)
		assert.Equal(t, "REJECTED", dto.Status)
		require.NotNil(t, dto.Cancellation)
		assert.Equal(t, int64(0), dto.Cancellation.FeeAmount)
		assert.Equal(t, dto.Price.TotalAmount, dto.Cancellation.RefundAmount)
	})

	t.Run("either party can dispute", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx)

		dto, err := fx.service.AttemptTransition(context.Background(), id, renterID,
			TransitionRequest{TargetStatus: bookingDomain.StatusDisputed, Reason: "damage disagreement"})
		require.NoError(t, err)
		assert.Equal(t, "DISPUTED", dto.Status)
	})

	t.Run("optimistic lock conflict surfaces", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx)
		fx.repo.updateConflict = true

		_, err := fx.service.AttemptTransition(context.Background(), id, hostID,
			TransitionRequest{TargetStatus: bookingDomain.StatusConfirmed})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeConflict, domainErr.Code)
	})
}

func TestCheckCancellation(t *testing.T) {
	hostID, renterID, carID := uuid.New(), uuid.New(), uuid.New()
	start := testNow.AddDate(0, 0, 10)

	fx := newServiceFixture(t, testNow)
	dto, err := fx.service.CreateBooking(context.Background(), renterID, createRequest(hostID, carID, start))
	require.NoError(t, err)

	t.Run("renter sees deadline and refund", func(t *testing.T) {
		info, err := fx.service.CheckCancellation(context.Background(), dto.ID, renterID)
		require.NoError(t, err)
		assert.True(t, info.CanCancel)
		assert.Equal(t, 9, info.DaysUntilDeadline)
		assert.Equal(t, dto.Price.TotalAmount, info.PotentialRefund)
	})

	t.Run("host cannot use the renter track", func(t *testing.T) {
		_, err := fx.service.CheckCancellation(context.Background(), dto.ID, hostID)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeForbidden, domainErr.Code)
	})
}

func TestCancel(t *testing.T) {
	hostID, renterID, carID := uuid.New(), uuid.New(), uuid.New()
	start := testNow.AddDate(0, 0, 10)

	seed := func(t *testing.T, fx *serviceFixture, confirm bool) uuid.UUID {
		t.Helper()
		dto, err := fx.service.CreateBooking(context.Background(), renterID, createRequest(hostID, carID, start))
		require.NoError(t, err)
		if confirm {
			_, err = fx.service.AttemptTransition(context.Background(), dto.ID, hostID,
				TransitionRequest{TargetStatus: bookingDomain.StatusConfirmed})
			require.NoError(t, err)
		}
		return dto.ID
	}

	t.Run("standard cancellation well before start refunds fully", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx, true)

		outcome, err := fx.service.Cancel(context.Background(), id, renterID,
			bookingDomain.TrackStandard, "change of plans", "")
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", outcome.Booking.Status)
		assert.Equal(t, int64(0), outcome.FeeAmount)
		assert.Equal(t, outcome.Booking.Price.TotalAmount, outcome.RefundAmount)
	})

	t.Run("standard cancellation past the deadline refused", func(t *testing.T) {
		lateNow := start.Add(-2 * time.Hour)
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx, true)

		// Same repo, clock moved to two hours before the rental starts.
		lateService := NewBookingService(
			fx.repo, fx.audit,
			bookingDomain.PolicyConfig{
				DeadlineOffset: 24 * time.Hour,
				RefundTiers:    []bookingDomain.RefundTier{{MinDaysBefore: 0, RefundPercent: 0}},
				EmergencyFeePercent: map[bookingDomain.EmergencyReason]int64{
					bookingDomain.ReasonVehicleBreakdown: 20,
				},
			},
			bookingDomain.NewStandardQuoteStrategy(bookingDomain.QuoteConfig{}),
			bookingDomain.FixedClock{Instant: lateNow},
			fx.publisher, zap.NewNop(),
		)

		_, err := lateService.Cancel(context.Background(), id, renterID,
			bookingDomain.TrackStandard, "too late", "")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeDeadlinePassed, domainErr.Code)
	})

	t.Run("cancelling twice fails the second time", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx, true)

		_, err := fx.service.Cancel(context.Background(), id, renterID,
			bookingDomain.TrackStandard, "first", "")
		require.NoError(t, err)

		_, err = fx.service.Cancel(context.Background(), id, renterID,
			bookingDomain.TrackStandard, "second", "")
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeInvalidState, domainErr.Code)
	})

	t.Run("host emergency cancellation prices by reason", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx, true)

		outcome, err := fx.service.Cancel(context.Background(), id, hostID,
			bookingDomain.TrackEmergency, "engine died", bookingDomain.ReasonVehicleBreakdown)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", outcome.Booking.Status)
		assert.Equal(t, outcome.Booking.Price.TotalAmount/5, outcome.FeeAmount)
		assert.Equal(t, outcome.Booking.Price.TotalAmount-outcome.FeeAmount, outcome.RefundAmount)
		require.NotNil(t, outcome.Booking.Cancellation)
		assert.Equal(t, bookingDomain.ReasonVehicleBreakdown, outcome.Booking.Cancellation.ReasonCode)
	})

	t.Run("renter cannot use the emergency track", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)
		id := seed(t, fx, true)

		_, err := fx.service.Cancel(context.Background(), id, renterID,
			bookingDomain.TrackEmergency, "", bookingDomain.ReasonVehicleBreakdown)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeForbidden, domainErr.Code)
	})
}

func TestCheckConflicts(t *testing.T) {
	hostID, renterID, carID := uuid.New(), uuid.New(), uuid.New()
	start := testNow.AddDate(0, 0, 10)

	fx := newServiceFixture(t, testNow)
	req := createRequest(hostID, carID, start)
	req.AutoApprove = true
	created, err := fx.service.CreateBooking(context.Background(), renterID, req)
	require.NoError(t, err)

	t.Run("overlapping window reported", func(t *testing.T) {
		conflicts, err := fx.service.CheckConflicts(context.Background(),
			carID, start.AddDate(0, 0, 3), start.AddDate(0, 0, 7), nil)
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, created.ID, conflicts[0].BookingID)
	})

	t.Run("back to back window clear", func(t *testing.T) {
		conflicts, err := fx.service.CheckConflicts(context.Background(),
			carID, start.AddDate(0, 0, 4), start.AddDate(0, 0, 8), nil)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("own booking excluded when rechecking", func(t *testing.T) {
		conflicts, err := fx.service.CheckConflicts(context.Background(),
			carID, start, start.AddDate(0, 0, 4), &created.ID)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})
}

func TestEmergencyCancelVehicle(t *testing.T) {
	hostID, carID := uuid.New(), uuid.New()
	start := testNow.AddDate(0, 0, 10)

	t.Run("sweeps every occupying booking", func(t *testing.T) {
		fx := newServiceFixture(t, testNow)

		// Two occupying bookings on the same vehicle.
		first := createRequest(hostID, carID, start)
		first.AutoApprove = true
		b1, err := fx.service.CreateBooking(context.Background(), uuid.New(), first)
		require.NoError(t, err)

		second := createRequest(hostID, carID, start.AddDate(0, 0, 4))
		second.AutoApprove = true
		b2, err := fx.service.CreateBooking(context.Background(), uuid.New(), second)
		require.NoError(t, err)

		require.NoError(t, fx.service.EmergencyCancelVehicle(context.Background(), carID, "vehicle recalled"))

		for _, id := range []uuid.UUID{b1.ID, b2.ID} {
			dto, err := fx.service.GetBooking(context.Background(), id, hostID)
			require.NoError(t, err)
			assert.Equal(t, "CANCELLED", dto.Status)
			require.NotNil(t, dto.Cancellation)
			assert.Equal(t, bookingDomain.TrackEmergency, dto.Cancellation.Track)
		}
	})

	t.Run("pending requests under soft holds are declined", func(t *testing.T) {
		fx := newServiceFixtureWithHolds(t, testNow, true)

		pending, err := fx.service.CreateBooking(context.Background(), uuid.New(),
			createRequest(hostID, carID, start))
		require.NoError(t, err)
		require.Equal(t, "PENDING", pending.Status)

		approved := createRequest(hostID, carID, start.AddDate(0, 0, 4))
		approved.AutoApprove = true
		confirmed, err := fx.service.CreateBooking(context.Background(), uuid.New(), approved)
		require.NoError(t, err)

		require.NoError(t, fx.service.EmergencyCancelVehicle(context.Background(), carID, "vehicle recalled"))

		dto, err := fx.service.GetBooking(context.Background(), pending.ID, hostID)
		require.NoError(t, err)
		assert.Equal(t, "REJECTED", dto.Status)
		require.NotNil(t, dto.Cancellation)
		assert.Equal(t, bookingDomain.TrackReject, dto.Cancellation.Track)
		assert.Equal(t, dto.Price.TotalAmount, dto.Cancellation.RefundAmount)

		dto, err = fx.service.GetBooking(context.Background(), confirmed.ID, hostID)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", dto.Status)
		require.NotNil(t, dto.Cancellation)
		assert.Equal(t, bookingDomain.TrackEmergency, dto.Cancellation.Track)
	})
}

func TestCreateManualBooking(t *testing.T) {
	hostID, carID := uuid.New(), uuid.New()
	start := testNow.AddDate(0, 0, 5)

	fx := newServiceFixture(t, testNow)
	dto, err := fx.service.CreateManualBooking(context.Background(), hostID, CreateManualBookingRequest{
		CarID:      carID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 2),
		DailyRate:  300_000,
		RenterName: "Walk-in Customer",
	})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", dto.Status)
	assert.Equal(t, "OFFLINE", dto.BookingType)
	assert.Equal(t, uuid.Nil, dto.RenterID)
	require.NotNil(t, dto.ManualDetails)
	assert.Equal(t, "Walk-in Customer", dto.ManualDetails.RenterName)

	// A confirmed manual booking occupies the calendar like any other.
	_, err = fx.service.CreateBooking(context.Background(), uuid.New(),
		createRequest(hostID, carID, start))
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeConflict, domainErr.Code)
}

func TestGetBookingVisibility(t *testing.T) {
	hostID, renterID, carID := uuid.New(), uuid.New(), uuid.New()
	start := testNow.AddDate(0, 0, 10)

	fx := newServiceFixture(t, testNow)
	dto, err := fx.service.CreateBooking(context.Background(), renterID, createRequest(hostID, carID, start))
	require.NoError(t, err)

	_, err = fx.service.GetBooking(context.Background(), dto.ID, hostID)
	assert.NoError(t, err)
	_, err = fx.service.GetBooking(context.Background(), dto.ID, renterID)
	assert.NoError(t, err)

	_, err = fx.service.GetBooking(context.Background(), dto.ID, uuid.New())
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeForbidden, domainErr.Code)
}
