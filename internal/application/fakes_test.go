package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/rebil-rentals/service-booking/internal/domain/audit"
	bookingDomain "github.com/rebil-rentals/service-booking/internal/domain/booking"
	reviewDomain "github.com/rebil-rentals/service-booking/internal/domain/review"
	"github.com/rebil-rentals/service-booking/internal/pkg/domain"
	"github.com/rebil-rentals/service-booking/internal/pkg/kafka"
)

// fakeBookingRepo is an in-memory booking repository with the same
// conflict semantics as the Postgres implementation.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	// updateConflict forces the next Update to lose the optimistic race.
	updateConflict bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, carID uuid.UUID, start, end time.Time, statuses []bookingDomain.Status, excludeID *uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlapping(carID, start, end, statuses, excludeID), nil
}

func (r *fakeBookingRepo) overlapping(carID uuid.UUID, start, end time.Time, statuses []bookingDomain.Status, excludeID *uuid.UUID) []*bookingDomain.Booking {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.CarID() != carID {
			continue
		}
		if excludeID != nil && bk.ID() == *excludeID {
			continue
		}
		if !statusIn(bk.Status(), statuses) {
			continue
		}
		if bookingDomain.OverlapsBooking(bk, start, end) {
			out = append(out, bk)
		}
	}
	return out
}

func (r *fakeBookingRepo) FindOccupyingByCar(_ context.Context, carID uuid.UUID, statuses []bookingDomain.Status) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.CarID() == carID && statusIn(bk.Status(), statuses) {
			out = append(out, bk)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByHostID(_ context.Context, hostID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.HostID() == hostID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByRenterID(_ context.Context, renterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.RenterID() == renterID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		out = append(out, bk)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Create(_ context.Context, bk *bookingDomain.Booking, occupying []bookingDomain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.overlapping(bk.CarID(), bk.StartDate(), bk.EndDate(), occupying, nil)) > 0 {
		return domain.NewConflictError("the vehicle was booked for these dates by a concurrent request")
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateConflict {
		r.updateConflict = false
		return domain.NewConflictError("booking was modified by another transaction")
	}
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func statusIn(s bookingDomain.Status, set []bookingDomain.Status) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

// fakeReviewRepo is an in-memory review repository enforcing the unique
// triple constraint.
type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []*reviewDomain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{}
}

func (r *fakeReviewRepo) ExistsForTriple(_ context.Context, bookingID, reviewerID, revieweeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.BookingID() == bookingID && rv.ReviewerID() == reviewerID && rv.RevieweeID() == revieweeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*reviewDomain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reviewDomain.Review
	for _, rv := range r.reviews {
		if rv.BookingID() == bookingID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) FindByRevieweeID(_ context.Context, revieweeID uuid.UUID, publicOnly bool, page, limit int) ([]*reviewDomain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reviewDomain.Review
	for _, rv := range r.reviews {
		if rv.RevieweeID() != revieweeID {
			continue
		}
		if publicOnly && !rv.IsPublic() {
			continue
		}
		out = append(out, rv)
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) Save(_ context.Context, rv *reviewDomain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.BookingID() == rv.BookingID() &&
			existing.ReviewerID() == rv.ReviewerID() &&
			existing.RevieweeID() == rv.RevieweeID() {
			return domain.NewAlreadyReviewedError("you have already reviewed this booking")
		}
	}
	r.reviews = append(r.reviews, rv)
	return nil
}

// fakeAuditRepo is an in-memory transition log.
type fakeAuditRepo struct {
	mu      sync.Mutex
	records []*auditDomain.TransitionRecord
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Append(_ context.Context, record *auditDomain.TransitionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeAuditRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*auditDomain.TransitionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*auditDomain.TransitionRecord
	for _, rec := range r.records {
		if rec.BookingID() == bookingID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// fakePublisher captures published CloudEvents.
type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}
