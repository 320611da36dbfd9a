package booking

import "time"

// Overlaps reports whether the half-open ranges [s1,e1) and [s2,e2)
// intersect. A rental ending exactly when another starts does not
// conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// OverlapsBooking reports whether the candidate range conflicts with an
// existing booking's rental window.
func OverlapsBooking(b *Booking, start, end time.Time) bool {
	return Overlaps(b.StartDate(), b.EndDate(), start, end)
}
