package leave

import (
	"time"

	"github.com/frahmantamala/staff-requests/internal"
)

// CanSubmit checks the date rules. Sick leave may start in the past; every
// other type must start today or later.
func CanSubmit(today time.Time, t Type, start, end time.Time) error {
	if end.Before(start) {
		return internal.ErrInvalidDateRange
	}
	if t != TypeSick && start.Before(today) {
		return internal.ErrLeaveStartInPast
	}
	return nil
}
