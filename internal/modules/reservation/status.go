package reservation

import (
	"time"

	"evcharge/internal/domain"
)

// ProjectStatus overlays the time-derived status onto a reservation without
// touching the stored value. Records for other days keep their persisted
// status; CANCELLED is terminal and never overlaid.
func ProjectStatus(r *domain.Reservation, now time.Time) domain.ReservationStatus {
	if r.Status == domain.StatusCancelled {
		return r.Status
	}
	if now.Format("2006-01-02") != r.Date {
		return r.Status
	}

	start, err := clockToMinutes(r.StartTime)
	if err != nil {
		return r.Status
	}
	end, err := clockToMinutes(r.EndTime)
	if err != nil {
		return r.Status
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	switch {
	case nowMinutes >= end:
		return domain.StatusCompleted
	case nowMinutes >= start:
		return domain.StatusInProgress
	default:
		return r.Status
	}
}
