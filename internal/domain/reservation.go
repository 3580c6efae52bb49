package domain

type ReservationStatus string

const (
	StatusConfirmed  ReservationStatus = "CONFIRMED"
	StatusInProgress ReservationStatus = "IN_PROGRESS"
	StatusCompleted  ReservationStatus = "COMPLETED"
	StatusCancelled  ReservationStatus = "CANCELLED"
)

type ReservationSource string

const (
	SourceSeed  ReservationSource = "seed"
	SourceUser  ReservationSource = "user"
	SourceAdmin ReservationSource = "admin"
)

// Reservation is one charging slot booking. Only CONFIRMED and CANCELLED are
// persisted statuses; IN_PROGRESS and COMPLETED are derived at read time for
// same-day records and never written back.
type Reservation struct {
	ID         string            `json:"id"`
	SessionID  int               `json:"sessionId" validate:"required,min=1,max=4"`
	Plate      string            `json:"plate"`
	Date       string            `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string            `json:"startTime" validate:"required"`
	EndTime    string            `json:"endTime" validate:"required"`
	Status     ReservationStatus `json:"status"`
	OwnerEmail *string           `json:"ownerEmail,omitempty"`
	Source     ReservationSource `json:"-"`
}

// Active reports whether the reservation still occupies its interval for
// conflict purposes.
func (r *Reservation) Active() bool {
	return r.Status != StatusCancelled
}
