package reservation

import "evcharge/internal/domain"

type CreateReservationRequest struct {
	Plate       string `json:"plate" binding:"required"`
	Date        string `json:"date" binding:"required" validate:"datetime=2006-01-02"`
	StartTime   string `json:"startTime" binding:"required"`
	DurationMin int    `json:"durationMin" binding:"required,gt=0"`
	SessionID   int    `json:"sessionId" binding:"required"`
	OwnerEmail  string `json:"-"`
}

type AdminCreateReservationRequest struct {
	Date        string                   `json:"date" binding:"required" validate:"datetime=2006-01-02"`
	SessionID   int                      `json:"sessionId" binding:"required"`
	StartTime   string                   `json:"startTime" binding:"required"`
	DurationMin int                      `json:"durationMin" binding:"required,gt=0"`
	Plate       string                   `json:"plate"`
	Status      domain.ReservationStatus `json:"status"`
}

type ReservationRecord struct {
	ID         string                   `json:"id"`
	SessionID  int                      `json:"sessionId"`
	Plate      string                   `json:"plate"`
	Date       string                   `json:"date"`
	StartTime  string                   `json:"startTime"`
	EndTime    string                   `json:"endTime"`
	Status     domain.ReservationStatus `json:"status"`
	OwnerEmail *string                  `json:"ownerEmail,omitempty"`
}

type SessionSlots struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Slots []string `json:"slots"`
}

type SessionReservations struct {
	SessionID    int                 `json:"sessionId"`
	Name         string              `json:"name"`
	Reservations []ReservationRecord `json:"reservations"`
}
