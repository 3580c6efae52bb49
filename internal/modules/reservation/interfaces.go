package reservation

import (
	"context"

	"evcharge/internal/domain"
)

// ReservationStore is the persistence collaborator. Partition queries return
// rows ordered by start time; InsertIfAbsent is the single atomic write used
// for both seeding and booking.
type ReservationStore interface {
	FindByPartition(ctx context.Context, date string, sessionID int) ([]domain.Reservation, error)
	FindByOwner(ctx context.Context, email string) ([]domain.Reservation, error)
	InsertIfAbsent(ctx context.Context, r *domain.Reservation) (bool, error)
	DeleteByIDAndPartition(ctx context.Context, id, date string, sessionID int) (bool, error)
}

// EventNotifier pushes reservation lifecycle events to live consumers.
// Best-effort: failures never fail the triggering operation.
type EventNotifier interface {
	NotifyReservationCreated(ctx context.Context, r *domain.Reservation) error
	NotifyReservationCancelled(ctx context.Context, id, date string, sessionID int) error
}
