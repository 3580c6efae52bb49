package repository

import (
	"context"
	"errors"

	"evcharge/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservationModel struct {
	ID         string  `gorm:"column:id;primaryKey"`
	SessionID  int     `gorm:"column:session_id;index:idx_partition"`
	Plate      string  `gorm:"column:plate"`
	Date       string  `gorm:"column:date;index:idx_partition"`
	StartTime  string  `gorm:"column:start_time"`
	EndTime    string  `gorm:"column:end_time"`
	Status     string  `gorm:"column:status"`
	OwnerEmail *string `gorm:"column:owner_email;index"`
	Source     string  `gorm:"column:source"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) domain.Reservation {
	return domain.Reservation{
		ID:         m.ID,
		SessionID:  m.SessionID,
		Plate:      m.Plate,
		Date:       m.Date,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Status:     domain.ReservationStatus(m.Status),
		OwnerEmail: m.OwnerEmail,
		Source:     domain.ReservationSource(m.Source),
	}
}

func toReservationModel(r *domain.Reservation) reservationModel {
	return reservationModel{
		ID:         r.ID,
		SessionID:  r.SessionID,
		Plate:      r.Plate,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Status:     string(r.Status),
		OwnerEmail: r.OwnerEmail,
		Source:     string(r.Source),
	}
}

// Migrate creates or updates the reservations table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&reservationModel{})
}

func (r *ReservationRepository) FindByPartition(ctx context.Context, date string, sessionID int) ([]domain.Reservation, error) {
	var rows []reservationModel
	tx := r.db.WithContext(ctx).
		Where("date = ? AND session_id = ?", date, sessionID).
		Order("start_time").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) FindByOwner(ctx context.Context, email string) ([]domain.Reservation, error) {
	var rows []reservationModel
	tx := r.db.WithContext(ctx).
		Where("owner_email = ?", email).
		Order("date, start_time").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainReservation(m))
	}
	return out, nil
}

// InsertIfAbsent inserts the reservation unless its id is already present.
// Returns false when the row existed. Used both for idempotent seeding and
// for committing bookings as a single atomic write.
func (r *ReservationRepository) InsertIfAbsent(ctx context.Context, res *domain.Reservation) (bool, error) {
	m := toReservationModel(res)
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&m)
	if tx.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(tx.Error, &pgErr) && pgErr.Code == "23505" {
			return false, nil
		}
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *ReservationRepository) DeleteByIDAndPartition(ctx context.Context, id, date string, sessionID int) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND date = ? AND session_id = ?", id, date, sessionID).
		Delete(&reservationModel{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}
