package reservation

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"evcharge/internal/domain"

	"github.com/google/uuid"
)

const partitionShards = 64

type Service struct {
	store  ReservationStore
	notifs EventNotifier
	now    func() time.Time

	partitions [partitionShards]sync.Mutex
}

func NewService(store ReservationStore, notifs EventNotifier) *Service {
	return &Service{
		store:  store,
		notifs: notifs,
		now:    time.Now,
	}
}

// partitionLock serializes check-then-insert per (date, sessionId). The locks
// are sharded by partition hash so memory stays fixed no matter how many dates
// a long-running process touches; partitions sharing a shard are serialized
// against each other, which is safe, just occasionally slower.
func (s *Service) partitionLock(date string, sessionID int) *sync.Mutex {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%d", date, sessionID)
	return &s.partitions[h.Sum32()%partitionShards]
}

// EnsureBaseline merges the deterministic baseline for every session of the
// date into the store. Safe to call repeatedly and concurrently: existing ids
// win, nothing is duplicated or overwritten.
func (s *Service) EnsureBaseline(ctx context.Context, date string) error {
	if !validDate(date) {
		return ErrValidation
	}
	for sessionID := 1; sessionID <= SessionCount; sessionID++ {
		for _, seeded := range SeedBaseline(date, sessionID) {
			r := seeded
			if _, err := s.store.InsertIfAbsent(ctx, &r); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetAvailability lists, per session, the start times where a booking of
// durationMin still fits on the date.
func (s *Service) GetAvailability(ctx context.Context, date string, durationMin int) ([]SessionSlots, error) {
	if !validDate(date) || durationMin <= 0 || durationMin%SlotMinutes != 0 {
		return nil, ErrValidation
	}
	if err := s.EnsureBaseline(ctx, date); err != nil {
		return nil, err
	}

	sessions := make([]SessionSlots, 0, SessionCount)
	for sessionID := 1; sessionID <= SessionCount; sessionID++ {
		records, err := s.store.FindByPartition(ctx, date, sessionID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, SessionSlots{
			ID:    sessionID,
			Name:  SessionName(sessionID),
			Slots: AvailableStarts(activeIntervals(records), durationMin),
		})
	}
	return sessions, nil
}

// Book validates and commits a user reservation. The conflict check and the
// insert run under the partition lock so two racing requests cannot both
// claim the same interval.
func (s *Service) Book(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	start, end, err := s.validateWindow(req.Date, req.StartTime, req.DurationMin, req.SessionID)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBaseline(ctx, req.Date); err != nil {
		return nil, err
	}

	var owner *string
	if email := strings.TrimSpace(req.OwnerEmail); email != "" {
		owner = &email
	}

	r := &domain.Reservation{
		SessionID:  req.SessionID,
		Plate:      strings.TrimSpace(req.Plate),
		Date:       req.Date,
		StartTime:  minutesToClock(start),
		EndTime:    minutesToClock(end),
		Status:     domain.StatusConfirmed,
		OwnerEmail: owner,
		Source:     domain.SourceUser,
	}
	if err := s.commit(ctx, r, "RSV", Interval{Start: start, End: end}); err != nil {
		return nil, err
	}
	return r, nil
}

// AdminBook commits an administrative reservation. Admins may pin the initial
// persisted status and get the block plate by default.
func (s *Service) AdminBook(ctx context.Context, req AdminCreateReservationRequest) (*domain.Reservation, error) {
	start, end, err := s.validateWindow(req.Date, req.StartTime, req.DurationMin, req.SessionID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusConfirmed
	}
	switch status {
	case domain.StatusConfirmed, domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled:
	default:
		return nil, ErrValidation
	}

	plate := strings.TrimSpace(req.Plate)
	if plate == "" {
		plate = "관리자 블록"
	}

	if err := s.EnsureBaseline(ctx, req.Date); err != nil {
		return nil, err
	}

	r := &domain.Reservation{
		SessionID: req.SessionID,
		Plate:     plate,
		Date:      req.Date,
		StartTime: minutesToClock(start),
		EndTime:   minutesToClock(end),
		Status:    status,
		Source:    domain.SourceAdmin,
	}
	if err := s.commit(ctx, r, "ADM", Interval{Start: start, End: end}); err != nil {
		return nil, err
	}
	return r, nil
}

// ListBySession returns the date's reservations grouped per session, with the
// time-derived status applied.
func (s *Service) ListBySession(ctx context.Context, date string) ([]SessionReservations, error) {
	if !validDate(date) {
		return nil, ErrValidation
	}
	if err := s.EnsureBaseline(ctx, date); err != nil {
		return nil, err
	}

	now := s.now()
	sessions := make([]SessionReservations, 0, SessionCount)
	for sessionID := 1; sessionID <= SessionCount; sessionID++ {
		records, err := s.store.FindByPartition(ctx, date, sessionID)
		if err != nil {
			return nil, err
		}
		out := make([]ReservationRecord, 0, len(records))
		for i := range records {
			out = append(out, toRecord(&records[i], now))
		}
		sessions = append(sessions, SessionReservations{
			SessionID:    sessionID,
			Name:         SessionName(sessionID),
			Reservations: out,
		})
	}
	return sessions, nil
}

// ListByOwner returns every reservation booked under the email, projected.
func (s *Service) ListByOwner(ctx context.Context, email string) ([]ReservationRecord, error) {
	records, err := s.store.FindByOwner(ctx, email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]ReservationRecord, 0, len(records))
	for i := range records {
		out = append(out, toRecord(&records[i], now))
	}
	return out, nil
}

// Cancel removes the reservation from its partition.
func (s *Service) Cancel(ctx context.Context, id, date string, sessionID int) error {
	if !validDate(date) || !validSession(sessionID) {
		return ErrValidation
	}

	found, err := s.store.DeleteByIDAndPartition(ctx, id, date, sessionID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyReservationCancelled(ctx, id, date, sessionID)
	}
	return nil
}

func (s *Service) validateWindow(date, startTime string, durationMin, sessionID int) (int, int, error) {
	if !validDate(date) || !validSession(sessionID) {
		return 0, 0, ErrValidation
	}
	if durationMin <= 0 || durationMin%SlotMinutes != 0 {
		return 0, 0, ErrValidation
	}

	start, err := clockToMinutes(startTime)
	if err != nil {
		return 0, 0, err
	}
	// 22:00 parses but is the window close, never a start.
	if start >= operatingEndMinutes {
		return 0, 0, ErrValidation
	}

	end := start + durationMin
	if end > operatingEndMinutes {
		return 0, 0, ErrValidation
	}
	return start, end, nil
}

func (s *Service) commit(ctx context.Context, r *domain.Reservation, idPrefix string, candidate Interval) error {
	lock := s.partitionLock(r.Date, r.SessionID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.FindByPartition(ctx, r.Date, r.SessionID)
	if err != nil {
		return err
	}
	if conflictsAny(candidate, activeIntervals(existing)) {
		return ErrConflict
	}

	for attempt := 0; attempt < 3; attempt++ {
		r.ID = randomReservationID(idPrefix, r.SessionID)
		inserted, err := s.store.InsertIfAbsent(ctx, r)
		if err != nil {
			return err
		}
		if inserted {
			if s.notifs != nil {
				_ = s.notifs.NotifyReservationCreated(ctx, r)
			}
			return nil
		}
	}
	return ErrIDGeneration
}

func toRecord(r *domain.Reservation, now time.Time) ReservationRecord {
	return ReservationRecord{
		ID:         r.ID,
		SessionID:  r.SessionID,
		Plate:      r.Plate,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Status:     ProjectStatus(r, now),
		OwnerEmail: r.OwnerEmail,
	}
}

func randomReservationID(prefix string, sessionID int) string {
	id := uuid.New()
	return fmt.Sprintf("%s-%d-%s", prefix, sessionID, strings.ToUpper(hex.EncodeToString(id[:4])))
}
