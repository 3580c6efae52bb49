package monitor

import (
	"context"
	"sync"

	"evcharge/internal/domain"

	"github.com/gorilla/websocket"
)

// Event is one entry on the live feed consumed by the admin dashboard.
type Event struct {
	Type          string `json:"type"`
	ReservationID string `json:"reservationId"`
	SessionID     int    `json:"sessionId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime,omitempty"`
	EndTime       string `json:"endTime,omitempty"`
	Source        string `json:"source,omitempty"`
}

const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
)

// Hub fans reservation events out to connected dashboard sockets. Delivery is
// best-effort; a broken socket is dropped, never retried.
type Hub struct {
	mutex       sync.RWMutex
	connections map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.connections[conn] = struct{}{}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, exists := h.connections[conn]; exists {
		_ = conn.Close()
		delete(h.connections, conn)
	}
}

func (h *Hub) Broadcast(event Event) {
	h.mutex.RLock()
	conns := make([]*websocket.Conn, 0, len(h.connections))
	for conn := range h.connections {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.Unregister(conn)
		}
	}
}

func (h *Hub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.connections {
		_ = conn.Close()
		delete(h.connections, conn)
	}
}

// NotifyReservationCreated implements reservation.EventNotifier.
func (h *Hub) NotifyReservationCreated(_ context.Context, r *domain.Reservation) error {
	h.Broadcast(Event{
		Type:          EventReservationCreated,
		ReservationID: r.ID,
		SessionID:     r.SessionID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Source:        string(r.Source),
	})
	return nil
}

// NotifyReservationCancelled implements reservation.EventNotifier.
func (h *Hub) NotifyReservationCancelled(_ context.Context, id, date string, sessionID int) error {
	h.Broadcast(Event{
		Type:          EventReservationCancelled,
		ReservationID: id,
		SessionID:     sessionID,
		Date:          date,
	})
	return nil
}
