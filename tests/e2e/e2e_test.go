package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"evcharge/internal/database"
	"evcharge/internal/middleware"
	"evcharge/internal/modules/auth"
	"evcharge/internal/modules/monitor"
	"evcharge/internal/modules/reservation"
	jwtsvc "evcharge/internal/pkg/jwt"
	"evcharge/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorDetail    `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type suite struct {
	router *gin.Engine
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// named in-memory database: shared across pool connections, private per test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, repository.Migrate(db))

	reservationRepo := repository.NewReservationRepository(db)
	hub := monitor.NewHub()
	t.Cleanup(hub.Close)

	reservationService := reservation.NewService(reservationRepo, hub)

	j := jwtsvc.New("e2e-secret", time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	authService := auth.NewService(j, "admin@demo.dev", hash)

	authHandler := auth.NewHandler(authService)
	reservationHandler := reservation.NewHandler(reservationService)
	monitorHandler := monitor.NewHandler(hub)

	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("/")
	protected.Use(middleware.Auth(j))
	authHandler.RegisterUserRoutes(protected)
	reservationHandler.RegisterUserRoutes(protected)

	admin := api.Group("/")
	admin.Use(middleware.Auth(j), middleware.AdminOnly())
	reservationHandler.RegisterAdminRoutes(admin)
	monitorHandler.RegisterRoutes(admin)

	return &suite{router: r}
}

func (s *suite) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (s *suite) loginUser(t *testing.T, email string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/user/login", "", gin.H{"email": email, "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (s *suite) loginAdmin(t *testing.T) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/admin/login", "", gin.H{"email": "admin@demo.dev", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (s *suite) availability(t *testing.T, token, date string, durationMin int) []reservation.SessionSlots {
	t.Helper()
	path := fmt.Sprintf("/api/user/sessions?date=%s&durationMin=%d", date, durationMin)
	w, env := s.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Sessions []reservation.SessionSlots `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Sessions, reservation.SessionCount)
	return data.Sessions
}

func firstFreeSlot(t *testing.T, sessions []reservation.SessionSlots) (int, string) {
	t.Helper()
	for _, s := range sessions {
		if len(s.Slots) > 0 {
			return s.ID, s.Slots[0]
		}
	}
	t.Fatal("no session has a free slot")
	return 0, ""
}

func TestHealth(t *testing.T) {
	s := setupSuite(t)

	w, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthGates(t *testing.T) {
	s := setupSuite(t)

	w, env := s.do(t, http.MethodGet, "/api/user/sessions?date=2024-06-01", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	userToken := s.loginUser(t, "driver@example.com")
	w, env = s.do(t, http.MethodGet, "/api/admin/sessions?date=2024-06-01", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	w, _ = s.do(t, http.MethodPost, "/api/admin/login", "", gin.H{"email": "admin@demo.dev", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyPlate(t *testing.T) {
	s := setupSuite(t)
	token := s.loginUser(t, "driver@example.com")

	w, env := s.do(t, http.MethodPost, "/api/user/verify-plate", token, gin.H{"plate": "서울123가4568"})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Registered bool `json:"registered"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Registered)
}

func TestBookingLifecycle(t *testing.T) {
	s := setupSuite(t)
	date := "2024-06-01"

	userToken := s.loginUser(t, "driver@example.com")
	adminToken := s.loginAdmin(t)

	sessions := s.availability(t, userToken, date, 60)
	sessionID, slot := firstFreeSlot(t, sessions)

	// book it
	w, env := s.do(t, http.MethodPost, "/api/user/reservations", userToken, gin.H{
		"plate": "서울123가4568", "date": date, "startTime": slot, "durationMin": 60, "sessionId": sessionID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ReservationID string `json:"reservationId"`
		Status        string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Regexp(t, fmt.Sprintf(`^RSV-%d-[0-9A-F]{8}$`, sessionID), created.ReservationID)
	assert.Equal(t, "CONFIRMED", created.Status)

	// overlapping booking in the same partition is rejected
	w, env = s.do(t, http.MethodPost, "/api/user/reservations", userToken, gin.H{
		"plate": "경기456나7890", "date": date, "startTime": slot, "durationMin": 30, "sessionId": sessionID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RESERVATION_CONFLICT", env.Error.Code)

	// a different partition still accepts bookings
	sessions = s.availability(t, userToken, date, 60)
	var otherID int
	var otherSlot string
	for _, sess := range sessions {
		if sess.ID != sessionID && len(sess.Slots) > 0 {
			otherID = sess.ID
			otherSlot = sess.Slots[0]
			break
		}
	}
	require.NotZero(t, otherID)

	w, _ = s.do(t, http.MethodPost, "/api/user/reservations", userToken, gin.H{
		"plate": "부산111다2222", "date": date, "startTime": otherSlot, "durationMin": 60, "sessionId": otherID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// the booking shows up for its owner
	w, env = s.do(t, http.MethodGet, "/api/user/reservations", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var mine struct {
		Reservations []reservation.ReservationRecord `json:"reservations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	ids := make([]string, 0, len(mine.Reservations))
	for _, r := range mine.Reservations {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, created.ReservationID)

	// and in the admin per-session listing
	w, env = s.do(t, http.MethodGet, "/api/admin/sessions?date="+date, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var grouped struct {
		Sessions []reservation.SessionReservations `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &grouped))
	require.Len(t, grouped.Sessions, reservation.SessionCount)

	found := false
	for _, r := range grouped.Sessions[sessionID-1].Reservations {
		if r.ID == created.ReservationID {
			found = true
		}
	}
	assert.True(t, found, "user booking missing from admin session listing")

	// admin cancels it; a second delete is a 404
	deletePath := fmt.Sprintf("/api/admin/reservations/%s?date=%s&sessionId=%d", created.ReservationID, date, sessionID)
	w, _ = s.do(t, http.MethodDelete, deletePath, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodDelete, deletePath, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	// the interval is bookable again
	sessions = s.availability(t, userToken, date, 60)
	assert.Contains(t, sessions[sessionID-1].Slots, slot)
}

func TestBookingValidation(t *testing.T) {
	s := setupSuite(t)
	token := s.loginUser(t, "driver@example.com")

	cases := []gin.H{
		{"plate": "서울123가4568", "date": "2024-06-01", "startTime": "13:00", "durationMin": 45, "sessionId": 1},
		{"plate": "서울123가4568", "date": "2024-06-01", "startTime": "22:00", "durationMin": 30, "sessionId": 1},
		{"plate": "서울123가4568", "date": "2024-06-01", "startTime": "21:30", "durationMin": 60, "sessionId": 1},
		{"plate": "서울123가4568", "date": "06/01/2024", "startTime": "13:00", "durationMin": 30, "sessionId": 1},
		{"plate": "서울123가4568", "date": "2024-06-01", "startTime": "13:00", "durationMin": 30, "sessionId": 9},
	}

	for _, body := range cases {
		w, env := s.do(t, http.MethodPost, "/api/user/reservations", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %v", body)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	}
}

func TestAdminCancelledBlockDoesNotOccupy(t *testing.T) {
	s := setupSuite(t)
	date := "2024-07-15"

	userToken := s.loginUser(t, "driver@example.com")
	adminToken := s.loginAdmin(t)

	sessions := s.availability(t, userToken, date, 30)
	sessionID, slot := firstFreeSlot(t, sessions)

	w, env := s.do(t, http.MethodPost, "/api/admin/reservations", adminToken, gin.H{
		"date": date, "sessionId": sessionID, "startTime": slot, "durationMin": 30, "status": "CANCELLED",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Reservation reservation.ReservationRecord `json:"reservation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Regexp(t, fmt.Sprintf(`^ADM-%d-[0-9A-F]{8}$`, sessionID), created.Reservation.ID)
	assert.Equal(t, "관리자 블록", created.Reservation.Plate)

	// cancelled records never occupy capacity
	w, _ = s.do(t, http.MethodPost, "/api/user/reservations", userToken, gin.H{
		"plate": "서울123가4568", "date": date, "startTime": slot, "durationMin": 30, "sessionId": sessionID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// but a confirmed admin block does
	sessions = s.availability(t, userToken, date, 30)
	blockID, blockSlot := firstFreeSlot(t, sessions)

	w, _ = s.do(t, http.MethodPost, "/api/admin/reservations", adminToken, gin.H{
		"date": date, "sessionId": blockID, "startTime": blockSlot, "durationMin": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/user/reservations", userToken, gin.H{
		"plate": "서울123가4568", "date": date, "startTime": blockSlot, "durationMin": 30, "sessionId": blockID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
