package reservation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Operating window. Charging bays accept bookings between 09:00 and 22:00 on
// 30-minute boundaries; session ids identify the fixed set of physical bays.
const (
	OperatingStartHour = 9
	OperatingEndHour   = 22
	SlotMinutes        = 30
	SessionCount       = 4
)

const (
	operatingStartMinutes = OperatingStartHour * 60
	operatingEndMinutes   = OperatingEndHour * 60
)

// EnumerateSlots returns every valid start time in the operating window,
// ascending. 22:00 is the close of the window, not a start time.
func EnumerateSlots() []string {
	slots := make([]string, 0, (OperatingEndHour-OperatingStartHour)*2)
	for hour := OperatingStartHour; hour < OperatingEndHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
		slots = append(slots, fmt.Sprintf("%02d:30", hour))
	}
	return slots
}

// clockToMinutes parses an HH:MM string and checks it sits on a half-hour
// boundary inside the operating window.
func clockToMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, ErrValidation
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrValidation
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrValidation
	}
	if minute != 0 && minute != 30 {
		return 0, ErrValidation
	}
	total := hour*60 + minute
	if total < operatingStartMinutes || total > operatingEndMinutes {
		return 0, ErrValidation
	}
	return total, nil
}

func minutesToClock(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func validSession(sessionID int) bool {
	return sessionID >= 1 && sessionID <= SessionCount
}

// SessionName is the display label used by both frontends.
func SessionName(sessionID int) string {
	return fmt.Sprintf("세션 %d", sessionID)
}
