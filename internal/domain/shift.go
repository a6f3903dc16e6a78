package domain

import "time"

// Shift classifies a sale by the business-hours window it fell into.
// Sales outside both windows are recorded unclassified.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNone      Shift = ""
)

// Shift windows in minutes since local midnight. Lower bound inclusive,
// upper bound exclusive: 7:30:00 is morning, 11:30:00 is not.
const (
	morningStart   = 7*60 + 30  // 07:30
	morningEnd     = 11*60 + 30 // 11:30
	afternoonStart = 16*60 + 30 // 16:30
	afternoonEnd   = 22 * 60    // 22:00
)

// ClassifyShift maps a local wall-clock instant to its shift.
func ClassifyShift(t time.Time) Shift {
	m := t.Hour()*60 + t.Minute()
	switch {
	case m >= morningStart && m < morningEnd:
		return ShiftMorning
	case m >= afternoonStart && m < afternoonEnd:
		return ShiftAfternoon
	default:
		return ShiftNone
	}
}
