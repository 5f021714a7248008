package model

import "time"

type CheckInMethod string

const (
	CheckInMethodQR     CheckInMethod = "QR"
	CheckInMethodManual CheckInMethod = "MANUAL"
	CheckInMethodAuto   CheckInMethod = "AUTO" // kiosk/biometric auto check-in
)

// ValidCheckInMethod reports whether m names a known evidence method.
func ValidCheckInMethod(m string) bool {
	switch CheckInMethod(m) {
	case CheckInMethodQR, CheckInMethodManual, CheckInMethodAuto:
		return true
	}
	return false
}

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusLate    AttendanceStatus = "LATE" // checked in after class start
)

// AttendanceRecord is evidence that a student participated in a class
// occurrence. At most one record exists per (occurrence, student); a repeated
// check-in updates RecordedAt and Method instead of duplicating.
type AttendanceRecord struct {
	ID                string // ULID: lexically time-ordered event id
	OrganizationID    string
	ClassOccurrenceID string
	StudentID         string
	Status            AttendanceStatus
	RecordedAt        time.Time
	Method            CheckInMethod
	PositionExecuted  string // optional technique metadata ("armbar from guard")
	CreatedAt         time.Time
}
