// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance statuses.
const (
	AttendancePresent  = "present"
	AttendanceSick     = "sick"
	AttendanceVacation = "vacation"
	AttendanceOther    = "other"
)

// IsValidAttendanceStatus reports whether status is a known attendance status.
func IsValidAttendanceStatus(status string) bool {
	switch status {
	case AttendancePresent, AttendanceSick, AttendanceVacation, AttendanceOther:
		return true
	}
	return false
}

// AttendanceDateLayout is the wire format for attendance dates.
const AttendanceDateLayout = "2006-01-02"

// AttendanceRecord is one user's status for one calendar date.
// Exactly one record exists per (user_id, date); repeated submissions
// update the existing record in place.
type AttendanceRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Date      string             `bson:"date" json:"date"` // YYYY-MM-DD
	Status    string             `bson:"status" json:"status"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
