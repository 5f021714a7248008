package model

import "time"

// Badge is a gamification award granted to a student when an attendance
// milestone is reached. (student_id, code) is unique: a badge is awarded once.
type Badge struct {
	ID        string // UUID
	StudentID string
	Code      string // e.g. "ATTEND_10"
	Name      string
	AwardedAt time.Time
}

// BadgeMilestone pairs an attendance count with the badge it unlocks.
type BadgeMilestone struct {
	Count int
	Code  string
	Name  string
}

// AttendanceMilestones are the default thresholds, lowest first.
var AttendanceMilestones = []BadgeMilestone{
	{Count: 10, Code: "ATTEND_10", Name: "Consistent Beginner"},
	{Count: 50, Code: "ATTEND_50", Name: "Mat Regular"},
	{Count: 100, Code: "ATTEND_100", Name: "Centurion"},
}
