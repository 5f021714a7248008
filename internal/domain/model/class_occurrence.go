package model

import (
	"time"

	"academy-platform/internal/domain"
)

type ClassType string

const (
	ClassTypeCollective ClassType = "COLLECTIVE" // open mat / group class, walk-ins allowed
	ClassTypePrivate    ClassType = "PRIVATE"    // booked slot, only enrolled students
)

type OccurrenceState string

const (
	OccurrenceScheduled  OccurrenceState = "SCHEDULED"
	OccurrenceInProgress OccurrenceState = "IN_PROGRESS"
	OccurrenceCompleted  OccurrenceState = "COMPLETED"
)

// ClassOccurrence is one scheduled instance of a class (a "lesson" on the
// academy calendar). Its state is derived from the clock, not stored.
type ClassOccurrence struct {
	ID                 string // UUID
	OrganizationID     string
	CourseID           string
	InstructorID       string
	Type               ClassType
	StartTime          time.Time
	EndTime            time.Time
	MaxStudents        int
	EnrolledStudentIDs []string
	CreatedAt          time.Time
}

func NewClassOccurrence(id, orgID, courseID, instructorID string, typ ClassType, start, end time.Time) (*ClassOccurrence, error) {
	if id == "" || orgID == "" || courseID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if typ != ClassTypeCollective && typ != ClassTypePrivate {
		return nil, domain.ErrInvalidArgument
	}
	if !end.After(start) {
		return nil, domain.ErrInvalidArgument
	}
	return &ClassOccurrence{
		ID:             id,
		OrganizationID: orgID,
		CourseID:       courseID,
		InstructorID:   instructorID,
		Type:           typ,
		StartTime:      start,
		EndTime:        end,
		CreatedAt:      time.Now(),
	}, nil
}

// State derives the lifecycle position at the given instant.
func (c *ClassOccurrence) State(now time.Time) OccurrenceState {
	switch {
	case now.Before(c.StartTime):
		return OccurrenceScheduled
	case now.Before(c.EndTime):
		return OccurrenceInProgress
	default:
		return OccurrenceCompleted
	}
}

// IsEnrolled reports whether the student holds a seat in this occurrence.
func (c *ClassOccurrence) IsEnrolled(studentID string) bool {
	for _, id := range c.EnrolledStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
