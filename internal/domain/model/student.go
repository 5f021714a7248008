package model

import (
	"strings"
	"time"

	"academy-platform/internal/domain"
)

// Student represents an enrolled academy member.
type Student struct {
	ID                string // UUID
	OrganizationID    string // UUID of owning academy (multi-tenant scope)
	FirstName         string
	LastName          string
	Email             string
	Document          string // CPF/CNPJ, stored encrypted at rest
	Phone             string
	BeltRank          string // e.g. "white", "blue", "P3"
	Points            int    // gamification points, awarded on check-in
	Active            bool
	GatewayCustomerID string // mirror of the payment provider customer id; empty until first charge
	RegisteredAt      time.Time
	UpdatedAt         time.Time
}

// NewStudent validates required fields and returns a Student pending persistence.
func NewStudent(id, orgID, firstName, lastName, email, document string) (*Student, error) {
	if id == "" || orgID == "" || strings.TrimSpace(firstName) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(email) == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Student{
		ID:             id,
		OrganizationID: orgID,
		FirstName:      strings.TrimSpace(firstName),
		LastName:       strings.TrimSpace(lastName),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Document:       document,
		Active:         true,
		RegisteredAt:   now,
		UpdatedAt:      now,
	}, nil
}

// FullName joins first and last name for gateway payloads and notifications.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
